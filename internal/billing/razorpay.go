package billing

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayGateway creates orders against the Razorpay Orders API.
// Credentials are read from the process environment on every call, so
// key rotation needs no restart.
type RazorpayGateway struct {
	baseURL string
}

// NewRazorpayGateway creates the production gateway
func NewRazorpayGateway() *RazorpayGateway {
	return &RazorpayGateway{baseURL: razorpayBaseURL}
}

// Provider returns the provider name
func (g *RazorpayGateway) Provider() string {
	return "razorpay"
}

// Key returns the public key id for the checkout widget
func (g *RazorpayGateway) Key() string {
	return os.Getenv("RAZORPAY_KEY_ID")
}

// CreateOrder creates a remote order
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int, currency, receipt string) (*ProviderOrder, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay credentials not configured")
	}

	body := fmt.Sprintf(`{"amount":%d,"currency":"%s","receipt":"%s"}`, amount, currency, receipt)
	result, err := g.request(ctx, keyID, keySecret, "POST", "/orders", body)
	if err != nil {
		return nil, err
	}

	orderID, _ := result["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	return &ProviderOrder{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (g *RazorpayGateway) request(ctx context.Context, keyID, keySecret, method, path, body string) (map[string]interface{}, error) {
	reqURL := g.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(keyID, keySecret))

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read razorpay response body: %w", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse razorpay response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if errObj, ok := result["error"].(map[string]interface{}); ok {
			msg, _ := errObj["description"].(string)
			return nil, fmt.Errorf("razorpay API error (%d): %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("razorpay API error (%d)", resp.StatusCode)
	}

	return result, nil
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
