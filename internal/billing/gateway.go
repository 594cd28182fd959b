package billing

import "context"

// ProviderOrder is a remote order created at the payment provider
type ProviderOrder struct {
	OrderID  string
	Amount   int
	Currency string
}

// Gateway abstracts the payment provider. The production implementation
// talks to Razorpay; tests inject a fake.
type Gateway interface {
	// Provider returns the provider name stored on payment records
	Provider() string

	// Key returns the public key id the checkout widget needs
	Key() string

	// CreateOrder creates a remote order for the given amount (minor
	// currency units) and merchant receipt reference
	CreateOrder(ctx context.Context, amount int, currency, receipt string) (*ProviderOrder, error)
}
