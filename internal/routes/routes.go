package routes

import (
	"github.com/campushq/campus-backend/internal/handler"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/campushq/campus-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes. Gated routes register their feature
// and limit requirements in the route table before the server starts, so
// the enforcement middleware never infers policy from URL strings.
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	tenantHandler *handler.TenantHandler,
	configHandler *handler.ConfigHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	billingHandler *handler.BillingHandler,
	studentHandler *handler.StudentHandler,
	feeHandler *handler.FeeHandler,
	branchHandler *handler.BranchHandler,
	studentService *service.StudentService,
	branchService *service.BranchService,
	jwtManager *jwt.Manager,
	enforcer *middleware.Enforcer,
	routeTable *middleware.RouteTable,
) {
	// Webhook and provisioning are unauthenticated: the webhook proves
	// itself with its signature, provisioning happens before any user
	// exists.
	router.POST("/api/v1/billing/webhook", billingHandler.Webhook)
	router.POST("/api/v1/tenants", tenantHandler.Provision)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Everything below carries a tenant identity and runs through the
	// subscription gates.
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtManager), enforcer.Middleware())

	subscription := authed.Group("/subscription")
	subscription.GET("/current", subscriptionHandler.Current)
	subscription.GET("/plans", subscriptionHandler.Plans)
	subscription.POST("/change-plan", subscriptionHandler.ChangePlan)

	billing := authed.Group("/billing")
	billing.POST("/create-order", billingHandler.CreateOrder)
	billing.GET("/payments", billingHandler.ListPayments)

	// Config is read/patch only. No POST, no DELETE: keys exist from the
	// whitelist, values are only ever overridden.
	configGroup := authed.Group("/config")
	configGroup.GET("", configHandler.List)
	configGroup.GET("/:key", configHandler.Get)
	configGroup.PATCH("", configHandler.Upsert)
	configGroup.PATCH("/batch", configHandler.BatchUpsert)

	students := authed.Group("/students")
	students.POST("", studentHandler.Create)
	students.GET("", studentHandler.List)
	routeTable.Register("POST", "/api/v1/students", middleware.RouteMeta{
		Feature:  "students.enabled",
		LimitKey: "limits.maxStudents",
		Count:    studentService.Count,
	})
	routeTable.Register("GET", "/api/v1/students", middleware.RouteMeta{
		Feature: "students.enabled",
	})

	fees := authed.Group("/fees")
	fees.POST("/heads", feeHandler.Create)
	fees.GET("/heads", feeHandler.List)
	routeTable.Register("POST", "/api/v1/fees/heads", middleware.RouteMeta{
		Feature: "fees.enabled",
	})
	routeTable.Register("GET", "/api/v1/fees/heads", middleware.RouteMeta{
		Feature: "fees.enabled",
	})

	branches := authed.Group("/branches")
	branches.POST("", branchHandler.Create)
	branches.GET("", branchHandler.List)
	routeTable.Register("POST", "/api/v1/branches", middleware.RouteMeta{
		LimitKey: "limits.maxBranches",
		Count:    branchService.Count,
	})
}
