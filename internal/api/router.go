package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/superinternet/portal-api/internal/api/handler"
	"github.com/superinternet/portal-api/internal/api/middleware"
	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// Deps bundles everything the router needs. Mongo and Redis are optional:
// only the configured snapshot backend is non-nil, and the readiness probe
// checks whichever is present.
type Deps struct {
	Directory ports.DirectoryService
	Contracts ports.ContractService
	Billing   ports.BillingService
	Messaging ports.MessagingService
	JWTSecret string
	Mongo     *mongo.Database
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Directory)
	recoveryHandler := handler.NewRecoveryHandler(deps.Directory)
	contractHandler := handler.NewContractHandler(deps.Contracts)
	billingHandler := handler.NewBillingHandler(deps.Billing)
	messageHandler := handler.NewMessageHandler(deps.Messaging)
	supportHandler := handler.NewSupportHandler(deps.Messaging, deps.Contracts)
	adminHandler := handler.NewAdminHandler(deps.Directory, deps.Contracts)

	auth := middleware.Auth(deps.JWTSecret)
	clientOnly := middleware.RBAC(domain.RoleClient)
	supportOnly := middleware.RBAC(domain.RoleSupport)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/recovery", recoveryHandler.Issue)
	e.POST("/auth/recovery/verify", recoveryHandler.Verify)
	e.POST("/auth/recovery/reset", recoveryHandler.Reset)

	// --- Authenticated account routes ---
	e.GET("/me", authHandler.Me, auth)
	e.DELETE("/me", authHandler.DeleteMe, auth, clientOnly)

	// --- Client routes ---
	client := e.Group("", auth, clientOnly)
	client.POST("/contracts", contractHandler.Create)
	client.PUT("/contracts/address", contractHandler.UpdateAddress)
	client.DELETE("/contracts", contractHandler.Delete)
	client.POST("/payments", billingHandler.Pay)
	client.POST("/payments/recurring/toggle", billingHandler.ToggleRecurring)
	client.GET("/messages", messageHandler.List)
	client.POST("/messages", messageHandler.Send)
	client.POST("/messages/read", messageHandler.MarkRead)

	// --- Support routes ---
	support := e.Group("/support", auth, supportOnly)
	support.GET("/tickets", supportHandler.Tickets)
	support.GET("/clients/:id/messages", supportHandler.ClientMessages)
	support.POST("/clients/:id/messages", supportHandler.SendToClient)
	support.DELETE("/clients/:id/messages", supportHandler.CloseTicket)
	support.PUT("/clients/:id/contract", supportHandler.UpdateContract)

	// --- Admin routes ---
	admin := e.Group("/admin", auth, adminOnly)
	admin.GET("/clients", adminHandler.ListClients)
	admin.DELETE("/clients/:id", adminHandler.DeleteClient)
	admin.GET("/staff", adminHandler.ListStaff)
	admin.POST("/staff", adminHandler.CreateStaff)
	admin.DELETE("/staff/:id", adminHandler.DeleteStaff)
	admin.GET("/equipment", adminHandler.Equipment)
	admin.POST("/clients/:id/approve", adminHandler.Approve)
	admin.PUT("/clients/:id/equipment", adminHandler.SetEquipment)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the snapshot backend up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
