// Package routes defines the API routing configuration. It wires
// repositories, services and handlers and groups routes by
// authentication requirement.
package routes

import (
	"pixgate/internal/config"
	"pixgate/internal/handlers"
	"pixgate/internal/middleware"
	"pixgate/internal/provider"
	"pixgate/internal/repositories"
	"pixgate/internal/repositories/cache"
	"pixgate/internal/services/balance"
	"pixgate/internal/services/charge"
	"pixgate/internal/services/merchant"
	"pixgate/internal/services/notify"
	"pixgate/internal/services/partner"
	"pixgate/internal/services/reconcile"
	"pixgate/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes wires the whole HTTP surface.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) {
	// Repositories
	merchantRepo := repositories.NewMerchantRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	pixChargeRepo := repositories.NewPixChargeRepository(db)
	intentRepo := repositories.NewChargeIntentRepository(db)
	partnerRepo := repositories.NewPartnerRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	endpointRepo := repositories.NewWebhookEndpointRepository(db)

	var cacheService *cache.Service
	if rdb != nil {
		cacheService = cache.NewService(rdb, cfg.Redis.TTL())
	}

	providerClient := provider.NewClient(provider.Config{
		BaseURL: cfg.Provider.BaseURL,
		AppID:   cfg.Provider.AppID,
		Timeout: cfg.Provider.Timeout(),
	}, logger)

	// Services
	var balanceCache balance.Cache
	if cacheService != nil {
		balanceCache = cacheService
	}
	balanceService := balance.NewService(db, balanceCache, logger)

	dispatcher := notify.NewDispatcher(endpointRepo, logger, cfg.Webhooks.DeliveryTimeout())

	reconciler := reconcile.NewService(
		dispatcher,
		balanceService,
		logger,
		reconcile.NewChargeStore(db),
		reconcile.NewPartnerStore(db, logger),
	)

	chargeService := charge.NewService(
		merchantRepo,
		partnerRepo,
		transactionRepo,
		pixChargeRepo,
		intentRepo,
		providerClient,
		cfg.Charges.DefaultExpiresIn,
		logger,
	)

	withdrawalService := withdrawal.NewService(
		merchantRepo,
		partnerRepo,
		withdrawalRepo,
		balanceService,
		providerClient,
		logger,
	)

	partnerService := partner.NewService(partnerRepo, providerClient, logger)
	merchantService := merchant.NewService(merchantRepo, providerClient, logger)

	// Handlers
	chargeHandler := handlers.NewChargeHandler(chargeService)
	chargeStatusHandler := handlers.NewChargeStatusHandler(pixChargeRepo, transactionRepo, partnerRepo)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo)
	merchantHandler := handlers.NewMerchantHandler(merchantService)
	webhookHandler := handlers.NewWebhookHandler(reconciler, logger)
	balanceHandler := handlers.NewBalanceHandler(balanceService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	subaccountHandler := handlers.NewSubaccountHandler(providerClient)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	endpointHandler := handlers.NewWebhookEndpointHandler(endpointRepo)
	adminHandler := handlers.NewAdminHandler(intentRepo)
	healthHandler := handlers.NewHealthHandler(db, rdb)

	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, logger)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Public endpoints: provider notifications and unauthenticated
	// charge creation.
	api.All("/webhooks/provider", webhookHandler.Handle)
	api.Post("/public/charges", chargeHandler.CreatePublicCharge)
	api.Post("/public/partners/:partnerId/products/:productId/charges", chargeHandler.CreatePartnerProductCharge)
	api.Get("/public/charges/:correlationId/status", chargeStatusHandler.Get)

	authenticated := api.Group("/", auth.Handler)

	// Merchant routes
	merchantRoutes := authenticated.Group("/", middleware.RequireMerchant)
	merchantRoutes.Post("/charges", chargeHandler.CreateCharge)
	merchantRoutes.Get("/transactions", transactionHandler.List)
	merchantRoutes.Get("/transactions/:id", transactionHandler.Get)
	merchantRoutes.Post("/apikey/rotate", merchantHandler.RotateAPIKey)
	merchantRoutes.Get("/balance", balanceHandler.GetMerchantBalance)
	merchantRoutes.Post("/withdrawals", withdrawalHandler.CreateMerchantWithdrawal)
	merchantRoutes.Get("/withdrawals", withdrawalHandler.ListMerchantWithdrawals)
	merchantRoutes.Post("/partners", partnerHandler.CreatePartner)
	merchantRoutes.Get("/partners", partnerHandler.ListPartners)
	merchantRoutes.Get("/partners/:partnerId", partnerHandler.GetPartner)
	merchantRoutes.Post("/webhook-endpoints", endpointHandler.Create)
	merchantRoutes.Get("/webhook-endpoints", endpointHandler.List)
	merchantRoutes.Delete("/webhook-endpoints/:id", endpointHandler.Deactivate)

	// Invitation linking runs under any authenticated session: the
	// invited user is not a partner yet.
	authenticated.Post("/partners/:partnerId/link", partnerHandler.LinkPartnerUser)

	// Partner routes
	partnerRoutes := authenticated.Group("/partner", middleware.RequirePartner)
	partnerRoutes.Get("/balance", balanceHandler.GetPartnerBalance)
	partnerRoutes.Post("/withdrawals", withdrawalHandler.CreatePartnerWithdrawal)
	partnerRoutes.Get("/withdrawals", withdrawalHandler.ListPartnerWithdrawals)
	partnerRoutes.Post("/products", partnerHandler.CreateProduct)
	partnerRoutes.Get("/products", partnerHandler.ListProducts)

	// Admin routes
	adminRoutes := authenticated.Group("/admin", middleware.RequireAdmin)
	adminRoutes.Get("/charge-intents", adminHandler.ListPendingIntents)
	adminRoutes.Post("/merchants", merchantHandler.Create)
	adminRoutes.Put("/merchants/:id/fees", merchantHandler.UpdateFees)
	adminRoutes.Post("/subaccounts", subaccountHandler.Create)
	adminRoutes.Get("/subaccounts", subaccountHandler.List)
	adminRoutes.Get("/subaccounts/:id", subaccountHandler.Get)
	adminRoutes.Delete("/subaccounts/:id", subaccountHandler.Delete)
	adminRoutes.Post("/subaccounts/:id/withdraw", subaccountHandler.Withdraw)
	adminRoutes.Post("/subaccounts/:id/debit", subaccountHandler.Debit)
	adminRoutes.Post("/subaccounts/transfer", subaccountHandler.Transfer)
}
