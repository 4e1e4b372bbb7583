package main

import (
	"strings"

	"billing-backend/internal/apperr"
	"billing-backend/internal/audit"
	"billing-backend/internal/auth"
	"billing-backend/internal/billing"
	"billing-backend/internal/catalog"
	"billing-backend/internal/config"
	"billing-backend/internal/database"
	"billing-backend/internal/ledger"
	"billing-backend/internal/logger"
	"billing-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("invalid log configuration")
	}
	database.Init(cfg)

	invoiceSvc := billing.NewService(database.DB, cfg.StorageRetries)
	paymentSvc := ledger.NewService(database.DB, cfg.StorageRetries)
	reportSvc := report.NewService(database.DB, cfg.LowStockThreshold)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/forgot-password", auth.ForgotPasswordHandler())
	api.Post("/auth/reset-password/:token", auth.ResetPasswordHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Companies
	protected.Post("/company/create", catalog.CreateCompanyHandler())
	protected.Get("/company/get-all", catalog.ListCompaniesHandler())
	protected.Patch("/company/update", catalog.UpdateCompanyHandler())
	protected.Delete("/company/delete", catalog.DeleteCompanyHandler())

	// Items
	protected.Post("/item/create", catalog.CreateItemHandler())
	protected.Get("/item/get", catalog.GetItemHandler())
	protected.Get("/item/get-all", catalog.ListItemsHandler())
	protected.Get("/item/get-by-company", catalog.ListItemsByCompanyHandler())
	protected.Put("/item/update", catalog.UpdateItemHandler())
	protected.Delete("/item/delete", catalog.DeleteItemHandler())

	// Parties
	protected.Post("/party/create", catalog.CreatePartyHandler())
	protected.Get("/party/get", catalog.GetPartyHandler())
	protected.Get("/party/get-all", catalog.ListPartiesHandler())
	protected.Get("/party/get-by-type", catalog.ListPartiesByTypeHandler())
	protected.Patch("/party/update", catalog.UpdatePartyHandler())
	protected.Delete("/party/delete", catalog.DeletePartyHandler())

	// Shop profiles
	protected.Post("/shop-profile/create", catalog.CreateShopProfileHandler())
	protected.Get("/shop-profile/get-all", catalog.ListShopProfilesHandler())
	protected.Get("/shop-profile/get-by-id", catalog.GetShopProfileHandler())
	protected.Patch("/shop-profile/update", catalog.UpdateShopProfileHandler())

	// Invoices
	protected.Post("/invoice/create", billing.CreateInvoiceHandler(invoiceSvc))
	protected.Get("/invoice/get", billing.GetInvoiceHandler(invoiceSvc))
	protected.Get("/invoice/get-all", billing.ListInvoicesHandler(invoiceSvc))
	protected.Get("/invoice/get-all-unpaid", billing.ListUnpaidInvoicesHandler(invoiceSvc))
	protected.Get("/invoice/get-invoice-pdf", billing.InvoicePDFHandler(invoiceSvc))
	protected.Delete("/invoice/delete", billing.DeleteInvoiceHandler(invoiceSvc))

	// Payments
	protected.Post("/payment/create", ledger.CreatePaymentHandler(paymentSvc))
	protected.Get("/payment/get-all", ledger.ListPaymentsHandler(paymentSvc))
	protected.Delete("/payment/delete", ledger.DeletePaymentHandler(paymentSvc))

	// Reports
	protected.Get("/report/dashboard", report.DashboardHandler(reportSvc))
	protected.Get("/report/sales-excel", report.SalesExcelHandler(reportSvc))

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
