package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"faktura/internal/assistant"
	"faktura/internal/assistant/openrouter"
	"faktura/internal/config"
	"faktura/internal/email/noop"
	"faktura/internal/email/ses"
	"faktura/internal/handler"
	"faktura/internal/middleware"
	"faktura/internal/port"
	"faktura/internal/render"
	"faktura/internal/repository/postgres"
	"faktura/internal/router"
	"faktura/internal/service"
	s3storage "faktura/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	clientRepo := postgres.NewClientRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	emailLogRepo := postgres.NewEmailLogRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	// PDF archive storage is optional; without a bucket invoices are
	// still rendered and emailed, just not archived.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	renderer := render.NewRenderer(cfg.Company)
	defer renderer.Close()

	// Initialize services
	auditRec := service.NewAuditRecorder(auditRepo)
	clientSvc := service.NewClientService(clientRepo)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, clientRepo, paymentRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, invoiceRepo)
	statsSvc := service.NewStatsService(statsRepo, clientRepo)
	dispatchSvc := service.NewDispatchService(invoiceSvc, renderer, sender, emailLogRepo, storage, invoiceRepo, auditRec, service.DispatchConfig{
		SenderName:     cfg.Email.FromName,
		CopyRecipients: cfg.Email.CopyRecipients,
		ArchiveBucket:  cfg.S3.Bucket,
	})

	// Assistant wiring
	model := openrouter.NewClient(&cfg.Assistant)
	convStore := assistant.NewConversationStore(cfg.Assistant.HistoryLimit, cfg.Assistant.ConversationTTL)
	extractor := assistant.NewExtractor(model, convStore)
	gate := assistant.NewGate(extractor, convStore, clientSvc, invoiceSvc, paymentSvc, statsSvc, auditRec)

	if err := seedClients(clientSvc); err != nil {
		return fmt.Errorf("failed to seed clients: %w", err)
	}

	// Initialize handlers
	chatH := handler.NewChatHandler(gate)
	clientH := handler.NewClientHandler(clientSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, clientSvc, dispatchSvc, renderer)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(db)

	chatLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, chatLimiter, chatH, clientH, invoiceH, paymentH, statsH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// seedClients inserts a starter client when the directory is empty so a
// fresh install has something to invoice against.
func seedClients(clients service.ClientService) error {
	ctx := context.Background()

	existing, err := clients.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	_, err = clients.Create(ctx, service.CreateClientInput{
		Name:      "Musterbau GmbH",
		Address:   "Musterstrasse 1\n53111 Bonn",
		CompanyID: "DE000000000",
		Email:     "info@musterbau.example",
	})
	if err != nil {
		log.Printf("seed client: %v", err)
	}
	return nil
}
