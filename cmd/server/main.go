package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"estimate-backend/internal/auth"
	"estimate-backend/internal/cache"
	"estimate-backend/internal/config"
	"estimate-backend/internal/database"
	"estimate-backend/internal/db"
	"estimate-backend/internal/handlers"
	"estimate-backend/internal/health"
	h "estimate-backend/internal/http"
	"estimate-backend/internal/middleware"
	"estimate-backend/internal/monitoring"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/services"
	"estimate-backend/internal/storage"
	"estimate-backend/internal/ws"
)

func main() {
	mode := flag.String("mode", "admin", "Server mode: admin or client")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()

	if *port > 0 {
		cfg.Server.Port = *port
	} else if *mode == "client" {
		// Client portal runs beside the admin server by default
		cfg.Server.Port = 8081
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis is optional; services degrade to direct DB reads without it
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Redis] Cache unavailable, continuing without it: %v", err)
	}

	// Document storage is optional the same way
	var store *storage.Store
	if s, err := storage.New(context.Background(), storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	}); err != nil {
		log.Printf("[Storage] Document storage unavailable: %v", err)
	} else {
		store = s
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)
	quoteRepo := repositories.NewQuoteRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	changeOrderRepo := repositories.NewChangeOrderRepository(pool)
	messageRepo := repositories.NewMessageRepository(pool)
	documentRepo := repositories.NewDocumentRepository(pool)
	transactionRepo := repositories.NewOnlineTransactionRepository(pool)

	// Shared infrastructure
	jwtManager := auth.NewJWTManager(cfg)
	hub := ws.NewHub()
	go hub.Run()

	// Services
	totpService := services.NewTOTPService(userRepo)
	userService := services.NewUserService(userRepo, totpService, jwtManager)
	clientService := services.NewClientService(clientRepo, jwtManager)
	projectService := services.NewProjectService(projectRepo, clientRepo)
	quoteService := services.NewQuoteService(quoteRepo, projectRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, quoteRepo, changeOrderRepo, cfg.Billing.NetTermsDays)
	changeOrderService := services.NewChangeOrderService(changeOrderRepo, projectRepo)
	messageService := services.NewMessageService(messageRepo, projectRepo, hub)
	documentService := services.NewDocumentService(documentRepo, projectRepo, store)
	pdfService := services.NewPDFService(cfg.Company.Name, cfg.Company.Address)
	dashboardService := services.NewDashboardService(quoteRepo, invoiceRepo, changeOrderRepo, projectRepo)
	portalService := services.NewClientPortalService(clientRepo, projectRepo, quoteRepo, invoiceRepo, changeOrderRepo)
	paymentService := services.NewPaymentService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		cfg.Billing.Currency, transactionRepo, invoiceRepo, invoiceService)

	// Background sweep: expire stale quotes, flag overdue invoices
	sweep := services.NewSweepService(quoteService, invoiceService, time.Hour)
	go sweep.Run(context.Background())

	// Ops monitoring on its own port
	go monitoring.NewMonitoringServer(pool, 9090).Start()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo, clientRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	var router http.Handler
	if *mode == "client" {
		log.Println("Starting in CLIENT PORTAL mode")

		portalHandler := handlers.NewClientPortalHandler(
			clientService, portalService, quoteService, invoiceService,
			messageService, documentService, pdfService, hub)

		router = h.NewClientRouter(portalHandler, paymentHandler, healthHandler, authMiddleware)
	} else {
		log.Println("Starting in ADMIN mode")

		authHandler := handlers.NewAuthHandler(userService, totpService)
		userHandler := handlers.NewUserHandler(userService)
		clientHandler := handlers.NewClientHandler(clientService)
		projectHandler := handlers.NewProjectHandler(projectService)
		quoteHandler := handlers.NewQuoteHandler(quoteService, pdfService)
		invoiceHandler := handlers.NewInvoiceHandler(invoiceService, pdfService)
		changeOrderHandler := handlers.NewChangeOrderHandler(changeOrderService)
		dashboardHandler := handlers.NewDashboardHandler(dashboardService)
		messageHandler := handlers.NewMessageHandler(messageService, userService, hub)
		documentHandler := handlers.NewDocumentHandler(documentService)

		router = h.NewRouter(
			authHandler, userHandler, clientHandler, projectHandler,
			quoteHandler, invoiceHandler, changeOrderHandler, dashboardHandler,
			messageHandler, documentHandler, paymentHandler, healthHandler,
			authMiddleware)
	}

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s (mode: %s)", addr, *mode)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
