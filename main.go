package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"funnel-svc/cache"
	"funnel-svc/config"
	"funnel-svc/database"
	"funnel-svc/events"
	"funnel-svc/handlers"
	"funnel-svc/mailer"
	"funnel-svc/middleware"
	"funnel-svc/payment"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize database
	db, err := database.InitDB(cfg.DatabaseURL, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis cache (optional)
	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.InitRedis(cfg.RedisAddr, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer redisClient.Close()
		productCache = cache.NewProductCache(redisClient, cfg.CacheTTL, logger)
	}

	// Initialize Kafka publisher (optional)
	publisher := events.NewNoopPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
	}
	defer publisher.Close()

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing("funnel-service")
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// Payment provider
	provider := payment.NewStripeProvider(cfg.StripeAPIKey, logger)

	// Mailer: Resend when an API key is configured, SMTP otherwise
	var mail mailer.Mailer
	if cfg.ResendAPIKey != "" {
		mail = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
		logger.Info("Using Resend mailer")
	} else {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		logger.Info("Using SMTP mailer", zap.String("host", cfg.SMTPHost))
	}

	// Repositories
	productRepo := database.NewProductRepo(db)
	purchaseRepo := database.NewPurchaseRepo(db)
	leadRepo := database.NewLeadRepo(db)

	// Setup REST API with Gin
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware("funnel-service"))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	// Funnel endpoints
	checkoutHandler := handlers.NewCheckoutHandler(productRepo, purchaseRepo, provider, cfg, logger)
	verifyHandler := handlers.NewVerifyHandler(productRepo, purchaseRepo, provider, mail, publisher, cfg, logger)
	emailHandler := handlers.NewEmailHandler(mail, logger)
	router.POST("/api/create-ebook-payment", checkoutHandler.CreateEbookPayment)
	router.POST("/api/verify-ebook-payment", verifyHandler.VerifyEbookPayment)
	router.POST("/api/send-ebook-confirmation", emailHandler.SendEbookConfirmation)
	router.GET("/success", verifyHandler.SuccessPage)

	// Catalog endpoints
	productHandler := handlers.NewProductHandler(productRepo, productCache, logger)
	router.GET("/products", productHandler.GetProducts)
	router.GET("/products/:id", productHandler.GetProduct)

	// Lead capture
	leadHandler := handlers.NewLeadHandler(leadRepo, publisher, logger)
	router.POST("/api/leads", leadHandler.CreateLead)

	// CRM endpoints (authenticated)
	authHandler := handlers.NewAuthHandler(cfg, logger)
	router.POST("/auth/login", authHandler.Login)

	crm := router.Group("/api")
	crm.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		crm.GET("/leads", leadHandler.ListLeads)
		crm.GET("/leads/:id", leadHandler.GetLead)
		crm.PATCH("/leads/:id/status", leadHandler.UpdateLeadStatus)
	}

	// Start REST server
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start REST server", zap.Error(err))
		}
	}()

	logger.Info("Funnel Service started", zap.String("addr", cfg.HTTPAddr))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
