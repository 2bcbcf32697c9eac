package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/internal/infrastructure/config"
	"arrivalcard-service/internal/infrastructure/oauth"
	"arrivalcard-service/internal/infrastructure/persistence"
	"arrivalcard-service/internal/infrastructure/scheduler"
	"arrivalcard-service/internal/interface/notify"
	mongoRepo "arrivalcard-service/internal/interface/repository"
	"arrivalcard-service/internal/usecase"
	"arrivalcard-service/pkg/logger"
	"arrivalcard-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Arrival Card Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up metrics
	appMetrics := metrics.NewMetrics("arrivalcard")

	// Set up repositories
	itineraryRepo := mongoRepo.NewMongoItineraryRepository(db)
	submissionRepo := mongoRepo.NewMongoSubmissionRepository(db)
	userRepo := mongoRepo.NewGormUserRepository(gormDB)
	notificationLogRepo := mongoRepo.NewGormNotificationLogRepository(gormDB)

	// Set up Gmail OAuth and the email channel
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)
	tokenSource := gmailOAuth.GetTokenSource(ctx)

	emailNotifier, err := notify.NewGmailNotifier(ctx, tokenSource, cfg.EmailFrom, log)
	if err != nil {
		log.Fatal("Failed to create Gmail notifier", "error", err)
	}

	// Set up the WhatsApp channel
	whatsappNotifier := notify.NewWhatsAppNotifier(cfg.WhatsAppEndpoint, cfg.WhatsAppToken, log)

	notificationService := usecase.NewNotificationService(
		userRepo,
		submissionRepo,
		emailNotifier,
		whatsappNotifier,
		notificationLogRepo,
		log,
		appMetrics,
	)

	// Set up the filing client
	var filingClient domainRepo.FilingClient
	if cfg.FilingMode == "simulate" {
		filingClient = mongoRepo.NewSimulatedFilingClient(2*time.Second, log)
	} else {
		filingClient = mongoRepo.NewHTTPFilingClient(cfg.FilingEndpoint, cfg.FilingAPIKey, cfg.FilingTimeout, log)
	}

	processor := usecase.NewSubmissionProcessor(
		filingClient,
		submissionRepo,
		notificationService,
		log,
		appMetrics,
		cfg.FilingTimeout,
	)

	dispatcher := usecase.NewSweepDispatcher(
		itineraryRepo,
		submissionRepo,
		processor,
		notificationService,
		log,
		appMetrics,
		cfg.SweepWorkers,
		cfg.ReminderLead,
	)

	// One tick runs the submission sweep, then the reminder pass
	sweeper := scheduler.New(cfg.SweepInterval, func(ctx context.Context) error {
		if err := dispatcher.RunSweep(ctx); err != nil {
			log.Error("Submission sweep finished with errors", "error", err)
		}
		return dispatcher.RunReminderSweep(ctx)
	}, log)
	sweeper.Start(ctx)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	sweeper.Stop()
	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Arrival Card Service stopped")
}
