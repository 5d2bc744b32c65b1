package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/saloonly/booking-api/config"
	"github.com/saloonly/booking-api/internal/email"
	"github.com/saloonly/booking-api/internal/handler"
	appointmentHandler "github.com/saloonly/booking-api/internal/handler/appointment"
	availabilityHandler "github.com/saloonly/booking-api/internal/handler/availability"
	"github.com/saloonly/booking-api/internal/middleware"
	"github.com/saloonly/booking-api/internal/repository/postgres"
	"github.com/saloonly/booking-api/internal/router"
	"github.com/saloonly/booking-api/internal/worker"
	availabilityService "github.com/saloonly/booking-api/internal/service/availability"
	bookingService "github.com/saloonly/booking-api/internal/service/booking"
	scheduleService "github.com/saloonly/booking-api/internal/service/schedule"
	"github.com/saloonly/booking-api/pkg/auth"
	"github.com/saloonly/booking-api/pkg/logger"
	"github.com/saloonly/booking-api/pkg/messaging"
	"github.com/saloonly/booking-api/pkg/messaging/redis"
	"github.com/saloonly/booking-api/pkg/metrics"
	"github.com/saloonly/booking-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := validator.Register(); err != nil {
		log.Fatal(err, "failed to register request validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	scheduleRepo := postgres.NewScheduleRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	collaboratorRepo := postgres.NewCollaboratorRepository(db)
	establishmentRepo := postgres.NewEstablishmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Message broker: Redis when configured, no-op otherwise.
	var broker messaging.Broker = messaging.NoopBroker{}
	if cfg.Redis.URL != "" {
		b, err := redis.NewBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		broker = b
	}
	defer broker.Close()

	m := metrics.New("booking")
	emailSvc := email.NewSMTPService(cfg.SMTP)

	// Services
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	availabilitySvc := availabilityService.NewService(
		scheduleSvc,
		establishmentRepo,
		collaboratorRepo,
		serviceRepo,
		appointmentRepo,
	)
	bookingSvc := bookingService.NewService(
		scheduleSvc,
		appointmentRepo,
		serviceRepo,
		collaboratorRepo,
		establishmentRepo,
		userRepo,
		emailSvc,
		m,
		log,
	)

	// Handlers
	h := handler.NewHandler(db)
	availabilityH := availabilityHandler.NewHandler(availabilitySvc, cfg.Booking, m)
	appointmentH := appointmentHandler.NewHandler(bookingSvc)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, auth.DefaultTokenTTL)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	r := router.NewRouter(
		authMiddleware,
		availabilityH,
		appointmentH,
		h,
		log.Zerolog(),
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsPrefix:    "booking_http",
		},
	)
	r.Setup()

	// Deliver committed domain events to the broker in the background.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, log, m)
	go outboxProcessor.Start(workerCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
