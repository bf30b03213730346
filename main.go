package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-events/internal/analytics"
	analytics_api "ms-events/internal/analytics/api"
	"ms-events/internal/auth"
	"ms-events/internal/auth/auth_api"
	authdb "ms-events/internal/auth/db"
	"ms-events/internal/banner"
	"ms-events/internal/banner/banner_api"
	bannerdb "ms-events/internal/banner/db"
	"ms-events/internal/category"
	"ms-events/internal/category/category_api"
	catdb "ms-events/internal/category/db"
	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/database/migrations"
	"ms-events/internal/events"
	eventdb "ms-events/internal/events/db"
	"ms-events/internal/events/event_api"
	"ms-events/internal/kafka"
	"ms-events/internal/logger"
	"ms-events/internal/media"
	"ms-events/internal/media/media_api"
	"ms-events/internal/order"
	orderdb "ms-events/internal/order/db"
	orderkafka "ms-events/internal/order/kafka"
	"ms-events/internal/order/order_api"
	"ms-events/internal/order/qr"
	orderredis "ms-events/internal/order/redis"
	"ms-events/internal/payment/services"
	"ms-events/internal/server"
	"ms-events/internal/sse"
	ticketdb "ms-events/internal/tickets/db"
	tickets "ms-events/internal/tickets/service"
	"ms-events/internal/tickets/ticket_api"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.New(cfg.Log.Dir, cfg.Log.Name)
	defer log.Close()

	log.Info("APP", "Starting events service initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	// prices and totals go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB.DB, cfg.Database.MigrationsDir, log)
		if err := runner.Up(); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer redisClient.Close()

	var publisher kafka.Publisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, cfg.Kafka.Topics.All()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		publisher = kafka.NewProducer(cfg.Kafka.Brokers)
	} else {
		log.Warn("KAFKA", "Kafka disabled, domain events will not be published")
	}
	defer publisher.Close()

	revoker := auth.NewRedisTokenCache(redisClient)
	tokens := auth.NewTokenManager(cfg.Auth)
	authService := auth.NewService(&authdb.DB{Bun: bunDB}, tokens, revoker, publisher,
		cfg.Kafka.Topics.UserRegistered, cfg.Auth.ActivationSecret, log)

	categories := &catdb.DB{Bun: bunDB}
	eventStore := &eventdb.DB{Bun: bunDB}
	ticketStore := &ticketdb.DB{Bun: bunDB}

	categoryService := category.NewCategoryService(categories)
	eventService := events.NewEventService(eventStore, categories)
	ticketService := tickets.NewTicketService(ticketStore, eventStore)
	bannerService := banner.NewBannerService(&bannerdb.DB{Bun: bunDB})
	analyticsService := analytics.NewService(analytics.NewDB(bunDB), eventStore, log)

	var store media.ObjectStore
	s3Store, err := media.NewS3Store(ctx, cfg.Storage, log)
	if err != nil {
		log.Warn("MEDIA", fmt.Sprintf("Object storage disabled: %v", err))
		store = media.UnavailableStore{Err: err}
	} else {
		store = s3Store
	}
	mediaService := media.NewService(store, log)

	var payments order.PaymentGateway
	stripeService, err := services.NewStripeService(cfg.Payment, log)
	if err != nil {
		log.Warn("STRIPE", "Stripe disabled, orders get local payment links")
		payments = &services.LocalGateway{SuccessURL: cfg.Payment.SuccessURL}
	} else {
		payments = stripeService
	}

	emitter := sse.NewOrderEventEmitter()
	orderService := order.NewOrderService(
		&orderdb.DB{Bun: bunDB},
		ticketStore,
		orderredis.NewRedis(redisClient, cfg.Order.LockTTL, log),
		orderkafka.NewProducer(publisher, cfg.Kafka.Topics),
		payments,
		qr.NewQRGenerator(cfg.Order.QRSecret),
		log,
	)
	orderService.WebhookSecret = cfg.Payment.WebhookSecret

	// With Kafka every instance learns about completions from the topic, so
	// SSE clients see orders completed on any instance.
	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.OrderCompleted, log)
		defer consumer.Close()
		go consumer.Start(ctx, orderkafka.CompletedRelay(emitter))
	} else {
		orderService.Notifier = emitter
	}

	handlers := server.Handlers{
		Auth:        auth_api.NewHandler(authService, cfg.Auth.CookieSecure, log),
		Category:    category_api.NewHandler(categoryService, log),
		Event:       event_api.NewHandler(eventService, log),
		Ticket:      ticket_api.NewHandler(ticketService, log),
		Banner:      banner_api.NewHandler(bannerService, log),
		Media:       media_api.NewHandler(mediaService, log),
		Order:       order_api.NewHandler(orderService, log),
		OrderStream: order_api.NewSSEHandler(log, emitter),
		Analytics:   analytics_api.NewHandler(analyticsService, log),
	}

	log.Info("HTTP", "Setting up router and middleware")
	router := server.NewRouter(handlers, server.Options{
		Tokens:      tokens,
		Revoker:     revoker,
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
		Health: func(ctx context.Context) error {
			if err := bunDB.PingContext(ctx); err != nil {
				return err
			}
			return redisClient.Ping(ctx).Err()
		},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Events service running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP", fmt.Sprintf("HTTP server error: %v", err))
			stop()
		}
	}()

	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
		os.Exit(1)
	}
	log.Info("HTTP", "Events service shutdown complete")
}
