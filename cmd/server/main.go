package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefrontWs/internal/config"
	checkoutport "storefrontWs/internal/modules/checkout/application/port"
	checkoutusecase "storefrontWs/internal/modules/checkout/application/usecase"
	checkout "storefrontWs/internal/modules/checkout/domain"
	checkoutinfra "storefrontWs/internal/modules/checkout/infrastructure"
	listingusecase "storefrontWs/internal/modules/listing/application/usecase"
	listinginfra "storefrontWs/internal/modules/listing/infrastructure"
	profileusecase "storefrontWs/internal/modules/profile/application/usecase"
	profileinfra "storefrontWs/internal/modules/profile/infrastructure"
	handler "storefrontWs/internal/modules/realtime/application/handler"
	usecase "storefrontWs/internal/modules/realtime/application/usecase"
	"storefrontWs/internal/modules/realtime/infrastructure"
	transport "storefrontWs/internal/modules/realtime/interface"
	reviewusecase "storefrontWs/internal/modules/reviews/application/usecase"
	reviewinfra "storefrontWs/internal/modules/reviews/infrastructure"
	storefront "storefrontWs/internal/modules/storefront/application/usecase"
	storefrontinfra "storefrontWs/internal/modules/storefront/infrastructure"
	storefronthttp "storefrontWs/internal/modules/storefront/interface"
	"storefrontWs/internal/platform/broker"
	"storefrontWs/internal/platform/kvstore"
	"storefrontWs/internal/platform/restclient"
	"storefrontWs/internal/shared/auth"
	"storefrontWs/internal/shared/logging"
	"storefrontWs/internal/shared/validation"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(ctx, cfg.Redis)

	hub := infrastructure.NewHub()
	registry := infrastructure.NewHandlerRegistry()
	broadcastUC := usecase.NewBroadcastUseCase(hub)

	// Upstream storefront API
	rest := restclient.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil).WithRetries(cfg.REST.Retries)
	restaurants := listinginfra.NewRestaurantHTTPClient(rest, cfg.REST.Timeout)
	orders := checkoutinfra.NewOrderHTTPClient(rest, cfg.REST.Timeout)
	reviewClient := reviewinfra.NewReviewHTTPClient(rest, cfg.REST.Timeout)
	profileClient := profileinfra.NewProfileHTTPClient(rest, cfg.REST.Timeout)

	pageCache := listingusecase.NewPageCache(time.Now)
	sessions := storefront.NewRegistry(storefront.Dependencies{
		Store:         store,
		ListFetcher:   pageCache.Fetcher(listingusecase.CacheScopeListing, cfg.Listing.CacheTTL, restaurants),
		SearchFetcher: pageCache.Fetcher(listingusecase.CacheScopeSearch, cfg.Listing.SearchCacheTTL, restaurants),
		PageCache:     pageCache,
		Notifier:      broadcastUC,
		Location:      cfg.Cart.Location,
		Now:           time.Now,
	})

	// Event bus: restaurant changes in, placed orders out and back in for every instance.
	var publisher checkoutport.OrderEventPublisher = storefrontinfra.NewLocalOrderPublisher(broadcastUC)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := broker.NewKafkaOrderPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		registry.Register(handler.NewOrderCreatedHandler(cfg.Kafka.OrderTopic, broadcastUC))
	}
	for _, topic := range cfg.Kafka.RestaurantTopics {
		registry.Register(handler.NewRestaurantEventsHandler(topic, sessions, broadcastUC))
	}
	broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics())

	checkoutUC := checkoutusecase.NewCheckoutUseCase(orders, publisher, checkout.Fees{
		DeliveryFee: cfg.Checkout.DeliveryFee,
		ServiceFee:  cfg.Checkout.ServiceFee,
	})
	profileUC := profileusecase.NewProfileUseCase(profileClient)
	checkoutUC.WithAddressBook(profileUC)
	reviewUC := reviewusecase.NewReviewUseCase(reviewClient, sessions)

	// JWT validator for tokens issued by the storefront auth service
	var validator auth.TokenValidator
	if jwtValidator := auth.NewJWTValidator(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey); jwtValidator.Configured() {
		validator = jwtValidator
	} else {
		slog.Warn("jwt key not configured, bearer tokens are forwarded without verification")
	}
	identity := storefronthttp.NewIdentityResolver(validator)
	api := storefronthttp.NewHandler(sessions, restaurants, checkoutUC).WithAccount(reviewUC, profileUC)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Validator = validation.EchoValidator{}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, auth.SessionHeader},
		ExposeHeaders: []string{auth.SessionHeader},
	}))

	api.Register(e.Group("/api/v1", identity.Middleware()))
	e.GET("/ws/storefront", transport.NewWebsocketHandler(hub, identity.Resolve, api.Commands(), api.OnConnect))

	go sweepSessions(ctx, sessions, cfg.Server.SessionIdleTTL)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
	hub.Close()
	if closer, ok := store.(io.Closer); ok {
		_ = closer.Close()
	}
}

// openStore connects redis when configured and falls back to process memory otherwise.
func openStore(ctx context.Context, cfg config.RedisConfig) kvstore.Store {
	if cfg.URL == "" {
		slog.Info("persistence adapter: memory")
		return kvstore.NewMemoryStore()
	}
	store, err := kvstore.DialRedis(ctx, cfg.URL, cfg.Namespace)
	if err != nil {
		slog.Error("redis unavailable, falling back to memory", slog.Any("error", err))
		return kvstore.NewMemoryStore()
	}
	slog.Info("persistence adapter: redis", slog.String("namespace", cfg.Namespace))
	return store
}

func sweepSessions(ctx context.Context, sessions *storefront.Registry, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep(idle)
		}
	}
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	file, err := logging.OpenDailyFile(cfg.Directory, time.Now())
	if err != nil {
		return nil, nil, err
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
