package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/cancel_booking"
	cartHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/cart"
	createBookingHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/get_booking_history"
	getOwnerBookingsHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/get_owner_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/get_user_bookings"
	notificationsHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/notifications"
	updateBookingStatusHandler "github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/booking"
	cartRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/cart"
	notificationRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/notification"
	userRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/user"
	catalogServiceClient "github.com/m04kA/SMC-MarketplaceBooking/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/access"
	bookingsService "github.com/m04kA/SMC-MarketplaceBooking/internal/service/bookings"
	cartService "github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart"
	notificationsService "github.com/m04kA/SMC-MarketplaceBooking/internal/service/notifications"
	placeBookingUC "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/place_booking"
	transitionBookingUC "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/transition_booking"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/logger"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if v, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-MarketplaceBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// nil коллектор: все Record* и обёртка БД работают вхолостую
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)

	var carts cartService.Repository
	switch cfg.Cart.Backend {
	case config.CartBackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		carts = cartRepo.NewRedisRepository(redisClient, cfg.Cart.TTL())
		log.Info("Cart storage: redis (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Cart.TTL())
	default:
		carts = cartRepo.NewMemoryRepository(cfg.Cart.TTL())
		log.Info("Cart storage: in-memory (ttl=%s)", cfg.Cart.TTL())
	}

	// Интеграции
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Сервисы
	guard := access.NewGuard(bookingRepository, log)
	cartSvc := cartService.NewService(carts, catalogClient, log)
	bookingSvc := bookingsService.NewService(bookingRepository, guard, log)
	fanout := notificationsService.NewFanout(notificationRepository, userRepository, log)
	notificationSvc := notificationsService.NewService(notificationRepository, log)

	// Use cases
	placeBookingUseCase := placeBookingUC.NewUseCase(
		bookingRepository,
		userRepository,
		cartSvc,
		catalogClient,
		fanout,
		metricsCollector,
		txMgr,
		log,
	)
	transitionUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		fanout,
		metricsCollector,
		txMgr,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(placeBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(transitionUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(transitionUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	cartH := cartHandler.NewHandler(cartSvc, log)
	notificationsH := notificationsHandler.NewHandler(notificationSvc, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "база данных недоступна")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (пользователь из заголовков шлюза или JWT)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(cfg.Auth, log))

	// --- Корзина ---
	api.HandleFunc("/cart", cartH.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart", cartH.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", cartH.Add).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{serviceId}", cartH.Update).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{serviceId}", cartH.Remove).Methods(http.MethodDelete)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/owners/{ownerId}/bookings", getOwnerBookings.Handle).Methods(http.MethodGet)

	// --- Уведомления ---
	api.HandleFunc("/notifications", notificationsH.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", notificationsH.UnreadCount).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", notificationsH.MarkAllRead).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{notificationId}/read", notificationsH.MarkRead).Methods(http.MethodPatch)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// пул больше не нужен, останавливаем сбор его статистики
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
