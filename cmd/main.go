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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	cancelBookingHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/cancel_booking"
	getBookingHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/get_booking"
	getMonthBookingsHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/get_month_bookings"
	getScheduleHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/get_schedule"
	getSettingsHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/get_settings"
	getStaffBookingsHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/get_staff_bookings"
	removeBookingHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/remove_booking"
	saveBookingHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/save_booking"
	updateSettingsHandler "github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/config"
	bookingRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/config"
	procedureRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/schedulecache"
	staffRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
	bookingsService "github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings"
	configService "github.com/m04kA/SMC-SurgeryScheduler/internal/service/config"
	generateScheduleUC "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/generate_schedule"
	removeBookingUC "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/remove_booking"
	saveBookingUC "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/save_booking"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/cache"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/logger"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
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

	log.Info("Starting SMC-SurgeryScheduler...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis; без него расписания строятся на каждый запрос
	var redisClient schedulecache.RedisClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis.Cache())
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		redisClient = client
		log.Info("Schedule cache enabled (redis=%s, ttl=%s)", cfg.Redis.Cache().Addr(), cfg.Redis.TTL())
	} else {
		log.Warn("Schedule cache disabled")
	}
	scheduleCache := schedulecache.NewRepository(redisClient, cfg.Redis.TTL())

	// Инициализируем репозитории (с метриками или без)
	var executor dbmetrics.DBExecutor = db
	var txMgr saveBookingUC.TransactionManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	staffRepository := staffRepo.NewRepository(executor)
	procedureRepository := procedureRepo.NewRepository(executor)
	settingsRepository := configRepo.NewRepository(executor)

	// Инициализируем сервисы
	settingsSvc := configService.NewService(
		settingsRepository,
		scheduleCache,
		cfg.Scheduler.Constraints,
		cfg.Scheduler.Optimization,
		log,
	)
	bookingSvc := bookingsService.NewService(bookingRepository, scheduleCache, log)

	// Движок расписаний
	engine := scheduler.NewEngine(log, metricsCollector)

	// Инициализируем use cases
	generateScheduleUseCase := generateScheduleUC.NewUseCase(
		bookingRepository,
		staffRepository,
		procedureRepository,
		settingsSvc,
		scheduleCache,
		engine,
		cfg.Scheduler.Catalog,
		metricsCollector,
		log,
	)
	saveBookingUseCase := saveBookingUC.NewUseCase(
		bookingRepository,
		staffRepository,
		procedureRepository,
		scheduleCache,
		txMgr,
		cfg.Scheduler.Catalog,
		log,
	)
	removeBookingUseCase := removeBookingUC.NewUseCase(bookingRepository, scheduleCache, log)

	// Инициализируем handlers
	getSchedule := getScheduleHandler.NewHandler(generateScheduleUseCase, log)
	saveBooking := saveBookingHandler.NewHandler(saveBookingUseCase, log)
	removeBooking := removeBookingHandler.NewHandler(removeBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getMonthBookings := getMonthBookingsHandler.NewHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание месяца по выбранному дню недели
	api.HandleFunc("/schedules", getSchedule.Handle).Methods(http.MethodGet)

	// Действующие ограничения и настройки оптимизации
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание или замена бронирования слота
	protected.HandleFunc("/bookings", saveBooking.Handle).Methods(http.MethodPut)

	// Удаление бронирования слота
	protected.HandleFunc("/bookings", removeBooking.Handle).Methods(http.MethodDelete)

	// Бронирования месяца
	protected.HandleFunc("/bookings", getMonthBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Назначения сотрудника за месяц
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)

	// --- Настройки движка ---
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
