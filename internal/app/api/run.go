package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	petopiaserver "github.com/petopia/petopia-server/go"

	apptcache "github.com/petopia/petopia-server/internal/domains/appointments/adapters/cache"
	apptmemory "github.com/petopia/petopia-server/internal/domains/appointments/adapters/memory"
	apptobs "github.com/petopia/petopia-server/internal/domains/appointments/adapters/observability"
	apptpostgres "github.com/petopia/petopia-server/internal/domains/appointments/adapters/persistence/postgres"
	apptapp "github.com/petopia/petopia-server/internal/domains/appointments/application"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"

	petsmemory "github.com/petopia/petopia-server/internal/domains/pets/adapters/memory"
	petsobs "github.com/petopia/petopia-server/internal/domains/pets/adapters/observability"
	petspostgres "github.com/petopia/petopia-server/internal/domains/pets/adapters/persistence/postgres"
	petsapp "github.com/petopia/petopia-server/internal/domains/pets/application"
	petsports "github.com/petopia/petopia-server/internal/domains/pets/ports"

	storememory "github.com/petopia/petopia-server/internal/domains/store/adapters/memory"
	storeobs "github.com/petopia/petopia-server/internal/domains/store/adapters/observability"
	storepostgres "github.com/petopia/petopia-server/internal/domains/store/adapters/persistence/postgres"
	storeworkflows "github.com/petopia/petopia-server/internal/domains/store/adapters/workflows"
	storeapp "github.com/petopia/petopia-server/internal/domains/store/application"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
	userports "github.com/petopia/petopia-server/internal/domains/users/ports"

	"github.com/petopia/petopia-server/internal/platform/migrations"
	platformobservability "github.com/petopia/petopia-server/internal/platform/observability"
	platformpostgres "github.com/petopia/petopia-server/internal/platform/postgres"
	platformredis "github.com/petopia/petopia-server/internal/platform/redis"
	platformtemporal "github.com/petopia/petopia-server/internal/platform/temporal"
	"github.com/petopia/petopia-server/internal/shared/events"
)

const serviceName = "petopia-api"

// Run boots the Petopia HTTP API and blocks until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, platformpostgres.PoolConfig{}, logger)
	defer closeDB()

	publisher, closePublisher := NewPublisher(cfg, logger)
	defer closePublisher()

	handlers, cleanup, err := buildHandlers(ctx, cfg, db, publisher, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		otelgin.Middleware(serviceName),
		petopiaserver.RequestID(),
		petopiaserver.RequestLogger(logger),
		gin.Recovery(),
	)
	router = petopiaserver.NewRouterWithGinEngine(router, handlers)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Petopia API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Petopia API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down Petopia API", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func buildHandlers(ctx context.Context, cfg Config, db *gorm.DB, publisher events.Publisher, instruments *platformobservability.Instruments) (petopiaserver.ApiHandleFunctions, func(), error) {
	logger := instruments.Logger
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	userService, err := NewUserService(db, cfg, instruments)
	if err != nil {
		return petopiaserver.ApiHandleFunctions{}, cleanup, fmt.Errorf("configure users: %w", err)
	}

	notifier, closeNotifier := buildCancellationNotifier(cfg, userService, instruments)
	cleanups = append(cleanups, closeNotifier)

	var (
		orders   storeports.OrderRepository
		products storeports.ProductRepository
	)
	if db != nil {
		orders, products = storepostgres.NewRepository(db), storepostgres.NewProducts(db)
	} else {
		store := storememory.NewStore()
		orders, products = store.Orders(), store.Products()
	}
	storeOpts := []storeobs.Option{
		storeobs.WithLogger(logger),
		storeobs.WithTracer(instruments.Tracer("internal.store.application")),
		storeobs.WithMeter(instruments.Meter("internal.store.application")),
	}
	orderService := storeobs.New(
		storeapp.NewService(orders, products,
			storeapp.WithNotifier(notifier),
			storeapp.WithPublisher(publisher),
			storeapp.WithLogger(logger),
		),
		storeOpts...,
	)
	catalog := storeobs.NewCatalog(storeapp.NewCatalog(products), storeOpts...)

	slots, appointments, closeCache := buildAppointmentRepositories(ctx, cfg, db, logger)
	cleanups = append(cleanups, closeCache)
	appointmentService := apptobs.New(
		apptapp.NewService(slots, appointments, apptapp.WithPublisher(publisher), apptapp.WithLogger(logger)),
		apptobs.WithLogger(logger),
		apptobs.WithTracer(instruments.Tracer("internal.appointments.application")),
		apptobs.WithMeter(instruments.Meter("internal.appointments.application")),
	)

	var petRepo petsports.Repository = petsmemory.NewRepository()
	if db != nil {
		petRepo = petspostgres.NewRepository(db)
	}
	petService := petsobs.New(
		petsapp.NewService(petRepo, petsapp.WithPublisher(publisher), petsapp.WithLogger(logger)),
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)

	return petopiaserver.ApiHandleFunctions{
		OrderAPI:       petopiaserver.NewOrderAPI(orderService),
		ProductAPI:     petopiaserver.NewProductAPI(catalog),
		TimeSlotAPI:    petopiaserver.NewTimeSlotAPI(appointmentService),
		AppointmentAPI: petopiaserver.NewAppointmentAPI(appointmentService),
		UserAPI:        petopiaserver.NewUserAPI(userService),
		PetAPI:         petopiaserver.NewPetAPI(petService),
	}, cleanup, nil
}

// buildCancellationNotifier prefers the durable Temporal workflow and falls back to sending inline.
func buildCancellationNotifier(cfg Config, users userports.Service, instruments *platformobservability.Instruments) (storeports.CancellationNotifier, func()) {
	logger := instruments.Logger
	temporalClient, err := platformtemporal.Dial(platformtemporal.Config{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-client"), logger)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, sending cancellation emails inline", slog.String("error", err.Error()))
		return storeworkflows.NewInlineNotifier(NewEmailNotifier(cfg, users, logger)), func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return storeworkflows.NewTemporalNotifier(temporalClient), temporalClient.Close
}

func buildAppointmentRepositories(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (apptports.SlotRepository, apptports.AppointmentRepository, func()) {
	var (
		slots        apptports.SlotRepository        = apptmemory.NewSlotRepository()
		appointments apptports.AppointmentRepository = apptmemory.NewAppointmentRepository()
	)
	if db != nil {
		slots, appointments = apptpostgres.NewSlots(db), apptpostgres.NewAppointments(db)
	}
	if cfg.RedisAddr == "" {
		return slots, appointments, func() {}
	}
	rdb, err := platformredis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, booked slots are read uncached", slog.String("error", err.Error()))
		return slots, appointments, func() {}
	}
	logger.Info("booked slot cache enabled", slog.String("addr", cfg.RedisAddr))
	cached := apptcache.NewSlots(slots, rdb, apptcache.WithLogger(logger))
	return cached, appointments, func() { _ = rdb.Close() }
}
