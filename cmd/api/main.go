package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ahmadmoradi/pakhshyar-backend/api/routes"
	authsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/auth"
	dashboardsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/dashboard"
	documentsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/documents"
	ordersvc "github.com/ahmadmoradi/pakhshyar-backend/internal/orders"
	paymentsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/payments"
	productsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/products"
	repsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/representatives"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/auth/session"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/metrics"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/migrate"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/redis"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	store, err := local.NewStore(cfg.Uploads.Dir, cfg.Uploads.PublicBase)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare uploads dir", err)
		os.Exit(1)
	}

	svcs, err := buildServices(dbClient, sessions, cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	m := metrics.New("pakhshyar-api")

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessions, m, store, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(dbClient *db.Client, sessions *session.Manager, cfg *config.Config) (routes.Services, error) {
	gormDB := dbClient.DB()

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Repo:     authsvc.NewRepository(gormDB),
		Sessions: sessions,
		JWTCfg:   cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		Repo: ordersvc.NewRepository(gormDB),
		Tx:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}

	paymentService, err := paymentsvc.NewService(paymentsvc.ServiceParams{
		Repo: paymentsvc.NewRepository(gormDB),
		Tx:   dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		Repo: productsvc.NewRepository(gormDB),
	})
	if err != nil {
		return routes.Services{}, err
	}

	repService, err := repsvc.NewService(repsvc.ServiceParams{
		Repo:        repsvc.NewRepository(gormDB),
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	documentService, err := documentsvc.NewService(documentsvc.ServiceParams{
		Repo: documentsvc.NewRepository(gormDB),
	})
	if err != nil {
		return routes.Services{}, err
	}

	dashboardService, err := dashboardsvc.NewService(dashboardsvc.ServiceParams{
		Repo: dashboardsvc.NewRepository(gormDB),
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:            authService,
		Orders:          orderService,
		Payments:        paymentService,
		Products:        productService,
		Representatives: repService,
		Documents:       documentService,
		Dashboard:       dashboardService,
	}, nil
}
