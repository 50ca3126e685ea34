package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/tvshop-backend/api/routes"
	"github.com/angelmondragon/tvshop-backend/internal/access"
	"github.com/angelmondragon/tvshop-backend/internal/cart"
	"github.com/angelmondragon/tvshop-backend/internal/catalog"
	"github.com/angelmondragon/tvshop-backend/internal/checkout"
	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/angelmondragon/tvshop-backend/internal/receipts"
	"github.com/angelmondragon/tvshop-backend/internal/stock"
	"github.com/angelmondragon/tvshop-backend/internal/users"
	"github.com/angelmondragon/tvshop-backend/pkg/config"
	"github.com/angelmondragon/tvshop-backend/pkg/db"
	"github.com/angelmondragon/tvshop-backend/pkg/env"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/metrics"
	"github.com/angelmondragon/tvshop-backend/pkg/migrate"
	"github.com/angelmondragon/tvshop-backend/pkg/redis"
	"github.com/angelmondragon/tvshop-backend/pkg/session"
)

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessions, err := session.NewStore(redisClient, cfg.Cart)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogReader, err := catalog.NewService(catalogRepo)
	if err != nil {
		return err
	}

	stockLedger, err := stock.NewLedger(stock.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(sessions, catalogReader, stockLedger, cartMetrics, logg)
	if err != nil {
		return err
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, dbClient, access.NewRoleChecker(), logg)
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(checkout.Deps{
		Tx:       dbClient,
		Carts:    cartService,
		Orders:   ordersRepo,
		Catalog:  catalogRepo,
		Stock:    stockLedger,
		Profiles: users.NewRepository(dbClient.DB()),
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.Get("HOSTNAME", "local"),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			catalogReader,
			stockLedger,
			cartService,
			checkoutService,
			ordersService,
			receipts.NewRenderer(cfg.App.ShopName),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(ctx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
