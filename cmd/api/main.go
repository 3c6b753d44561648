package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/orderdesk/api"
	"github.com/angelmondragon/orderdesk/api/controllers"
	"github.com/angelmondragon/orderdesk/api/routes"
	"github.com/angelmondragon/orderdesk/internal/inventory"
	"github.com/angelmondragon/orderdesk/internal/orders"
	"github.com/angelmondragon/orderdesk/internal/remote"
	"github.com/angelmondragon/orderdesk/internal/session"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	authsession "github.com/angelmondragon/orderdesk/pkg/auth/session"
	"github.com/angelmondragon/orderdesk/pkg/config"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/angelmondragon/orderdesk/pkg/env"
	"github.com/angelmondragon/orderdesk/pkg/instance"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/metrics"
	"github.com/angelmondragon/orderdesk/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "orderdesk-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "orderdesk-api",
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

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	creds := pkgAuth.ContextSource{}
	client, err := remote.NewClient(cfg.Remote.BaseURL, creds,
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithMetrics(metrics.NewRemoteMetrics(reg)),
	)
	if err != nil {
		return err
	}

	payment, err := enums.ParsePaymentMethodOrDefault(cfg.Checkout.DefaultPaymentMethod, enums.PaymentMethodUPI)
	if err != nil {
		return err
	}

	sessionDeps := session.Deps{
		Remote:         client,
		Credentials:    creds,
		Logger:         logg,
		Metrics:        metrics.NewCheckoutMetrics(reg),
		DefaultPayment: payment,
	}
	routeDeps := routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Gatherer: reg,
		Ready:    map[string]controllers.Pinger{"redis": nil},
	}

	if cfg.Redis.Enabled {
		redisClient, rerr := redis.New(ctx, cfg.Redis, logg)
		if rerr != nil {
			return rerr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()

		lease, rerr := redis.NewLeaseGuard(redisClient, cfg.Checkout.LeaseTTL)
		if rerr != nil {
			return rerr
		}
		revocations, rerr := authsession.NewManager(redisClient)
		if rerr != nil {
			return rerr
		}
		sessionDeps.Lease = lease
		routeDeps.Revocations = revocations
		routeDeps.Revoker = revocations
		routeDeps.RateLimiter = redisClient
		routeDeps.Ready["redis"] = redisClient
	}

	sessions, err := session.NewRegistry(sessionDeps)
	if err != nil {
		return err
	}
	ordersSvc, err := orders.NewService(client)
	if err != nil {
		return err
	}
	inventorySvc, err := inventory.NewService(client, creds)
	if err != nil {
		return err
	}
	routeDeps.Sessions = sessions
	routeDeps.Orders = ordersSvc
	routeDeps.Inventory = inventorySvc

	if idle := cfg.HTTP.SessionIdleTTL; idle > 0 {
		go sessions.RunSweeper(ctx, idle/2, idle)
	}

	port := env.FirstNonEmpty(cfg.App.Port, "PORT")
	addr := net.JoinHostPort("", port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"instance":       instance.GetID(),
		"remote":         cfg.Remote.BaseURL,
		"redis_enabled":  cfg.Redis.Enabled,
		"jwt_verified":   cfg.JWT.Verifies(),
		"default_method": payment.String(),
	})
	logg.Info(logCtx, "starting api server")

	server := api.NewServer(addr, routes.NewRouter(routeDeps), cfg.HTTP.ShutdownTimeout, logg)
	return server.Run(ctx)
}
