package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fjod/watchhaven/internal/config"
	h "github.com/fjod/watchhaven/internal/http"
	"github.com/fjod/watchhaven/internal/logger"
	"github.com/fjod/watchhaven/internal/payment"
	"github.com/fjod/watchhaven/internal/publisher"
	"github.com/fjod/watchhaven/internal/repository"
	"github.com/fjod/watchhaven/internal/service"
	"github.com/fjod/watchhaven/internal/session"
	"github.com/fjod/watchhaven/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck
	zap.ReplaceGlobals(zl)

	if err := run(cfg, zl); err != nil {
		zl.Fatal("storefront stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup("watchhaven")
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			zl.Warn("tracer provider shutdown failed", zap.Error(err))
		}
	}()

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	zl.Info("database ready", zap.String("driver", cfg.DB.Driver))

	if err := repo.RunMigrations(cfg.DB.MigrationsPath); err != nil {
		return err
	}
	if cfg.Store.SeedCatalog {
		n, err := repo.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		zl.Info("catalog seeded", zap.Int("products", n))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}

	carts, closeStore, err := openSessionStore(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeStore()
	zl.Info("session store ready", zap.String("backend", cfg.Session.Backend))

	charger := payment.NewBreakerCharger(payment.NewSimulatedCharger(nil), payment.DefaultBreakerSettings(), zl)

	handler := h.NewRouter(h.RouterConfig{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		ProductsPageSize:   cfg.Store.ProductsPageSize,
		Session: h.SessionOptions{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			TTL:        cfg.Session.TTL,
		},
	}, h.Services{
		Carts:    service.NewCartService(carts, repo),
		Checkout: service.NewCheckoutService(carts, repo, repo, charger, cfg.Store.ShippingCost),
		Orders:   service.NewOrderService(repo),
		Catalog:  repo,
		DB:       repo,
	}, zl)

	var wg sync.WaitGroup
	if cfg.Kafka.Enabled() {
		poller := publisher.NewOutboxPoller(repo, publisher.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), zl)
		defer poller.Close()
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	} else {
		zl.Info("KAFKA_BROKERS not set, order events stay in the outbox")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	wg.Wait()
	zl.Info("storefront stopped")
	return nil
}

func openRepository(cfg *config.Config) (*repository.Repository, error) {
	if cfg.DB.Driver == config.DriverSQLite {
		return repository.NewSQLiteRepository(cfg.DB.SQLitePath)
	}
	return repository.NewRepository(&repository.Credentials{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
	})
}

// openSessionStore returns the cart store and a function releasing whatever
// it opened besides the shared redis client.
func openSessionStore(ctx context.Context, cfg *config.Config, client *redis.Client) (session.Store, func(), error) {
	redisStore := session.NewRedisStore(client, cfg.Session.TTL)
	if cfg.Session.Backend != config.SessionBackendMongo {
		return redisStore, func() {}, nil
	}

	db, err := session.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(dctx); err != nil {
			zap.L().Warn("mongo disconnect failed", zap.Error(err))
		}
	}

	mongoStore := session.NewMongoStore(db)
	if err := mongoStore.CreateIndexes(ctx); err != nil {
		disconnect()
		return nil, nil, err
	}
	return session.NewCachedStore(mongoStore, redisStore), disconnect, nil
}
