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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"maasai-craft/internal/catalog"
	"maasai-craft/internal/checkout"
	"maasai-craft/internal/config"
	"maasai-craft/internal/database"
	"maasai-craft/internal/flutterwave"
	"maasai-craft/internal/logger"
	"maasai-craft/internal/metrics"
	"maasai-craft/internal/notify"
	"maasai-craft/internal/repository"
	"maasai-craft/internal/session"
)

// Application struct holds the dependencies for our app
type Application struct {
	Catalog  *catalog.Store
	Checkout *checkout.Service
	Sessions *session.Manager
	Log      *logger.Logger
	Metrics  *metrics.Recorder
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "maasai-craft:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		ServiceName: "maasai-craft",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	rec := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Catalog
	store, err := loadCatalog(ctx, cfg.DB.DSN, log)
	if err != nil {
		return err
	}

	// 2. Payment provider and notification
	gateway := flutterwave.NewClient(flutterwave.Config{
		PublicKey:          cfg.Flutterwave.PublicKey,
		SecretKey:          cfg.Flutterwave.SecretKey,
		BaseURL:            cfg.Flutterwave.BaseURL,
		LogoURL:            cfg.Flutterwave.LogoURL,
		TxRefPrefix:        cfg.Flutterwave.TxRefPrefix,
		Timeout:            cfg.Flutterwave.Timeout,
		BreakerTimeout:     cfg.Flutterwave.BreakerTimeout,
		BreakerMinRequests: cfg.Flutterwave.BreakerMinRequests,
		BreakerFailRatio:   cfg.Flutterwave.BreakerFailRatio,
		OnBreakerChange: func(name string, state float64) {
			rec.BreakerState(name, state)
			log.Event(ctx, zerolog.WarnLevel).Str("breaker", name).Float64("state", state).Msg("circuit breaker state changed")
		},
	})
	notifier := notify.NewSMSStub(log)

	// 3. Sessions
	sessions, closeSessions, err := openSessions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	app := &Application{
		Catalog:  store,
		Checkout: checkout.NewService(gateway, notifier, log, rec),
		Sessions: sessions,
		Log:      log,
		Metrics:  rec,
	}

	// 4. Start Server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Event(ctx, zerolog.InfoLevel).Str("addr", srv.Addr).Int("products", store.Len()).Msg("maasai craft server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadCatalog reads the products table when a DSN is configured and falls
// back to the built-in catalog otherwise.
func loadCatalog(ctx context.Context, dsn string, log *logger.Logger) (*catalog.Store, error) {
	if dsn == "" {
		log.Debug(ctx, "no database configured, serving the built-in catalog")
		return catalog.New(catalog.Seed())
	}

	db, err := database.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	products, err := (&repository.ProductModel{DB: db}).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(products) == 0 {
		log.Warn(ctx, "products table is empty, serving the built-in catalog")
		return catalog.New(catalog.Seed())
	}
	return catalog.New(products)
}

// sessionOptions forces Secure cookies in prod whatever the flag says.
func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		TTL:          cfg.Session.TTL,
		CookieSecure: cfg.Session.CookieSecure || cfg.App.IsProd(),
	}
}

func openSessions(ctx context.Context, cfg *config.Config, log *logger.Logger) (*session.Manager, func(), error) {
	opts := sessionOptions(cfg)

	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := session.DialRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewManager(session.NewRedisStore(client, cfg.Session.TTL), opts), func() { _ = client.Close() }, nil
	}

	mem := session.NewMemoryStore(cfg.Session.TTL)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := mem.Sweep(); n > 0 {
					log.Event(ctx, zerolog.DebugLevel).Int("expired", n).Msg("swept sessions")
				}
			}
		}
	}()
	return session.NewManager(mem, opts), func() {}, nil
}
