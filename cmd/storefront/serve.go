package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/admin"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/manager"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/search"
	mw "github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/api/router"
	"github.com/5w1tchy/oku-storefront/internal/audit"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/config"
	"github.com/5w1tchy/oku-storefront/internal/maintenance"
	"github.com/5w1tchy/oku-storefront/internal/repository/sqlconnect"
	jwtutil "github.com/5w1tchy/oku-storefront/internal/security/jwt"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/storage/s3"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr    string
	serveBackend string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if serveBackend != "" {
			cfg.Backend.BaseURL = strings.TrimRight(serveBackend, "/")
		}
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", "", "backend base URL (overrides BACKEND_BASE_URL)")
}

func serve(parent context.Context) error {
	if err := validate.Env(cfg); err != nil {
		return err
	}
	for _, w := range validate.HardeningWarnings(cfg) {
		log.Warn("hardening", zap.String("hint", w))
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	store, closeStore, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	retention := maintenance.StartAuditRetention(ctx, store, cfg.Database.AuditRetentionDays,
		cfg.Database.RetentionAt, cfg.Database.RetentionTZ, log.Named("retention"))
	queue := audit.Start(store, 1000, 1, log.Named("audit"))

	var covers *s3.CoverStore
	if cfg.Storage.Enabled() {
		covers, err = s3.New(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("cover storage: %w", err)
		}
	}

	verifier := jwtutil.NewVerifier(jwtutil.ConfigFrom(cfg.Auth))
	if verifier == nil {
		log.Info("route guard trusts the role cookie; set AUTH_JWT_SECRET to verify tokens")
	}
	sessions := session.NewManager(cfg.Auth.CookieTTL, cfg.Server.SecureCookies, verifier)

	api, err := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, backend.WithLogger(log.Named("backend")))
	if err != nil {
		return err
	}
	views, err := web.New(log)
	if err != nil {
		return err
	}
	c := cache.New(rdb, log.Named("cache"))

	shop := handlers.NewHandler(api, sessions, views,
		storefront.NewReconciler(api, store, cfg.Backend.ConfirmTimeout, log.Named("checkout")), log)
	shop.ClientURL = cfg.Payments.ClientURL
	shop.PublishableKey = cfg.Payments.PublishableKey

	proxy, err := handlers.NewAPIProxy(cfg.Backend.BaseURL, cfg.Server.AllowedOrigins, log.Named("proxy"))
	if err != nil {
		return err
	}

	csrf := mw.DefaultCSRFOptions(cfg.Server.SecureCookies)
	csrf.Skip = isAPI

	mux := router.Router(router.Deps{
		Store:      shop,
		Admin:      admin.NewHandler(api, views, c, queue, store, covers, rdb, log.Named("admin")),
		Manager:    manager.NewHandler(api, views, c, queue, log.Named("manager")),
		Suggest:    search.Suggest(api, c, log),
		Proxy:      proxy,
		CSRF:       csrf,
		LoginLimit: mw.LoginRateLimit(rdb, cfg.Server.LoginAttempts, cfg.Server.LoginWindow, log),
	})

	// Listed innermost first.
	handler := mw.ApplyMiddleware(
		mux,
		mw.RouteGuard(sessions, log),
		mw.CSRF(csrf),
		mw.HourlyCap(rdb, 3000, log),
		mw.RateLimit(rdb, cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst, log),
		mw.HPP(mw.DefaultHPPOptions()),
		mw.BodySizeLimit(cfg.Server.MaxBodyBytes),
		mw.Compression(isAPI),
		mw.SecurityHeaders(cfg.Server.StrictSecurity),
		mw.ResponseTimeMiddleware,
		mw.AccessLog(log.Named("http")),
		mw.Recovery(log),
		mw.RequestID,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:     zap.NewStdLog(log.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("backend", cfg.Backend.BaseURL),
			zap.Bool("tls", cfg.Server.CertFile != ""))
		if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
			errCh <- server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
	queue.Shutdown()
	stop()
	<-retention
	return nil
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// newRedis returns nil when Redis is not configured or not reachable; the
// cache and the limiters then run without it.
func newRedis(rc config.RedisConfig) (*redis.Client, error) {
	if !rc.Enabled() {
		log.Info("redis not configured; cache and shared rate limits disabled")
		return nil, nil
	}

	var rdb *redis.Client
	if rc.URL != "" {
		// Full URL, e.g. rediss://default:<token>@host:port
		opt, err := redis.ParseURL(rc.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if opt.TLSConfig == nil && rc.TLS {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		rdb = redis.NewClient(opt)
	} else {
		opt := &redis.Options{
			Addr:         rc.Addr,
			Username:     rc.User,
			Password:     rc.Password,
			DB:           0,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		}
		if rc.TLS {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb = redis.NewClient(opt)
	}

	if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
		log.Warn("redis unreachable; continuing without it", zap.Error(err))
		_ = rdb.Close()
		return nil, nil
	}
	log.Info("connected to redis")
	return rdb, nil
}

// openLedger uses Postgres when DATABASE_URL is set and memory otherwise.
func openLedger(ctx context.Context) (ledger.Store, func(), error) {
	if cfg.Database.URL == "" {
		log.Info("DATABASE_URL not set; ledger kept in memory")
		return ledger.NewMemory(), func() {}, nil
	}
	db, err := sqlconnect.ConnectDB(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("ledger db: %w", err)
	}
	store := ledger.NewSQL(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ledger migrate: %w", err)
	}
	return store, func() { _ = db.Close() }, nil
}
