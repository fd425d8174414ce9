package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"session_auth/internal/config"
	"session_auth/internal/handlers"
	"session_auth/internal/logger"
	"session_auth/internal/metrics"
	"session_auth/internal/repository"
	"session_auth/internal/server"
	"session_auth/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Running without a subcommand serves HTTP.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var configDir, envFile string

	root := &cobra.Command{
		Use:          "session_auth",
		Short:        "Username/password login gate with server-side sessions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v, configDir, envFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "configs", "directory containing config.yml")
	flags.StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before configuration")
	flags.String("port", "", "HTTP port (overrides config)")
	flags.Bool("debug", false, "enable debug mode")
	flags.String("db-driver", "", "database driver: sqlite or postgres")
	flags.String("db-path", "", "sqlite database file")
	flags.String("db-dsn", "", "postgres DSN")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v, configDir, envFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), v, configDir, envFile)
		},
	})

	return root
}

// flagKeys maps CLI flags onto config keys.
var flagKeys = map[string]string{
	"port":      "port",
	"debug":     "debug",
	"db-driver": "db.driver",
	"db-path":   "db.path",
	"db-dsn":    "db.dsn",
}

// bindFlags lets explicitly set flags override file and env values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

func runServe(ctx context.Context, v *viper.Viper, configDir, envFile string) error {
	cfg, err := config.Load(v, configDir, envFile)
	if err != nil {
		return err
	}

	log := logger.Get(cfg.LogLevel, cfg.Debug)
	defer func() { _ = log.Sync() }()

	if cfg.UsesDefaultSecret() {
		log.Warnw("secret_key_default", "hint", "set SECRET_KEY before deploying")
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, dialect, err := openDB(ctx, cfg, log)
	if err != nil {
		log.Errorw("failed to open database", "err", err)
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	if err := migrate(ctx, db, dialect, log); err != nil {
		log.Errorw("failed to migrate database", "err", err)
		return err
	}

	// wire dependencies
	repos := repository.NewRepository(db, dialect)
	sessions, closeSessions, err := sessionStore(ctx, cfg, repos.Sessions)
	if err != nil {
		log.Errorw("failed to init session store", "store", cfg.Session.Store, "err", err)
		return err
	}
	defer closeSessions()
	repos.Sessions = sessions

	hasher := service.NewPBKDF2Hasher(cfg.Auth.PBKDF2Iterations, cfg.Auth.SaltLength)
	services := service.NewService(repos, hasher)
	apiHandler := handlers.NewHandler(services, log, metrics.New(), handlers.Options{
		SecretKey:      cfg.SecretKey,
		CookieName:     cfg.Session.CookieName,
		CookieSecure:   cfg.Cookie.Secure,
		CookieHTTPOnly: cfg.Cookie.HTTPOnly,
		CookieSameSite: cfg.Cookie.SameSiteMode(),
		ForceHTTPS:     cfg.Security.ForceHTTPS,
	})

	srv := &server.Server{}
	errCh := runHTTPServer(srv, cfg.Port, apiHandler, log)

	return waitForShutdown(srv, errCh, log)
}

func runMigrate(ctx context.Context, v *viper.Viper, configDir, envFile string) error {
	cfg, err := config.Load(v, configDir, envFile)
	if err != nil {
		return err
	}
	log := logger.Get(cfg.LogLevel, cfg.Debug)
	defer func() { _ = log.Sync() }()

	db, dialect, err := openDB(ctx, cfg, log)
	if err != nil {
		log.Errorw("failed to open database", "err", err)
		return err
	}
	defer func() { _ = db.Close() }()

	return migrate(ctx, db, dialect, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http_server_starting", "port", port)
		errCh <- srv.Run(port, handler.InitRoutes())
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure,
// then drains in-flight requests.
func waitForShutdown(srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorw("error starting server", "err", err)
		}
		return err
	case <-quit:
	}

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
