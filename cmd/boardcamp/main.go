package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/erazemk/boardcamp/internal/api"
	"github.com/erazemk/boardcamp/internal/auth"
	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/store"
)

// config holds the command line settings. Environment variables supply the
// defaults so the binary runs unchanged in containers.
type config struct {
	dsn         string
	addr        string
	adminUser   string
	logPath     string
	requireAuth bool
	corsOrigins string
	verbose     bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":4000"
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("boardcamp", flag.ContinueOnError)

	var cfg config
	defaultDSN := getenv("DATABASE_URL", "boardcamp.sqlite3")
	fs.StringVar(&cfg.dsn, "db", defaultDSN, "")
	fs.StringVar(&cfg.dsn, "d", defaultDSN, "")

	addr := defaultAddr()
	fs.StringVar(&cfg.addr, "addr", addr, "")
	fs.StringVar(&cfg.addr, "a", addr, "")

	fs.StringVar(&cfg.adminUser, "user", "admin", "")
	fs.StringVar(&cfg.adminUser, "u", "admin", "")

	fs.StringVar(&cfg.logPath, "log", "", "")
	fs.StringVar(&cfg.logPath, "l", "", "")

	authDefault, _ := strconv.ParseBool(os.Getenv("BOARDCAMP_AUTH"))
	fs.BoolVar(&cfg.requireAuth, "auth", authDefault, "")

	fs.StringVar(&cfg.corsOrigins, "cors", os.Getenv("BOARDCAMP_CORS_ORIGINS"), "")

	fs.BoolVar(&cfg.verbose, "v", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: boardcamp [flags]

Flags:
  -d, -db <dsn>           SQLite path or postgres:// URL (env DATABASE_URL, default: boardcamp.sqlite3)
  -a, -addr <host:port>   listen address (env PORT, default: :4000)
  -auth                   require a staff token for writes (env BOARDCAMP_AUTH)
  -u, -user <name>        admin username created on first run with -auth (default: admin)
  -cors <origins>         comma-separated allowed origins (env BOARDCAMP_CORS_ORIGINS, default: any)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -v                      log debug messages
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return cfg, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.logPath, cfg.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg config) error {
	ctx := context.Background()

	conn, err := db.Open(cfg.dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "dialect", conn.Dialect)

	opts := api.Options{RequireAuth: cfg.requireAuth}
	if cfg.requireAuth {
		if err := ensureAdmin(ctx, conn, cfg.adminUser); err != nil {
			return err
		}
		// Generated once and persisted, so tokens survive restarts.
		opts.JWTSecret, err = store.GetJWTSecret(ctx, conn)
		if err != nil {
			return fmt.Errorf("getting JWT secret: %w", err)
		}
	}

	handler := api.LoggingMiddleware(api.CORS(splitOrigins(cfg.corsOrigins))(api.NewRouter(conn, opts)))

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.addr, "auth", cfg.requireAuth)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

// ensureAdmin creates the first staff account when there is none and prints
// its generated password.
func ensureAdmin(ctx context.Context, conn *db.Conn, username string) error {
	n, err := store.CountStaff(ctx, conn)
	if err != nil {
		return fmt.Errorf("counting staff: %w", err)
	}
	if n > 0 {
		return nil
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return fmt.Errorf("generating password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := store.CreateStaff(ctx, conn, username, hash); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("Change it with PUT /auth/password after logging in.")
	fmt.Println()
	return nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
