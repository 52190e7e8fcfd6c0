package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/config"
	"spendlog/internal/handlers"
	"spendlog/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	if err := seedAdminUser(db, cfg, logger); err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandlers(db, cfg.TemplateDir, cfg.SecureCookie, logger)
	mux := setupRouter(h, cfg.StaticDir)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting server", "port", cfg.Port, "db", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}

// setupRouter wires every route. Protected routes go through the session
// middleware; everything else is public.
func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)

	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}
	mux.Handle("GET /logout", protected(h.Logout))
	mux.Handle("GET /expenses", protected(h.ListExpenses))
	mux.Handle("GET /add", protected(h.AddExpenseForm))
	mux.Handle("POST /add", protected(h.AddExpense))
	mux.Handle("GET /edit/{id}", protected(h.EditExpenseForm))
	mux.Handle("POST /edit/{id}", protected(h.EditExpense))
	mux.Handle("GET /delete/{id}", protected(h.DeleteExpense))
	mux.Handle("GET /dashboard", protected(h.Dashboard))
	mux.Handle("GET /export", protected(h.ExportCSV))

	return mux
}

// seedAdminUser provisions the configured admin account once, when the
// users table is still empty. Useful for first runs and e2e tests.
func seedAdminUser(db *storage.DB, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminUser == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	user, err := db.CreateUser(cfg.AdminUser, hash)
	if err != nil {
		return err
	}
	logger.Info("seeded admin user", "username", user.Username, "id", user.ID)
	return nil
}
