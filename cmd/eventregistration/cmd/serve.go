package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventregistration/config"
	"eventregistration/internal/adapters/email"
	httpdelivery "eventregistration/internal/delivery/http"
	"eventregistration/internal/delivery/http/middleware"
	"eventregistration/internal/domain"
	"eventregistration/internal/metrics"
	"eventregistration/internal/repository"
	"eventregistration/internal/services"
	"eventregistration/internal/validation"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type serveOptions struct {
	port        string
	databaseURL string
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the event registration API",
		Long: `Start the event registration API and begin accepting requests.

The server will:
- Load configuration from environment variables (and .env outside production)
- Open the store named by DATABASE_URL
- Serve /api/events, /healthz, /readyz and /metrics
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with configuration from the environment
  eventregistration serve

  # Start on a specific port against an in-memory store
  eventregistration serve --port 3001 --database-url memory://`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.port, "port", "", "API port (default: BACKEND_PORT, DEV_PORT or PORT)")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "store URL (default: DATABASE_URL)")
	return cmd
}

func runServe(ctx context.Context, global *globalOptions, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}
	if opts.databaseURL != "" {
		cfg.DBUrl = opts.databaseURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := global.logger()
	backend, err := repository.Backend(cfg.DBUrl)
	if err != nil {
		return err
	}
	metrics.Init(Version, backend)
	logger.Info("starting event registration API", "version", Version, "store", backend)

	openCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	store, err := repository.Open(openCtx, cfg.DBUrl, cfg.MongoDatabase)
	cancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("store close error", "err", err)
		}
	}()

	emailService, err := newEmailService(cfg.Email, logger)
	if err != nil {
		return err
	}
	service := services.NewEventService(
		store.Events(),
		store.Participants(),
		validation.New(),
		emailService,
		logger,
		cfg.ServiceTimeout,
	)

	handler := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:         logger,
		Service:        service,
		Store:          store,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      middleware.RateLimitConfig{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
	})
	return listenAndServe(ctx, newHTTPServer(cfg.Addr(), handler), logger)
}

// newEmailService returns nil when no provider is configured, which turns
// confirmation emails off.
func newEmailService(cfg config.EmailConfig, logger *slog.Logger) (domain.EmailService, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Provider,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	return services.NewEmailService(mailer, renderer, logger), nil
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second, // Total time to read request
		WriteTimeout:      30 * time.Second, // Total time to write response
		ReadHeaderTimeout: 5 * time.Second,  // Time to read headers
		MaxHeaderBytes:    1 << 20,          // 1 MB max header size
	}
}

// listenAndServe runs server until it fails or ctx is cancelled by SIGINT/SIGTERM,
// then shuts it down gracefully.
func listenAndServe(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
