package cmd

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"eventregistration/config"
	"eventregistration/internal/adapters/apiclient"
	"eventregistration/internal/delivery/http/middleware"
	"eventregistration/internal/validation"
	"eventregistration/internal/web"
)

const apiClientTimeout = 10 * time.Second

type webOptions struct {
	port   string
	apiURL string
}

func newWebCommand(global *globalOptions) *cobra.Command {
	opts := &webOptions{}
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the client views",
		Long: `Start the server-rendered event board, registration and participants pages.

All data is read from and written to the API at API_URL.

Examples:
  eventregistration web --port 3000 --api-url http://localhost:3001/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd.Context(), global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.port, "port", "", "client views port (default: WEB_PORT or 3000)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "API base URL including /api (default: API_URL)")
	return cmd
}

func runWeb(ctx context.Context, global *globalOptions, opts *webOptions) error {
	cfg, err := config.LoadWeb()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}

	logger := global.logger()
	logger.Info("starting client views", "version", Version, "api_url", cfg.APIURL)

	api := apiclient.New(cfg.APIURL, &http.Client{Timeout: apiClientTimeout})
	views, err := web.New(api, validation.New(), logger)
	if err != nil {
		return err
	}

	csrfKey := cfg.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return fmt.Errorf("generate csrf key: %w", err)
		}
		logger.Warn("CSRF_KEY not set, using a random key; open forms break on restart")
	}

	handler := views.Protected(csrfKey, cfg.Secure())
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)
	return listenAndServe(ctx, newHTTPServer(cfg.Addr(), handler), logger)
}
