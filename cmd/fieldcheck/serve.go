package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/reoring/fieldcheck/auth"
	"github.com/reoring/fieldcheck/internal/config"
	"github.com/reoring/fieldcheck/internal/logger"
	"github.com/reoring/fieldcheck/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the auth schemas over HTTP",
	Long:  `Exposes POST /signup and POST /signin, answering with the normalized body or a 400 carrying the formatted issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Address = addr
		}
		log := newLogger(cmd, cfg.LogLevel, "server")

		reg := prometheus.NewRegistry()
		router, err := newRouter(log, cfg, reg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("listening")
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-shutdown:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address; overrides FIELDCHECK_SERVER_ADDRESS")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(log *logger.Logger, cfg *config.Config, reg *prometheus.Registry) (*chi.Mux, error) {
	opts := []middleware.Option{middleware.WithMaxBytes(cfg.Server.MaxBodyBytes)}
	if cfg.Server.Metrics {
		m, err := middleware.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, middleware.WithMetrics(m))
	}

	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(middleware.Trace(log))

	for _, name := range auth.Names() {
		s, _ := auth.Lookup(name)
		routeOpts := append(slices.Clone(opts), middleware.WithName(name))
		router.With(middleware.Validate(s, routeOpts...)).Post("/"+name, echoValue)
	}
	if cfg.Server.Metrics {
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return router, nil
}

func echoValue(w http.ResponseWriter, r *http.Request) {
	v, _ := middleware.ValueFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
