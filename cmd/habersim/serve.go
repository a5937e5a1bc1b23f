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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/habersim/internal/api"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/metrics"
)

const shutdownGrace = 5 * time.Second

func serve(cmd *cobra.Command, args []string) error {
	switch integrator {
	case config.IntegratorRK45, config.IntegratorRK4:
	default:
		return fmt.Errorf("unknown integrator: %s", integrator)
	}

	log, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: addr,
		Handler: api.NewHandler(api.Options{
			Integrator:  integrator,
			Integration: dynamo.DefaultConfig(),
			Timeout:     timeout,
			Logger:      log,
			Collector:   collector,
			Gatherer:    prometheus.DefaultGatherer,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "integrator", integrator)
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
		log.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown did not complete", "timeout", shutdownGrace, "error", err)
			return srv.Close()
		}
		log.Info("server stopped")
		return nil
	}
}
