package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/bridge"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import event stream",
	Long: `Start the broadcast hub. Design-tool clients open a session with
POST /sessions and listen on GET /sessions/{id}/events; producers post
{"html": "...", "name": "..."} to POST /sessions/{id}/import.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", defaultAddr, "Listen address")
	serveCmd.Flags().Duration("keep-alive", bridge.DefaultKeepAlive, "Event stream keep-alive interval")
}

func runServe(_ *cobra.Command, _ []string) error {
	log, err := commandLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	addr := getStringWithFallback("addr", "serve.addr", defaultAddr)
	keepAlive := bridge.DefaultKeepAlive
	if d := k.Duration("keep-alive"); d > 0 {
		keepAlive = d
	} else if d := k.Duration("serve.keep-alive"); d > 0 {
		keepAlive = d
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hub := bridge.NewHub(log, bridge.WithKeepAlive(keepAlive))
	// No write timeout: event streams stay open.
	srv := &http.Server{
		Addr:              addr,
		Handler:           hub.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
	return nil
}
