package fabexplorer

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	restapi "github.com/hedisam/fabexplorer/api/rest"
	"github.com/hedisam/fabexplorer/internal/custompromauto"
	"github.com/hedisam/fabexplorer/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Failed to flush traces")
			}
		}()

		a := newApp(ctx, logger, cfg)
		defer a.Close()

		restServer := restapi.NewServer(logger, a.explorers, cfg.Fabric.Orgs, cfg.Fabric.DefaultOrg)
		mux := http.NewServeMux()
		restServer.Register(mux)

		// use a custom prom registry to avoid recording the default http handler metrics
		mux.Handle("GET /metrics", custompromauto.Handler())

		handler := http.TimeoutHandler(mux, cfg.Server.RequestTimeout, `{"error":"Request timed out"}`)
		mustListenAndServe(ctx, logger, cfg.Server.Addr, handler, cfg.Server.ShutdownTimeout)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Address to serve the HTTP server on")
	mustBindPFlag(serveCmd.Flags(), "server.addr", "addr")
}

func mustListenAndServe(ctx context.Context, logger *logrus.Logger, addr string, handler http.Handler, shutdownTimeout time.Duration) {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		logger.WithField("addr", addr).Info("Serving server...")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed with error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...")
	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.WithError(err).Error("Failed to shutdown server gracefully")
	}
}
