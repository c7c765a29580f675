package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
	"github.com/billingtt/ppol670-spatial/internal/pipeline"
	"github.com/billingtt/ppol670-spatial/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored results over HTTP",
	Long:  "Read-only API: run history, aggregate tables as CSV, and the boundary layer as GeoJSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		// The boundary layer is optional; without it only the GeoJSON
		// endpoint is unavailable.
		var polygons []*geometry.Polygon
		if cfg.Data.BoundariesPath != "" {
			polygons, err = pipeline.LoadPolygons(cfg.Data)
			if err != nil {
				zap.L().Warn("boundary layer unavailable", zap.Error(err))
				polygons = nil
			}
		}

		srv := server.New(st, server.Options{
			Polygons: polygons,
			Registry: crs.Default(),
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Handler(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
