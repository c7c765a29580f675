package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "spatial",
	Short: "Point-in-polygon aggregation and zonal statistics pipeline",
	Long:  "Joins point events to polygon boundaries, summarizes raster surfaces by polygon, fits a descriptive model, and renders choropleth maps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
