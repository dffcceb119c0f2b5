package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bto-enrich/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "bto-enrich",
	Short:        "BTO project enrichment and MOP estimation",
	SilenceUsage: true,
	Long:         "Reconciles scraped BTO listings against the authoritative project geometry, resolves completion dates and estimates each project's Minimum Occupation Period expiry.",
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
