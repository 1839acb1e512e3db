package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/uganda-geodata/internal/config"
	"github.com/samvad-hq/uganda-geodata/internal/logger"
)

var (
	cfg *config.Config
	log *logger.ZapLogger
)

var rootCmd = &cobra.Command{
	Use:           "ugdata",
	Short:         "Query Uganda administrative-geography data",
	Long:          "Fetches districts, counties, sub-counties, parishes and villages from the Uganda data API and optionally forwards them to configured publishers.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logger.Init(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Close()
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd, endpointsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ugdata: %v\n", err)
		os.Exit(1)
	}
}
