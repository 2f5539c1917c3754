package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wingtrade/wingtradebot/internal/config"
)

const (
	appName = "wingtradebot"
	version = "v1.0.0"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Pre-trade admission pipeline for SimpleFX order signals",
		Version: version,
		Long: `wingtradebot bridges external trade signals to the SimpleFX execution API.

Before any order reaches the broker it passes the admission pipeline:
fresh on-demand quote, market-condition classification, spread gate,
and take-profit/stop-loss level validation.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(spreadCmd())
	rootCmd.AddCommand(admitCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// loadConfig returns the file config when --config is set, else defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(configPath)
}
