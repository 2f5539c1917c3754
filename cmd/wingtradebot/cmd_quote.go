package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wingtrade/wingtradebot/internal/market"
	"github.com/wingtrade/wingtradebot/internal/quotes"
)

// quoteCmd fetches fresh quotes on demand, one session per symbol.
func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol> [symbol...]",
		Short: "Fetch a fresh quote for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			engine := quotes.NewEngine(cfg.QuoteService.EngineConfig())

			if len(args) == 1 {
				quote, err := engine.Acquire(cmd.Context(), args[0], cfg.QuoteService.MaxAttempts)
				if err != nil {
					return err
				}
				return printJSON(quote)
			}

			batch := engine.AcquireBatch(cmd.Context(), args)
			if len(batch) == 0 {
				return fmt.Errorf("no quotes obtained for %d symbols", len(args))
			}
			stats := engine.GetStats()
			log.Info().Int64("total_connections", stats.TotalConnections).
				Int("quotes", len(batch)).Msg("Batch fetch complete")
			return printJSON(batch)
		},
	}
}

// spreadCmd fetches a quote and runs it through the spread gate.
func spreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spread <symbol>",
		Short: "Check the live spread against the condition-aware limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			engine := quotes.NewEngine(cfg.QuoteService.EngineConfig())
			quote, err := engine.Acquire(cmd.Context(), args[0], cfg.QuoteService.MaxAttempts)
			if err != nil {
				return err
			}

			gate := market.NewSpreadGate(cfg.SpreadLimits)
			result := gate.Evaluate(args[0], quote.Spread(), nil)
			return printJSON(result)
		},
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
