package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wingtrade/wingtradebot/internal/admission"
	"github.com/wingtrade/wingtradebot/internal/levels"
	"github.com/wingtrade/wingtradebot/internal/market"
	"github.com/wingtrade/wingtradebot/internal/quotes"
)

type intentFlags struct {
	symbol string
	side   string
	entry  float64
	tp     float64
	sl     float64
}

func bindIntentFlags(fs *pflag.FlagSet, f *intentFlags) {
	fs.StringVar(&f.symbol, "symbol", "", "Instrument symbol, e.g. EURUSD or SIMPLEFX:US100")
	fs.StringVar(&f.side, "side", "", "Order side: buy or sell")
	fs.Float64Var(&f.entry, "entry", 0, "Entry price")
	fs.Float64Var(&f.tp, "tp", 0, "Take-profit distance in pips/points")
	fs.Float64Var(&f.sl, "sl", 0, "Stop-loss distance in pips/points (0 = none)")
}

// admitCmd runs a dry admission decision for a hand-built order intent.
func admitCmd() *cobra.Command {
	var f intentFlags

	cmd := &cobra.Command{
		Use:   "admit",
		Short: "Evaluate an order intent through the admission pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			side, err := levels.ParseSide(f.side)
			if err != nil {
				return err
			}

			engine := quotes.NewEngine(cfg.QuoteService.EngineConfig())
			gate := market.NewSpreadGate(cfg.SpreadLimits)
			breaker := admission.NewBreaker(admission.BreakerConfig{
				FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
				ResetTimeout:     time.Duration(cfg.CircuitBreaker.ResetTimeoutMs) * time.Millisecond,
				HalfOpenTimeout:  time.Duration(cfg.CircuitBreaker.HalfOpenTimeoutMs) * time.Millisecond,
			})
			limiter := admission.NewLimiter(cfg.RateLimiter.MaxRequests,
				time.Duration(cfg.RateLimiter.WindowMs)*time.Millisecond)

			controller := admission.NewController(engine, gate, breaker, limiter, cfg.QuoteService.MaxAttempts)

			decision := controller.Admit(cmd.Context(), admission.Intent{
				Symbol:         f.symbol,
				Side:           side,
				EntryPrice:     f.entry,
				TakeProfitPips: f.tp,
				StopLossPips:   f.sl,
			})

			return printJSON(decision)
		},
	}

	bindIntentFlags(cmd.Flags(), &f)
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("side")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("tp")

	return cmd
}
