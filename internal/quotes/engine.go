package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wingtrade/wingtradebot/internal/metrics"
)

// Timeout sentinels for a single acquisition attempt. Both are recovered
// locally by the retry loop; callers only see them wrapped inside the
// final AcquisitionError.
var (
	ErrConnectionTimeout = errors.New("connection timeout")
	ErrQuoteTimeout      = errors.New("quote timeout")
)

// AcquisitionError is returned after all attempts are exhausted.
type AcquisitionError struct {
	Symbol   string
	Attempts int
	Last     error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to get market data for %s after %d attempts: %v",
		e.Symbol, e.Attempts, e.Last)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Last
}

// Config holds the on-demand session parameters.
type Config struct {
	URL               string        `yaml:"url"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"` // Overall per-attempt window
	QuoteTimeout      time.Duration `yaml:"quote_timeout"`      // Nested inside the connection window
	DisconnectDelay   time.Duration `yaml:"disconnect_delay"`   // Grace before closing after a quote
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"` // Wait is attempt x RetryBackoff
}

// DefaultConfig returns the production SimpleFX quote service settings.
func DefaultConfig() Config {
	return Config{
		URL:               "wss://web-quotes-core.simplefx.com/websocket/quotes",
		ConnectionTimeout: 10 * time.Second,
		QuoteTimeout:      8 * time.Second,
		DisconnectDelay:   2 * time.Second,
		MaxAttempts:       3,
		RetryBackoff:      time.Second,
	}
}

// Stats summarizes engine activity for diagnostics. With on-demand
// sessions there are no persistent connections to report.
type Stats struct {
	TotalConnections  int64 `json:"total_connections"`
	ActiveConnections int   `json:"active_connections"`
}

// Engine acquires quotes on demand: each call opens a transport session,
// subscribes, waits for the first matching quote and closes the session
// after a short grace delay. No session or quote is ever reused.
type Engine struct {
	dialer           Dialer
	cfg              Config
	totalConnections atomic.Int64
}

// NewEngine creates an engine dialing real WebSocket sessions.
func NewEngine(cfg Config) *Engine {
	return NewEngineWithDialer(cfg, NewWebSocketDialer())
}

// NewEngineWithDialer creates an engine over a custom transport, used by
// tests.
func NewEngineWithDialer(cfg Config, dialer Dialer) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Engine{dialer: dialer, cfg: cfg}
}

// GetStats returns connection diagnostics.
func (e *Engine) GetStats() Stats {
	return Stats{TotalConnections: e.totalConnections.Load()}
}

// Acquire obtains one fresh quote for symbol, retrying failed attempts
// with linear backoff (1s, 2s, 3s, ...). maxAttempts <= 0 falls back to
// the configured maximum.
func (e *Engine) Acquire(ctx context.Context, symbol string, maxAttempts int) (*Quote, error) {
	if maxAttempts <= 0 {
		maxAttempts = e.cfg.MaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Info().Str("symbol", symbol).Int("attempt", attempt).Int("max_attempts", maxAttempts).
			Msg("Getting market data")

		quote, err := e.acquireOnce(ctx, symbol)
		if err == nil {
			metrics.QuoteAttemptsTotal.WithLabelValues("success").Inc()
			log.Info().Str("symbol", symbol).Float64("bid", quote.Bid).Float64("ask", quote.Ask).
				Msg("Market data obtained")
			return quote, nil
		}

		lastErr = err
		metrics.QuoteAttemptsTotal.WithLabelValues("failure").Inc()
		log.Warn().Str("symbol", symbol).Int("attempt", attempt).Err(err).
			Msg("Quote acquisition attempt failed")

		if ctx.Err() != nil {
			break
		}

		if attempt < maxAttempts {
			delay := time.Duration(attempt) * e.cfg.RetryBackoff
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	metrics.QuoteAttemptsTotal.WithLabelValues("exhausted").Inc()
	return nil, &AcquisitionError{Symbol: symbol, Attempts: maxAttempts, Last: lastErr}
}

// acquireOnce runs one attempt of the connect-subscribe-receive-disconnect
// cycle. States: opening -> awaiting quote -> resolved or failed. The
// select below is the single resolution point; first quote, first error
// or first timeout wins, exactly once.
func (e *Engine) acquireOnce(ctx context.Context, symbol string) (*Quote, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.ConnectionTimeout)
	defer cancel()

	start := time.Now()

	sess, err := e.dialer.Dial(attemptCtx, e.cfg.URL)
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("connection timeout for %s: %w", symbol, ErrConnectionTimeout)
		}
		return nil, err
	}

	e.totalConnections.Add(1)
	metrics.QuoteConnectionsTotal.Inc()

	seq := 0
	subscribe := request{Path: pathSubscribeAdd, Seq: nextSeq(&seq), Data: []string{symbol}}
	lastPrice := request{Path: pathLastPrices, Seq: nextSeq(&seq), Data: []string{symbol}}

	if err := sess.WriteJSON(subscribe); err != nil {
		sess.Close()
		return nil, fmt.Errorf("subscribe failed for %s: %w", symbol, err)
	}
	if err := sess.WriteJSON(lastPrice); err != nil {
		sess.Close()
		return nil, fmt.Errorf("last price request failed for %s: %w", symbol, err)
	}

	quoteCh := make(chan *Quote, 1)
	failCh := make(chan error, 1)
	go awaitQuote(sess, symbol, quoteCh, failCh)

	quoteTimer := time.NewTimer(e.cfg.QuoteTimeout)
	defer quoteTimer.Stop()

	select {
	case quote := <-quoteCh:
		metrics.QuoteLatencySeconds.Observe(time.Since(start).Seconds())
		// Close after a grace delay so any trailing protocol handshake
		// can complete; the quote is returned immediately.
		time.AfterFunc(e.cfg.DisconnectDelay, func() {
			sess.Close()
			log.Debug().Str("symbol", symbol).Msg("Disconnected after quote")
		})
		return quote, nil

	case err := <-failCh:
		sess.Close()
		return nil, err

	case <-quoteTimer.C:
		sess.Close()
		return nil, fmt.Errorf("quote timeout for %s: %w", symbol, ErrQuoteTimeout)

	case <-attemptCtx.Done():
		sess.Close()
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("connection timeout for %s: %w", symbol, ErrConnectionTimeout)
		}
		return nil, attemptCtx.Err()
	}
}

func nextSeq(seq *int) int {
	*seq++
	return *seq
}

// awaitQuote reads inbound frames until the first quote-bearing message
// for the requested symbol. Unparseable or non-matching frames are
// ignored; only a read error (close) fails the wait.
func awaitQuote(sess Session, symbol string, quoteCh chan<- *Quote, failCh chan<- error) {
	for {
		data, err := sess.ReadMessage()
		if err != nil {
			failCh <- fmt.Errorf("connection closed for %s: %w", symbol, err)
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Str("symbol", symbol).Err(err).Msg("Ignoring unparseable quote frame")
			continue
		}

		if msg.Path != pathSubscribed && msg.Path != pathLastPrices {
			continue
		}
		if len(msg.Data) == 0 || msg.Data[0].Symbol != symbol {
			continue
		}

		payload := msg.Data[0]
		if payload.Bid == 0 && payload.Ask == 0 {
			continue
		}

		quoteCh <- &Quote{
			Symbol:      payload.Symbol,
			Bid:         payload.Bid,
			Ask:         payload.Ask,
			TimestampMs: normalizeTimestampMs(payload.Timestamp),
			IsStale:     false,
		}
		return
	}
}

// AcquireBatch fetches best-effort quotes for several symbols with a
// single attempt each, sequentially to keep load on the quote service
// low. Missing symbols are simply absent from the result.
func (e *Engine) AcquireBatch(ctx context.Context, symbols []string) map[string]*Quote {
	result := make(map[string]*Quote, len(symbols))
	for _, symbol := range symbols {
		quote, err := e.Acquire(ctx, symbol, 1)
		if err != nil {
			log.Warn().Str("symbol", symbol).Err(err).Msg("Batch quote fetch failed")
			continue
		}
		result[symbol] = quote
	}
	return result
}
