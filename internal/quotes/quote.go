package quotes

import "time"

// Quote is a single fresh bid/ask observation from the quote service.
// Each successful acquisition produces exactly one Quote; values are
// never cached or reused across calls.
type Quote struct {
	Symbol      string  `json:"symbol"`
	Bid         float64 `json:"bid"`
	Ask         float64 `json:"ask"`
	TimestampMs int64   `json:"timestamp_ms"`
	IsStale     bool    `json:"is_stale"`
}

// Spread returns the live ask-bid spread in absolute price units.
func (q *Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// Mid returns the bid/ask midpoint.
func (q *Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Quote service wire protocol: JSON frames with a path field "p", a
// per-message sequence id "i" on requests, and a data array "d".
const (
	pathSubscribeAdd = "/subscribe/addList"
	pathLastPrices   = "/lastprices/list"
	pathSubscribed   = "/quotes/subscribed"
)

type request struct {
	Path string   `json:"p"`
	Seq  int      `json:"i"`
	Data []string `json:"d"`
}

type message struct {
	Path string         `json:"p"`
	Data []quotePayload `json:"d"`
}

type quotePayload struct {
	Symbol    string  `json:"s"`
	Bid       float64 `json:"b"`
	Ask       float64 `json:"a"`
	Timestamp float64 `json:"t"`
}

// Timestamps below this value are second-resolution and get scaled up.
const millisecondThreshold = 1e12

func normalizeTimestampMs(raw float64) int64 {
	if raw == 0 {
		return time.Now().UnixMilli()
	}
	if raw < millisecondThreshold {
		return int64(raw * 1000)
	}
	return int64(raw)
}
