package quotes

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Session is one short-lived transport connection to the quote service.
type Session interface {
	WriteJSON(v interface{}) error
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer opens transport sessions. The engine opens one session per
// acquisition attempt and never reuses connections.
type Dialer interface {
	Dial(ctx context.Context, rawURL string) (Session, error)
}

// WebSocketDialer dials the quote service over WebSocket.
type WebSocketDialer struct {
	HandshakeTimeout time.Duration
}

// NewWebSocketDialer returns a dialer with a 10s handshake timeout.
func NewWebSocketDialer() *WebSocketDialer {
	return &WebSocketDialer{HandshakeTimeout: 10 * time.Second}
}

// Dial opens a WebSocket connection to the quote service.
func (d *WebSocketDialer) Dial(ctx context.Context, rawURL string) (Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid quote service URL: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: d.HandshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return &wsSession{conn: conn}, nil
}

type wsSession struct {
	conn *websocket.Conn
}

func (s *wsSession) WriteJSON(v interface{}) error {
	s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteJSON(v)
}

func (s *wsSession) ReadMessage() ([]byte, error) {
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (s *wsSession) Close() error {
	return s.conn.Close()
}
