package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamConfig configures WebSocket stream behavior.
type StreamConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// StreamClient subscribes to live transaction notifications for a set of
// wallets over WebSocket. Delivered payloads are the same enhanced
// transaction shape the REST client returns, so the normalizer handles both.
type StreamClient struct {
	endpoint string
	wallets  []string
	config   StreamConfig
	logger   *zap.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	out  chan json.RawMessage
	done chan struct{}
	wg   sync.WaitGroup
}

// NewStreamClient connects and subscribes to transactions mentioning any of
// the given wallets.
func NewStreamClient(ctx context.Context, endpoint string, wallets []string, config *StreamConfig, logger *zap.Logger) (*StreamClient, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &StreamClient{
		endpoint: endpoint,
		wallets:  wallets,
		config:   cfg,
		logger:   logger,
		out:      make(chan json.RawMessage, 256),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	if err := c.subscribe(); err != nil {
		c.conn.Close()
		return nil, err
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()

	return c, nil
}

// Transactions returns the notification channel. Closed on Close().
func (c *StreamClient) Transactions() <-chan json.RawMessage {
	return c.out
}

// Close shuts the stream down and closes the notification channel.
func (c *StreamClient) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)

	c.connMu.Lock()
	var err error
	if c.conn != nil {
		err = c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.out)
	return err
}

func (c *StreamClient) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// wsRequest is a JSON-RPC 2.0 subscription request.
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// wsNotification is the envelope of a subscription push message.
type wsNotification struct {
	Method string `json:"method"`
	Params struct {
		Result json.RawMessage `json:"result"`
	} `json:"params"`
}

func (c *StreamClient) subscribe() error {
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  "transactionSubscribe",
		Params: []interface{}{
			map[string]interface{}{"accountInclude": c.wallets},
			map[string]string{"commitment": "confirmed"},
		},
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}
	return nil
}

// readLoop pumps notifications into the output channel, reconnecting with
// exponential backoff on read failure.
func (c *StreamClient) readLoop() {
	defer c.wg.Done()

	delay := c.config.ReconnectDelay
	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			c.logger.Warn("stream read failed, reconnecting",
				zap.Error(err), zap.Duration("delay", delay))

			select {
			case <-c.done:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.config.MaxReconnectDelay {
				delay = c.config.MaxReconnectDelay
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := c.connect(ctx)
			cancel()
			if err != nil {
				continue
			}
			if err := c.subscribe(); err != nil {
				c.logger.Warn("resubscribe failed", zap.Error(err))
			}
			continue
		}
		delay = c.config.ReconnectDelay

		var notif wsNotification
		if err := json.Unmarshal(message, &notif); err != nil || notif.Method == "" {
			// Subscription confirmations and pongs land here.
			continue
		}

		select {
		case c.out <- notif.Params.Result:
		case <-c.done:
			return
		default:
			c.logger.Warn("stream consumer lagging, dropping notification")
		}
	}
}

func (c *StreamClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.connMu.Unlock()
			if err != nil && !c.closed.Load() {
				c.logger.Warn("ping failed", zap.Error(err))
			}
		}
	}
}
