package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"messenger-core/core/codec"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type frame struct {
	Token  string           `cbor:"token"`
	Method string           `cbor:"method,omitempty"`
	Params codec.RawMessage `cbor:"params,omitempty"`
	Result codec.RawMessage `cbor:"result,omitempty"`
	Error  *Error           `cbor:"error,omitempty"`
}

type completion struct {
	resp *Response
	err  error
}

// WebsocketClient is a Client multiplexing calls over one websocket connection.
type WebsocketClient struct {
	conn         *websocket.Conn
	logger       *zap.Logger
	writeTimeout time.Duration

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]chan completion
	closed   bool
	closeErr error
	onPush   func(Push)

	done chan struct{}
}

// Dial connects to the remote service and starts the reader goroutine.
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*WebsocketClient, error) {
	handshake := cfg.HandshakeTimeoutSeconds
	if handshake <= 0 {
		handshake = 10
	}
	write := cfg.WriteTimeoutSeconds
	if write <= 0 {
		write = 10
	}

	dialer := websocket.Dialer{HandshakeTimeout: time.Duration(handshake) * time.Second}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
	}

	return NewWebsocketClient(conn, time.Duration(write)*time.Second, logger), nil
}

// NewWebsocketClient wraps an established connection.
func NewWebsocketClient(conn *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger) *WebsocketClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &WebsocketClient{
		conn:         conn,
		logger:       logger.Named("remote"),
		writeTimeout: writeTimeout,
		pending:      make(map[string]chan completion),
		done:         make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Send implements Client.
func (c *WebsocketClient) Send(ctx context.Context, req Request) (*Response, error) {
	if req.Token == "" {
		return nil, errors.New("request token must be non-empty")
	}

	params, err := codec.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s params: %w", req.Method, err)
	}
	data, err := codec.Marshal(frame{Token: req.Token, Method: req.Method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s frame: %w", req.Method, err)
	}

	ch := make(chan completion, 1)
	if err := c.register(req.Token, ch); err != nil {
		return nil, err
	}

	if err := c.write(data); err != nil {
		c.unregister(req.Token)
		return nil, fmt.Errorf("failed to send %s: %w", req.Method, err)
	}

	select {
	case res := <-ch:
		return res.resp, res.err
	case <-ctx.Done():
		c.unregister(req.Token)
		return nil, ctx.Err()
	}
}

// OnPush sets the handler of frames the server sends on its own. fn runs on
// the reader goroutine; frames are delivered in arrival order.
func (c *WebsocketClient) OnPush(fn func(Push)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPush = fn
}

func (c *WebsocketClient) push(f frame) {
	c.mu.Lock()
	fn := c.onPush
	c.mu.Unlock()
	if fn == nil || f.Method == "" {
		c.logger.Debug("Dropping pushed frame", zap.String("method", f.Method))
		return
	}
	fn(Push{Method: f.Method, Payload: f.Params})
}

// Close closes the connection and fails every pending call.
func (c *WebsocketClient) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()

	c.fail(ErrClientClosed)
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *WebsocketClient) register(token string, ch chan completion) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.closeErr
	}
	if _, exists := c.pending[token]; exists {
		return fmt.Errorf("duplicate request token %q", token)
	}
	c.pending[token] = ch
	return nil
}

func (c *WebsocketClient) unregister(token string) {
	c.mu.Lock()
	delete(c.pending, token)
	c.mu.Unlock()
}

func (c *WebsocketClient) take(token string) (chan completion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.pending[token]
	if ok {
		delete(c.pending, token)
	}
	return ch, ok
}

func (c *WebsocketClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *WebsocketClient) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closeErr = err
	pending := c.pending
	c.pending = make(map[string]chan completion)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- completion{err: err}
	}
}

func (c *WebsocketClient) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) &&
				(closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway) {
				c.logger.Debug("Connection closed", zap.Int("code", closeErr.Code))
				c.fail(ErrClientClosed)
			} else {
				c.logger.Warn("Connection read failed", zap.Error(err))
				c.fail(fmt.Errorf("connection lost: %w", err))
			}
			return
		}

		var f frame
		if err := codec.Unmarshal(data, &f); err != nil {
			c.logger.Error("Dropping undecodable frame", zap.Error(err), zap.Int("size", len(data)))
			continue
		}

		if f.Token == "" {
			c.push(f)
			continue
		}

		ch, ok := c.take(f.Token)
		if !ok {
			c.logger.Debug("Dropping frame without pending request", zap.String("token", f.Token))
			continue
		}

		if f.Error != nil {
			ch <- completion{err: f.Error}
			continue
		}
		ch <- completion{resp: &Response{Token: f.Token, Result: f.Result}}
	}
}
