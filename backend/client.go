package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soocke/sawbot-go/domain/events"
	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
)

// Options configures a Client.
type Options struct {
	URL string
	// Secret, when set, signs a short-lived HS256 bearer token for the handshake.
	Secret  string
	Timeout time.Duration
	Bus     *events.Bus
	Logger  *slog.Logger
}

type safeConn struct {
	c  *websocket.Conn
	mu sync.Mutex // gorilla/websocket allows one writer at a time
}

func (s *safeConn) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.c.SetWriteDeadline(time.Now().Add(3 * time.Second))
	return s.c.WriteJSON(v)
}

// Client is a single websocket connection to the engine. Commands are never
// retried.
type Client struct {
	opts   Options
	logger *slog.Logger
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *safeConn
	pending map[string]chan envelope
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Client{
		opts:    opts,
		logger:  opts.Logger,
		dialer:  &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		pending: make(map[string]chan envelope),
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect dials the engine and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	headers := http.Header{}
	if c.opts.Secret != "" {
		tok, err := c.token()
		if err != nil {
			return fmt.Errorf("sign backend token: %w", err)
		}
		headers.Add("Authorization", "Bearer "+tok)
	}
	raw, resp, err := c.dialer.DialContext(ctx, c.opts.URL, headers)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %d)", c.opts.URL, err, resp.StatusCode)
		}
		return fmt.Errorf("dial %s: %w", c.opts.URL, err)
	}
	conn := &safeConn{c: raw}
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		raw.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.Info("backend connected", "url", c.opts.URL)
	}
	go c.readLoop(conn)
	return nil
}

// Run keeps the connection up until ctx is done, redialing after a loss.
func (c *Client) Run(ctx context.Context, retry time.Duration) {
	if retry <= 0 {
		retry = 2 * time.Second
	}
	t := time.NewTicker(retry)
	defer t.Stop()
	for {
		if !c.Connected() {
			if err := c.Connect(ctx); err != nil && c.logger != nil {
				c.logger.Debug("backend dial failed", "error", err)
			}
		}
		select {
		case <-ctx.Done():
			_ = c.Close()
			return
		case <-t.C:
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	conn.mu.Lock()
	_ = conn.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	conn.mu.Unlock()
	return conn.c.Close()
}

func (c *Client) token() (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "sawbot-ui",
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
	})
	return t.SignedString([]byte(c.opts.Secret))
}

func (c *Client) readLoop(conn *safeConn) {
	defer func() {
		if r := recover(); r != nil && c.logger != nil {
			c.logger.Error("backend read loop panic", "panic", r)
		}
	}()
	for {
		_, data, err := conn.c.ReadMessage()
		if err != nil {
			c.drop(conn, err)
			return
		}
		var msg envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			if c.logger != nil {
				c.logger.Warn("backend message undecodable", "error", err)
			}
			continue
		}
		switch msg.Type {
		case TypeResult:
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
		case TypeEvent:
			c.dispatch(msg)
		}
	}
}

// drop forgets a lost connection and fails every in-flight request.
func (c *Client) drop(conn *safeConn, err error) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	pending := c.pending
	c.pending = make(map[string]chan envelope)
	c.mu.Unlock()
	conn.c.Close()
	for _, ch := range pending {
		ch <- envelope{Type: TypeResult, lost: true}
	}
	if c.logger != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		c.logger.Warn("backend connection lost", "error", err)
	}
}

func (c *Client) dispatch(msg envelope) {
	if c.opts.Bus == nil {
		return
	}
	switch msg.Event {
	case EventEmergencyStop:
		c.opts.Bus.Publish(events.Event{Topic: events.TopicEmergencyStop})
	case EventDrawingFinished:
		c.opts.Bus.Publish(events.Event{Topic: events.TopicDrawingFinished})
	case EventAreaSelected:
		var p areaPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			if c.logger != nil {
				c.logger.Warn("area-selected payload undecodable", "error", err)
			}
			return
		}
		r := geometry.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
		c.opts.Bus.Publish(events.Event{Topic: events.TopicAreaSelected, Payload: events.AreaSelected{Rect: r}})
	case EventLog:
		var p logPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.opts.Bus.Publish(events.Event{Topic: events.TopicBackendLog, Payload: events.BackendLog{Level: p.Level, Message: p.Message}})
	default:
		if c.logger != nil {
			c.logger.Debug("unknown backend event", "event", msg.Event)
		}
	}
}

// Call sends one command and waits for its result or the request timeout.
// out, if non-nil, receives the decoded result data.
func (c *Client) Call(ctx context.Context, command string, params, out any) error {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	id := uuid.NewString()
	ch := make(chan envelope, 1)
	c.pending[id] = ch
	c.mu.Unlock()
	forget := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	if err := conn.writeJSON(request{ID: id, Type: TypeCommand, Command: command, Params: params}); err != nil {
		forget()
		return fmt.Errorf("send %s: %w", command, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	select {
	case <-ctx.Done():
		forget()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", command, ErrTimeout)
		}
		return ctx.Err()
	case resp := <-ch:
		if resp.lost {
			return fmt.Errorf("%s: %w", command, ErrNotConnected)
		}
		if !resp.OK {
			return &CommandError{Command: command, Message: resp.Error}
		}
		if out != nil && len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return fmt.Errorf("decode %s result: %w", command, err)
			}
		}
		return nil
	}
}

func (c *Client) StartDrawing(ctx context.Context, req session.DrawRequest) error {
	return c.Call(ctx, CmdStartDrawing, req, nil)
}

func (c *Client) StopDrawing(ctx context.Context) error {
	return c.Call(ctx, CmdStopDrawing, nil, nil)
}

func (c *Client) MousePosition(ctx context.Context) (image.Point, error) {
	var p mousePosition
	if err := c.Call(ctx, CmdGetMousePosition, nil, &p); err != nil {
		return image.Point{}, err
	}
	return image.Pt(p.X, p.Y), nil
}

// CaptureScreen returns the full-screen capture with its bounds placed at
// the reported screen origin.
func (c *Client) CaptureScreen(ctx context.Context) (image.Image, error) {
	var d captureData
	if err := c.Call(ctx, CmdCaptureScreen, nil, &d); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(d.Image)
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode capture png: %w", err)
	}
	origin := image.Pt(d.X, d.Y)
	if origin == img.Bounds().Min {
		return img, nil
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rectangle{Min: origin, Max: origin.Add(b.Size())})
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}
