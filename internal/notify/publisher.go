// Package notify pushes run results to the node-graph editor over socket.io,
// so the editor can refresh sink widgets without polling.
package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// DefaultEvent is the event name results are emitted under.
	DefaultEvent = "pipeline:result"
	// DefaultTimeout bounds connecting and awaiting the hub's ack for one result.
	DefaultTimeout = 10 * time.Second
)

// Publisher emits results to a socket.io server. Each Publish opens its own
// connection, so a Publisher holds no open sockets between runs.
type Publisher struct {
	baseURL            string
	path               string
	namespace          string
	event              string
	timeout            time.Duration
	insecureSkipVerify bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithNamespace selects the socket.io namespace. The default is "/".
func WithNamespace(ns string) Option {
	return func(p *Publisher) { p.namespace = ns }
}

// WithEvent overrides DefaultEvent.
func WithEvent(event string) Option {
	return func(p *Publisher) { p.event = event }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) { p.timeout = d }
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(p *Publisher) { p.insecureSkipVerify = true }
}

// New creates a publisher for the server at rawURL, e.g.
// "http://localhost:3000/socket.io/". The URL path is the engine.io path.
func New(rawURL string, opts ...Option) (*Publisher, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must include a scheme and host", rawURL)
	}

	p := &Publisher{
		baseURL:   fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:      parsedURL.Path,
		namespace: "/",
		event:     DefaultEvent,
		timeout:   DefaultTimeout,
	}
	if p.path == "" || p.path == "/" {
		p.path = "/socket.io/"
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Payload converts a result into the object emitted on the wire, the same
// JSON form the CLI prints.
func Payload(res *executor.Result) (map[string]any, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Publish connects, emits res and disconnects. It returns once the hub has
// acknowledged the event or the timeout expires, so a hub that never calls
// the ack callback is reported as a failed publish.
func (p *Publisher) Publish(ctx context.Context, res *executor.Result) error {
	logger := ctxlog.FromContext(ctx).With("notify_url", p.baseURL+p.path, "event", p.event)

	payload, err := Payload(res)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	var isConnected atomic.Bool
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	opts.SetPath(p.path)
	if p.insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected to editor hub", "sid", io.Id())
		io.Timeout(p.timeout).EmitWithAck(p.event, payload)(func(_ []any, err error) {
			finish(err)
		})
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				finish(err)
				return
			}
		}
		finish(errors.New("connection refused"))
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out waiting for the hub to acknowledge '%s'", p.event)
		}
		return errors.New("timed out while waiting for initial connection")
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to publish result: %w", err)
		}
		logger.Info("📣 Result published.", "outcome", res.Outcome)
		return nil
	}
}
