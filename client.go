package momentoredis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	pr "github.com/momentohq/momento-redis-go/provider"
)

// connectProbeKey is read by Connect to touch the backend.
const connectProbeKey = "sRITPPymF1yEB6rFizrI0ZeCMq012uXFjBNRNokAv4"

var ErrNilProvider = errors.New("momentoredis: Options.Provider is nil")

// Client speaks the go-redis command surface against a provider.Provider.
// Safe for concurrent use.
type Client struct {
	p         pr.Provider
	cacheName string
	log       Logger
	obs       observers

	returnRemoteErrors bool
	deleteConcurrency  int
	closeProvider      bool
	now                func() time.Time

	open atomic.Bool
}

func newClient(opts Options) (*Client, error) {
	if opts.Provider == nil {
		return nil, ErrNilProvider
	}
	c := &Client{
		p:                  opts.Provider,
		cacheName:          coalesce(opts.CacheName, defaultCacheName),
		log:                opts.Logger,
		returnRemoteErrors: opts.ReturnRemoteErrors,
		deleteConcurrency:  coalesce(opts.DeleteConcurrency, defaultDeleteConcurrency),
		closeProvider:      opts.CloseProvider,
		now:                opts.Now,
	}
	if c.log == nil {
		c.log = NopLogger{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.deleteConcurrency < 0 {
		c.deleteConcurrency = defaultDeleteConcurrency
	}
	if opts.Hooks != nil {
		c.obs.add(opts.Hooks)
	}
	return c, nil
}

func (c *Client) CacheName() string { return c.cacheName }

// IsOpen reports whether Connect was called more recently than Disconnect.
func (c *Client) IsOpen() bool { return c.open.Load() }

// Connect reads a probe key to touch the backend and marks the client open.
// A backend failure during the probe is published like any other and does
// not fail Connect; only a done ctx does.
func (c *Client) Connect(ctx context.Context) error {
	_ = c.get(ctx, "GET", connectProbeKey)
	if err := ctx.Err(); err != nil {
		return err
	}
	c.setOpen(true)
	return nil
}

// Disconnect marks the client closed. The provider stays usable; commands
// still run.
func (c *Client) Disconnect(context.Context) error {
	c.setOpen(false)
	return nil
}

// Close disconnects and, when Options.CloseProvider is set, closes the provider.
func (c *Client) Close(ctx context.Context) error {
	c.setOpen(false)
	if c.closeProvider {
		return c.p.Close(ctx)
	}
	return nil
}

func (c *Client) setOpen(open bool) {
	if c.open.Swap(open) == open {
		return
	}
	c.log.Info("momentoredis: open state changed", Fields{"cache": c.cacheName, "open": open})
	c.obs.each(func(h Hooks) { h.OpenChanged(c.cacheName, open) })
}

// Subscribe registers h for command failures and lifecycle events. The
// returned func unregisters it; calling it more than once is harmless.
func (c *Client) Subscribe(h Hooks) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	return c.obs.add(h)
}

// remote builds, logs and publishes the error for a failed backend call.
func (c *Client) remote(cmd, key string, err error) *CommandError {
	ce := &CommandError{Command: cmd, Key: key, Err: err}
	c.log.Debug("momentoredis: backend failure", Fields{"cache": c.cacheName, "cmd": cmd, "key": key, "err": err})
	c.obs.each(func(h Hooks) { h.CommandFailed(ce) })
	return ce
}

func (c *Client) usage(err error) error {
	c.log.Debug("momentoredis: rejected call", Fields{"cache": c.cacheName, "err": err})
	return err
}
