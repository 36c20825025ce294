// Package momento backs momentoredis with a Momento cache through the
// official Go SDK. The SDK's tagged responses are mapped onto the provider
// contract; any variant not handled here is reported as
// provider.ErrUnexpectedResponse.
package momento

import (
	"context"
	"fmt"
	"time"

	"github.com/momentohq/client-sdk-go/auth"
	"github.com/momentohq/client-sdk-go/config"
	"github.com/momentohq/client-sdk-go/momento"
	"github.com/momentohq/client-sdk-go/responses"

	pr "github.com/momentohq/momento-redis-go/provider"
)

// DefaultTokenEnvVar is read when Config carries neither a client nor a token.
const DefaultTokenEnvVar = "MOMENTO_API_KEY"

// sdk is the slice of momento.CacheClient used here.
type sdk interface {
	Get(ctx context.Context, r *momento.GetRequest) (responses.GetResponse, error)
	Set(ctx context.Context, r *momento.SetRequest) (responses.SetResponse, error)
	SetIfNotExists(ctx context.Context, r *momento.SetIfNotExistsRequest) (responses.SetIfNotExistsResponse, error)
	Delete(ctx context.Context, r *momento.DeleteRequest) (responses.DeleteResponse, error)
	Increment(ctx context.Context, r *momento.IncrementRequest) (responses.IncrementResponse, error)
	DictionaryFetch(ctx context.Context, r *momento.DictionaryFetchRequest) (responses.DictionaryFetchResponse, error)
	DictionarySetFields(ctx context.Context, r *momento.DictionarySetFieldsRequest) (responses.DictionarySetFieldsResponse, error)
	Close()
}

type Config struct {
	// Client is used as-is when set; the provider closes it only if
	// CloseClient is true.
	Client      momento.CacheClient
	CloseClient bool

	Token       string // API key; takes precedence over TokenEnvVar
	TokenEnvVar string // "" => MOMENTO_API_KEY
	DefaultTTL  time.Duration
}

type Momento struct {
	c     sdk
	owned bool
}

var _ pr.Provider = (*Momento)(nil)

// New builds a provider. Without Config.Client it creates an SDK client with
// the laptop configuration, which the provider then owns.
func New(cfg Config) (*Momento, error) {
	if cfg.Client != nil {
		return &Momento{c: cfg.Client, owned: cfg.CloseClient}, nil
	}
	if cfg.DefaultTTL <= 0 {
		return nil, fmt.Errorf("momento provider: DefaultTTL must be > 0")
	}
	var (
		creds auth.CredentialProvider
		err   error
	)
	if cfg.Token != "" {
		creds, err = auth.NewStringMomentoTokenProvider(cfg.Token)
	} else {
		env := cfg.TokenEnvVar
		if env == "" {
			env = DefaultTokenEnvVar
		}
		creds, err = auth.NewEnvMomentoTokenProvider(env)
	}
	if err != nil {
		return nil, fmt.Errorf("momento provider: credentials: %w", err)
	}
	client, err := momento.NewCacheClient(config.LaptopLatest(), creds, cfg.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("momento provider: new client: %w", err)
	}
	return &Momento{c: client, owned: true}, nil
}

func unexpected(op string, resp any) error {
	return fmt.Errorf("%w: %s returned %T", pr.ErrUnexpectedResponse, op, resp)
}

func (p *Momento) Get(ctx context.Context, cacheName, key string) ([]byte, bool, error) {
	resp, err := p.c.Get(ctx, &momento.GetRequest{CacheName: cacheName, Key: momento.String(key)})
	if err != nil {
		return nil, false, err
	}
	switch r := resp.(type) {
	case *responses.GetHit:
		return r.ValueByte(), true, nil
	case *responses.GetMiss:
		return nil, false, nil
	}
	return nil, false, unexpected("get", resp)
}

func (p *Momento) Set(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) error {
	req := &momento.SetRequest{CacheName: cacheName, Key: momento.String(key), Value: momento.Bytes(value)}
	if ttl > 0 {
		req.Ttl = ttl
	}
	resp, err := p.c.Set(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := resp.(*responses.SetSuccess); !ok {
		return unexpected("set", resp)
	}
	return nil
}

func (p *Momento) SetIfNotExists(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) (bool, error) {
	req := &momento.SetIfNotExistsRequest{CacheName: cacheName, Key: momento.String(key), Value: momento.Bytes(value)}
	if ttl > 0 {
		req.Ttl = ttl
	}
	resp, err := p.c.SetIfNotExists(ctx, req)
	if err != nil {
		return false, err
	}
	switch resp.(type) {
	case *responses.SetIfNotExistsStored:
		return true, nil
	case *responses.SetIfNotExistsNotStored:
		return false, nil
	}
	return false, unexpected("setIfNotExists", resp)
}

func (p *Momento) Delete(ctx context.Context, cacheName, key string) error {
	resp, err := p.c.Delete(ctx, &momento.DeleteRequest{CacheName: cacheName, Key: momento.String(key)})
	if err != nil {
		return err
	}
	if _, ok := resp.(*responses.DeleteSuccess); !ok {
		return unexpected("delete", resp)
	}
	return nil
}

func (p *Momento) Increment(ctx context.Context, cacheName, key string, amount int64) (int64, error) {
	resp, err := p.c.Increment(ctx, &momento.IncrementRequest{CacheName: cacheName, Field: momento.String(key), Amount: amount})
	if err != nil {
		return 0, err
	}
	if r, ok := resp.(*responses.IncrementSuccess); ok {
		return r.Value(), nil
	}
	return 0, unexpected("increment", resp)
}

func (p *Momento) DictionaryFetch(ctx context.Context, cacheName, name string) (map[string][]byte, bool, error) {
	resp, err := p.c.DictionaryFetch(ctx, &momento.DictionaryFetchRequest{CacheName: cacheName, DictionaryName: name})
	if err != nil {
		return nil, false, err
	}
	switch r := resp.(type) {
	case *responses.DictionaryFetchHit:
		return r.ValueMapStringByte(), true, nil
	case *responses.DictionaryFetchMiss:
		return nil, false, nil
	}
	return nil, false, unexpected("dictionaryFetch", resp)
}

func (p *Momento) DictionarySetFields(ctx context.Context, cacheName, name string, fields map[string][]byte) error {
	resp, err := p.c.DictionarySetFields(ctx, &momento.DictionarySetFieldsRequest{
		CacheName:      cacheName,
		DictionaryName: name,
		Elements:       momento.DictionaryElementsFromMapStringBytes(fields),
	})
	if err != nil {
		return err
	}
	if _, ok := resp.(*responses.DictionarySetFieldsSuccess); !ok {
		return unexpected("dictionarySetFields", resp)
	}
	return nil
}

func (p *Momento) Close(context.Context) error {
	if p.owned {
		p.c.Close()
	}
	return nil
}
