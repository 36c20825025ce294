package config

import (
	"context"
	"fmt"

	momentoredis "github.com/momentohq/momento-redis-go"
	"github.com/momentohq/momento-redis-go/codec"
	logruslog "github.com/momentohq/momento-redis-go/log/logrus"
	sloglog "github.com/momentohq/momento-redis-go/log/slog"
	zaplog "github.com/momentohq/momento-redis-go/log/zap"
	pr "github.com/momentohq/momento-redis-go/provider"
	bigcachep "github.com/momentohq/momento-redis-go/provider/bigcache"
	momentop "github.com/momentohq/momento-redis-go/provider/momento"
	redisp "github.com/momentohq/momento-redis-go/provider/redis"
	ristrettop "github.com/momentohq/momento-redis-go/provider/ristretto"
)

// Build validates cfg and returns a client that owns its provider; Close
// on the client releases it.
func Build(ctx context.Context, cfg Config) (*momentoredis.Client, error) {
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c, err := momentoredis.New(momentoredis.Options{
		Provider:           p,
		CacheName:          cfg.CacheName,
		Logger:             logger,
		ReturnRemoteErrors: cfg.ReturnRemoteErrors,
		DeleteConcurrency:  cfg.DeleteConcurrency,
		CloseProvider:      true,
	})
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	return c, nil
}

// NewLogger returns the configured logger adapter; backend "none" (or "")
// gives momentoredis.NopLogger.
func NewLogger(cfg LogConfig) (momentoredis.Logger, error) {
	switch cfg.Backend {
	case "", "none":
		return momentoredis.NopLogger{}, nil
	case "zap":
		return zaplog.New(zaplog.Config{Level: cfg.Level, Format: cfg.Format})
	case "logrus":
		return logruslog.New(cfg.Level, cfg.Format, nil)
	case "slog":
		return sloglog.New(cfg.Level, cfg.Format, nil)
	}
	return nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
}

func NewProvider(ctx context.Context, cfg Config) (pr.Provider, error) {
	switch cfg.Backend {
	case BackendMomento:
		return momentop.New(momentop.Config{
			Token:       cfg.Momento.APIKey,
			TokenEnvVar: cfg.Momento.APIKeyEnv,
			DefaultTTL:  cfg.Momento.DefaultTTL,
		})
	case BackendRedis:
		return redisp.NewFromURL(ctx, cfg.Redis.URL)
	case BackendRistretto:
		cd, err := codec.ForDictionary(cfg.Codec)
		if err != nil {
			return nil, err
		}
		return ristrettop.New(ristrettop.Config{
			NumCounters: cfg.Ristretto.NumCounters,
			MaxCost:     cfg.Ristretto.MaxCost,
			BufferItems: cfg.Ristretto.BufferItems,
			Codec:       cd,
		})
	case BackendBigCache:
		cd, err := codec.ForDictionary(cfg.Codec)
		if err != nil {
			return nil, err
		}
		return bigcachep.New(ctx, bigcachep.Config{
			LifeWindow:         cfg.BigCache.LifeWindow,
			CleanWindow:        cfg.BigCache.CleanWindow,
			MaxEntriesInWindow: cfg.BigCache.MaxEntriesInWindow,
			MaxEntrySize:       cfg.BigCache.MaxEntrySize,
			HardMaxCacheSizeMB: cfg.BigCache.HardMaxCacheSizeMB,
			Codec:              cd,
		})
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
