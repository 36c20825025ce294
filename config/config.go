// Package config loads client settings with viper and builds a
// momentoredis.Client from them.
package config

import "time"

const (
	BackendMomento   = "momento"
	BackendRedis     = "redis"
	BackendRistretto = "ristretto"
	BackendBigCache  = "bigcache"
)

// Config is the full client configuration.
type Config struct {
	Backend            string `mapstructure:"backend"`
	CacheName          string `mapstructure:"cache_name"`
	Codec              string `mapstructure:"codec"` // dictionary encoding for in-process backends
	ReturnRemoteErrors bool   `mapstructure:"return_remote_errors"`
	DeleteConcurrency  int    `mapstructure:"delete_concurrency"`

	Log       LogConfig       `mapstructure:"log"`
	Momento   MomentoConfig   `mapstructure:"momento"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Ristretto RistrettoConfig `mapstructure:"ristretto"`
	BigCache  BigCacheConfig  `mapstructure:"bigcache"`
}

type LogConfig struct {
	Backend string `mapstructure:"backend"` // zap, logrus, slog or none
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"` // json or text
}

type MomentoConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	APIKeyEnv  string        `mapstructure:"api_key_env"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type RistrettoConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

type BigCacheConfig struct {
	LifeWindow         time.Duration `mapstructure:"life_window"`
	CleanWindow        time.Duration `mapstructure:"clean_window"`
	MaxEntriesInWindow int           `mapstructure:"max_entries_in_window"`
	MaxEntrySize       int           `mapstructure:"max_entry_size"`
	HardMaxCacheSizeMB int           `mapstructure:"hard_max_cache_size_mb"`
}

// DefaultConfig returns the defaults: Momento with the key read from
// MOMENTO_API_KEY, msgpack dictionaries, no logging.
func DefaultConfig() Config {
	return Config{
		Backend:           BackendMomento,
		CacheName:         "cache",
		Codec:             "msgpack",
		DeleteConcurrency: 16,
		Log: LogConfig{
			Backend: "none",
			Level:   "info",
			Format:  "json",
		},
		Momento: MomentoConfig{
			APIKeyEnv:  "MOMENTO_API_KEY",
			DefaultTTL: time.Hour,
		},
		Ristretto: RistrettoConfig{
			NumCounters: 1e6,
			MaxCost:     64 << 20,
			BufferItems: 64,
		},
		BigCache: BigCacheConfig{
			LifeWindow:         24 * time.Hour,
			CleanWindow:        5 * time.Minute,
			MaxEntriesInWindow: 1 << 14,
			MaxEntrySize:       512,
		},
	}
}
