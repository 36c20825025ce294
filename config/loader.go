package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/momentohq/momento-redis-go/codec"
)

// ViperLoader loads Config with precedence ENV > file > defaults.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a loader. configFile may be empty; envPrefix
// defaults to "MOMENTOREDIS".
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{configFile: configFile, envPrefix: envPrefix}
}

func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("cache_name", d.CacheName)
	v.SetDefault("codec", d.Codec)
	v.SetDefault("return_remote_errors", d.ReturnRemoteErrors)
	v.SetDefault("delete_concurrency", d.DeleteConcurrency)

	v.SetDefault("log.backend", d.Log.Backend)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("momento.api_key", d.Momento.APIKey)
	v.SetDefault("momento.api_key_env", d.Momento.APIKeyEnv)
	v.SetDefault("momento.default_ttl", d.Momento.DefaultTTL)

	v.SetDefault("redis.url", d.Redis.URL)

	v.SetDefault("ristretto.num_counters", d.Ristretto.NumCounters)
	v.SetDefault("ristretto.max_cost", d.Ristretto.MaxCost)
	v.SetDefault("ristretto.buffer_items", d.Ristretto.BufferItems)

	v.SetDefault("bigcache.life_window", d.BigCache.LifeWindow)
	v.SetDefault("bigcache.clean_window", d.BigCache.CleanWindow)
	v.SetDefault("bigcache.max_entries_in_window", d.BigCache.MaxEntriesInWindow)
	v.SetDefault("bigcache.max_entry_size", d.BigCache.MaxEntrySize)
	v.SetDefault("bigcache.hard_max_cache_size_mb", d.BigCache.HardMaxCacheSizeMB)
}

// bindEnvVars binds every key explicitly; viper's AutomaticEnv does not
// reach nested keys during Unmarshal.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("backend", l.prefixedEnv("BACKEND"))
	_ = v.BindEnv("cache_name", l.prefixedEnv("CACHE_NAME"))
	_ = v.BindEnv("codec", l.prefixedEnv("CODEC"))
	_ = v.BindEnv("return_remote_errors", l.prefixedEnv("RETURN_REMOTE_ERRORS"))
	_ = v.BindEnv("delete_concurrency", l.prefixedEnv("DELETE_CONCURRENCY"))

	_ = v.BindEnv("log.backend", l.prefixedEnv("LOG_BACKEND"))
	_ = v.BindEnv("log.level", l.prefixedEnv("LOG_LEVEL"))
	_ = v.BindEnv("log.format", l.prefixedEnv("LOG_FORMAT"))

	_ = v.BindEnv("momento.api_key", l.prefixedEnv("MOMENTO_API_KEY"))
	_ = v.BindEnv("momento.api_key_env", l.prefixedEnv("MOMENTO_API_KEY_ENV"))
	_ = v.BindEnv("momento.default_ttl", l.prefixedEnv("MOMENTO_DEFAULT_TTL"))

	_ = v.BindEnv("redis.url", l.prefixedEnv("REDIS_URL"))

	_ = v.BindEnv("ristretto.num_counters", l.prefixedEnv("RISTRETTO_NUM_COUNTERS"))
	_ = v.BindEnv("ristretto.max_cost", l.prefixedEnv("RISTRETTO_MAX_COST"))
	_ = v.BindEnv("ristretto.buffer_items", l.prefixedEnv("RISTRETTO_BUFFER_ITEMS"))

	_ = v.BindEnv("bigcache.life_window", l.prefixedEnv("BIGCACHE_LIFE_WINDOW"))
	_ = v.BindEnv("bigcache.clean_window", l.prefixedEnv("BIGCACHE_CLEAN_WINDOW"))
	_ = v.BindEnv("bigcache.max_entries_in_window", l.prefixedEnv("BIGCACHE_MAX_ENTRIES_IN_WINDOW"))
	_ = v.BindEnv("bigcache.max_entry_size", l.prefixedEnv("BIGCACHE_MAX_ENTRY_SIZE"))
	_ = v.BindEnv("bigcache.hard_max_cache_size_mb", l.prefixedEnv("BIGCACHE_HARD_MAX_CACHE_SIZE_MB"))
}

func (l *ViperLoader) prefixedEnv(suffix string) string {
	prefix := strings.TrimSpace(l.envPrefix)
	if prefix == "" {
		prefix = "MOMENTOREDIS"
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(prefix), suffix)
}

// Validate checks cfg and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []error
	if strings.TrimSpace(cfg.CacheName) == "" {
		errs = append(errs, errors.New("cache_name is required"))
	}
	if cfg.DeleteConcurrency < 1 {
		errs = append(errs, fmt.Errorf("delete_concurrency must be >= 1, got %d", cfg.DeleteConcurrency))
	}
	if _, err := codec.ForDictionary(cfg.Codec); err != nil {
		errs = append(errs, err)
	}

	switch cfg.Log.Backend {
	case "", "none", "zap", "logrus", "slog":
	default:
		errs = append(errs, fmt.Errorf("log.backend must be one of zap, logrus, slog, none; got %q", cfg.Log.Backend))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text; got %q", cfg.Log.Format))
	}

	switch cfg.Backend {
	case BackendMomento:
		if cfg.Momento.DefaultTTL <= 0 {
			errs = append(errs, errors.New("momento.default_ttl must be > 0"))
		}
		if cfg.Momento.APIKey == "" && cfg.Momento.APIKeyEnv == "" {
			errs = append(errs, errors.New("momento.api_key or momento.api_key_env is required"))
		}
	case BackendRedis:
		if cfg.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required"))
		}
	case BackendRistretto:
		if cfg.Ristretto.NumCounters <= 0 || cfg.Ristretto.MaxCost <= 0 || cfg.Ristretto.BufferItems <= 0 {
			errs = append(errs, errors.New("ristretto.num_counters, max_cost and buffer_items must be > 0"))
		}
	case BackendBigCache:
		if cfg.BigCache.LifeWindow <= 0 {
			errs = append(errs, errors.New("bigcache.life_window must be > 0"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend must be one of momento, redis, ristretto, bigcache; got %q", cfg.Backend))
	}
	return errors.Join(errs...)
}
