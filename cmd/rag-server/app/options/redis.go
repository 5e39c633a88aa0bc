package options

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/workflow"
)

// RedisOptions defines configuration options for the redis query cache
// backend.
type RedisOptions struct {
	// Enabled toggles the redis connection entirely.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	Host         string        `json:"host" mapstructure:"host"`
	Port         int           `json:"port" mapstructure:"port"`
	Password     string        `json:"-" mapstructure:"password"`
	Database     int           `json:"database" mapstructure:"database"`
	PoolSize     int           `json:"pool-size" mapstructure:"pool-size"`
	DialTimeout  time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
	ReadTimeout  time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

// NewRedisOptions creates a new RedisOptions object with default values.
func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Enabled:      false,
		Host:         "127.0.0.1",
		Port:         6379,
		Database:     0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// AddFlags adds flags for redis options to the specified FlagSet.
func (o *RedisOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "redis.enabled", o.Enabled, "Enable the redis query cache backend")
	fs.StringVar(&o.Host, "redis.host", o.Host, "Redis host")
	fs.IntVar(&o.Port, "redis.port", o.Port, "Redis port")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password (prefer REDIS_PASSWORD env var)")
	fs.IntVar(&o.Database, "redis.database", o.Database, "Redis database")
	fs.IntVar(&o.PoolSize, "redis.pool-size", o.PoolSize, "Redis pool size")
	fs.DurationVar(&o.DialTimeout, "redis.dial-timeout", o.DialTimeout, "Redis dial timeout")
	fs.DurationVar(&o.ReadTimeout, "redis.read-timeout", o.ReadTimeout, "Redis read timeout")
	fs.DurationVar(&o.WriteTimeout, "redis.write-timeout", o.WriteTimeout, "Redis write timeout")
}

// ToRedisOptions converts to the go-redis client options.
func (o *RedisOptions) ToRedisOptions() *goredis.Options {
	return &goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", o.Host, o.Port),
		Password:     o.Password,
		DB:           o.Database,
		PoolSize:     o.PoolSize,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
	}
}

// CacheOptions contains query cache configuration.
type CacheOptions struct {
	// Enabled toggles the query cache.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is how long a cached answer stays valid.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces the cache keys.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// NewCacheOptions creates cache options with defaults.
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Enabled:   false,
		TTL:       1 * time.Hour,
		KeyPrefix: "rag:query:",
	}
}

// AddFlags adds flags for cache options to the specified FlagSet.
func (o *CacheOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "cache.enabled", o.Enabled, "Enable the query result cache")
	fs.DurationVar(&o.TTL, "cache.ttl", o.TTL, "Query cache TTL")
	fs.StringVar(&o.KeyPrefix, "cache.key-prefix", o.KeyPrefix, "Query cache key prefix")
}

// ToCacheConfig converts to the workflow cache configuration.
func (o *CacheOptions) ToCacheConfig() *workflow.QueryCacheConfig {
	return &workflow.QueryCacheConfig{
		Enabled:   o.Enabled,
		TTL:       o.TTL,
		KeyPrefix: o.KeyPrefix,
	}
}
