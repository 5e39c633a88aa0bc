// Package options contains flags and options for initializing the RAG server.
package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/chethannhub/RAG-PDF-APP/internal/ragserver"
	"github.com/chethannhub/RAG-PDF-APP/pkg/component/milvus"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *HTTPOptions `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *LogOptions `json:"log" mapstructure:"log"`

	// MilvusOptions contains Milvus database configuration.
	MilvusOptions *milvus.Options `json:"milvus" mapstructure:"milvus"`

	// RedisOptions contains redis configuration for the query cache.
	RedisOptions *RedisOptions `json:"redis" mapstructure:"redis"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions contains chat provider configuration.
	ChatOptions *ProviderOptions `json:"chat" mapstructure:"chat"`

	// RAGOptions contains RAG pipeline configuration.
	RAGOptions *RAGOptions `json:"rag" mapstructure:"rag"`

	// CacheOptions contains query cache configuration.
	CacheOptions *CacheOptions `json:"cache" mapstructure:"cache"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:      NewHTTPOptions(),
		LogOptions:       NewLogOptions(),
		MilvusOptions:    milvus.NewOptions(),
		RedisOptions:     NewRedisOptions(),
		EmbeddingOptions: NewEmbeddingOptions(),
		ChatOptions:      NewChatOptions(),
		RAGOptions:       NewRAGOptions(),
		CacheOptions:     NewCacheOptions(),
		ShutdownTimeout:  30 * time.Second,
	}
}

// AddFlags binds all option fields to the flag set.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTPOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.MilvusOptions.AddFlags(fs)
	o.RedisOptions.AddFlags(fs)
	o.EmbeddingOptions.AddFlags(fs, "embedding")
	o.ChatOptions.AddFlags(fs, "chat")
	o.RAGOptions.AddFlags(fs)
	o.CacheOptions.AddFlags(fs)

	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout.")
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.EmbeddingOptions.Complete(); err != nil {
		return err
	}
	if err := o.ChatOptions.Complete(); err != nil {
		return err
	}
	return o.RAGOptions.Complete()
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	var errs []error

	errs = append(errs, o.HTTPOptions.Validate()...)
	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.MilvusOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate("embedding")...)
	errs = append(errs, o.ChatOptions.Validate("chat")...)
	errs = append(errs, o.RAGOptions.Validate()...)

	return errors.Join(errs...)
}

// Config builds a ragserver.Config based on ServerOptions.
func (o *ServerOptions) Config() (*ragserver.Config, error) {
	cfg := &ragserver.Config{
		Addr:              o.HTTPOptions.Addr,
		Mode:              o.HTTPOptions.Mode,
		ShutdownTimeout:   o.ShutdownTimeout,
		Milvus:            o.MilvusOptions,
		Collection:        o.RAGOptions.Collection,
		Dimension:         o.RAGOptions.EmbeddingDim,
		ChunkSize:         o.RAGOptions.ChunkSize,
		ChunkOverlap:      o.RAGOptions.ChunkOverlap,
		EmbedBatchSize:    o.RAGOptions.EmbedBatchSize,
		EmbedConcurrency:  o.RAGOptions.EmbedConcurrency,
		EmbeddingProvider: o.EmbeddingOptions.Provider,
		EmbeddingConfig:   o.EmbeddingOptions.ToConfigMap(),
		ChatProvider:      o.ChatOptions.Provider,
		ChatConfig:        o.ChatOptions.ToConfigMap(),
		Cache:             o.CacheOptions.ToCacheConfig(),
	}

	if o.RedisOptions != nil && o.RedisOptions.Enabled {
		cfg.Redis = o.RedisOptions.ToRedisOptions()
	}

	return cfg, nil
}
