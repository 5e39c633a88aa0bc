// Package app provides the RAG server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chethannhub/RAG-PDF-APP/cmd/rag-server/app/options"
	"github.com/chethannhub/RAG-PDF-APP/internal/ragserver"
	"github.com/chethannhub/RAG-PDF-APP/pkg/app"
)

const (
	// Name is the name of the application.
	Name = "rag-server"

	// commandDesc is the description of the command.
	commandDesc = `RAG PDF Server

A Retrieval-Augmented Generation service over PDF documents.

This server provides:
  - Durable PDF ingestion: extraction, chunking, embedding, vector storage
  - Semantic similarity search over ingested chunks
  - Question answering grounded in retrieved context
  - Support for multiple LLM providers (Ollama, OpenAI-compatible)`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		if err := opts.LogOptions.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := ragserver.NewServer(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
