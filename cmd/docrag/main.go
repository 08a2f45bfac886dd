// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docrag"
	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/openai"
	"github.com/poiesic/docrag/server"
	"github.com/poiesic/docrag/vectorstore/chroma"
)

func main() {
	app := &cli.App{
		Name:  "docrag",
		Usage: "Document ingestion and retrieval-augmented chat service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the ingestion and chat API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data-dir",
						Aliases: []string{"d"},
						Usage:   "Directory of text documents to ingest",
						Value:   "./data",
					},
					&cli.StringFlag{
						Name:  "chroma-url",
						Usage: "Chroma API root, including version prefix",
						Value: "http://localhost:8000/api/v2",
					},
					&cli.StringFlag{
						Name:  "chroma-tenant",
						Usage: "Chroma tenant name",
						Value: "test_tenant",
					},
					&cli.StringFlag{
						Name:  "chroma-database",
						Usage: "Chroma database name",
						Value: "test_database",
					},
					&cli.StringFlag{
						Name:  "chroma-collection",
						Usage: "Chroma collection name",
						Value: "test_collection",
					},
					&cli.StringFlag{
						Name:  "embedding-url",
						Usage: "Batch embedding endpoint URL",
						Value: "http://localhost:5001/embed",
					},
					&cli.StringFlag{
						Name:  "embedder",
						Usage: "Embedder variant (remote, openai)",
						Value: "remote",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (openai variant only)",
						Value: "all-MiniLM-L6-v2",
					},
					&cli.StringFlag{
						Name:  "chat-host",
						Usage: "Ollama-compatible chat service base URL",
						Value: "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:  "chat-model",
						Usage: "Chat model name",
						Value: "llama2:latest",
					},
					&cli.IntFlag{
						Name:  "window-size",
						Usage: "Chunk window size in runes",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Chunk overlap in runes",
						Value: 200,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Embedding and upsert batch size",
						Value: 8,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks retrieved per chat query",
						Value: 3,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "HTTP listen host",
						Value: "localhost",
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "HTTP listen port",
						Value:   8080,
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Re-run ingestion when files in the data directory change",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &docrag.Config{
		DataDir: c.String("data-dir"),
		AI: ai.NewConfig(
			ai.WithEmbeddingURL(c.String("embedding-url")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithChatHost(c.String("chat-host")),
			ai.WithChatModel(c.String("chat-model")),
		),
		Chroma: chroma.Config{
			BaseURL:    c.String("chroma-url"),
			Tenant:     c.String("chroma-tenant"),
			Database:   c.String("chroma-database"),
			Collection: c.String("chroma-collection"),
		},
		WindowSize: c.Int("window-size"),
		Overlap:    c.Int("overlap"),
		BatchSize:  c.Int("batch-size"),
		TopK:       c.Int("top-k"),
	}

	var serviceOpts []docrag.ServiceOption
	switch c.String("embedder") {
	case "remote":
	case "openai":
		embedder, err := openai.NewEmbedder(cfg.AI)
		if err != nil {
			return fmt.Errorf("creating openai embedder: %w", err)
		}
		serviceOpts = append(serviceOpts, docrag.WithEmbedder(embedder))
	default:
		return fmt.Errorf("unknown embedder variant %q: must be remote or openai", c.String("embedder"))
	}

	service, err := docrag.NewService(cfg, serviceOpts...)
	if err != nil {
		return fmt.Errorf("wiring service: %w", err)
	}
	defer service.Close()

	if err := service.Provision(ctx); err != nil {
		return fmt.Errorf("provisioning vector store: %w", err)
	}

	if c.Bool("watch") {
		watcher, err := service.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
	}

	srv, err := server.NewServer(
		service.Pipeline(),
		service.Tracker(),
		service.Responder(),
		slog.Default(),
		server.Config{Host: c.String("host"), Port: c.Int("port")},
	)
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
