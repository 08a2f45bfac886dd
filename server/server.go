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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/poiesic/docrag/core"
)

// Runner triggers one ingestion pass. *ingestion.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) (int, error)
}

// StatusReader reports the current ingestion state.
// *ingestion.StatusTracker satisfies it.
type StatusReader interface {
	Current() core.JobState
}

// Responder answers chat requests and stores notes. *rag.Responder
// satisfies it.
type Responder interface {
	Respond(ctx context.Context, userMessage string, useEmbeddings bool) (string, error)
	StoreNote(ctx context.Context, text string) error
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server exposes the ingestion pipeline and the responder over HTTP.
type Server struct {
	echo      *echo.Echo
	runner    Runner
	status    StatusReader
	responder Responder
	logger    *slog.Logger
	config    Config
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(runner Runner, status StatusReader, responder Responder, logger *slog.Logger, cfg Config) (*Server, error) {
	if runner == nil {
		return nil, ErrRunnerRequired
	}
	if status == nil {
		return nil, ErrStatusRequired
	}
	if responder == nil {
		return nil, ErrResponderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return err
		}
	})

	s := &Server{
		echo:      e,
		runner:    runner,
		status:    status,
		responder: responder,
		logger:    logger.With("component", "server"),
		config:    cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/status", s.handleStatus)
	s.echo.POST("/process-docs", s.handleProcessDocs)
	s.echo.POST("/chat", s.handleChat)
	s.echo.POST("/finetune", s.handleFinetune)
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
