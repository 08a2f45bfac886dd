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
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/poiesic/docrag/rag"
)

// ChatRequest is the request body for POST /chat.
type ChatRequest struct {
	UserMessage   string `json:"userMessage"`
	UseEmbeddings bool   `json:"useEmbeddings"`
}

// ChatResponse is the response body for POST /chat.
type ChatResponse struct {
	LLMResponse string `json:"llmResponse"`
}

// FinetuneRequest is the request body for POST /finetune.
type FinetuneRequest struct {
	UserMessage string `json:"userMessage"`
}

// ProcessResponse is the response body for POST /process-docs.
type ProcessResponse struct {
	Message string `json:"message"`
	Records int    `json:"records"`
}

// StatusResponse is the response body for GET /status.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: s.status.Current().String()})
}

// handleProcessDocs runs the full ingestion pipeline synchronously. The
// status endpoint reads Processing for the duration of the request.
func (s *Server) handleProcessDocs(c echo.Context) error {
	stored, err := s.runner.Run(c.Request().Context())
	if err != nil {
		s.logger.Error("ingestion failed", "stored", stored, "err", err)
		return echo.NewHTTPError(http.StatusBadGateway, "document processing failed")
	}

	return c.JSON(http.StatusOK, ProcessResponse{
		Message: "documents processed and embeddings stored",
		Records: stored,
	})
}

func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userMessage is required")
	}

	reply, err := s.responder.Respond(c.Request().Context(), req.UserMessage, req.UseEmbeddings)
	switch {
	case errors.Is(err, rag.ErrEmptyMessage), errors.Is(err, rag.ErrEmptyQueryEmbedding):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("chat failed", "err", err)
		return echo.NewHTTPError(http.StatusBadGateway, "chat completion failed")
	}

	return c.JSON(http.StatusOK, ChatResponse{LLMResponse: reply})
}

func (s *Server) handleFinetune(c echo.Context) error {
	var req FinetuneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userMessage is required")
	}

	if err := s.responder.StoreNote(c.Request().Context(), req.UserMessage); err != nil {
		s.logger.Error("storing note failed", "err", err)
		return echo.NewHTTPError(http.StatusBadGateway, "storing note failed")
	}
	return c.NoContent(http.StatusNoContent)
}
