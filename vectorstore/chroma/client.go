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


package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/docrag/vectorstore"
)

// Config holds the connection settings for a Chroma deployment.
type Config struct {
	// BaseURL is the API root, including the version prefix.
	BaseURL string
	// Tenant, Database and Collection name the target collection's
	// position in Chroma's resource hierarchy.
	Tenant     string
	Database   string
	Collection string
}

// DefaultConfig returns settings for a local Chroma instance.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8000/api/v2",
		Tenant:     "test_tenant",
		Database:   "test_database",
		Collection: "test_collection",
	}
}

// Validate checks the configuration is complete.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.BaseURL == "" || c.Tenant == "" || c.Database == "" || c.Collection == "" {
		return errors.New("chroma config: BaseURL, Tenant, Database and Collection are required")
	}
	return nil
}

// Client talks to one Chroma collection. It implements
// vectorstore.Store; Provision must succeed before Upsert or Query.
type Client struct {
	cfg          Config
	client       *http.Client
	logger       *slog.Logger
	collectionID string
}

var _ vectorstore.Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for store calls. Deadlines
// belong here; the client itself never imposes them per call.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the configured collection.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default().With("component", "chroma"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CollectionID returns the collection identifier resolved by Provision,
// or the empty string before provisioning.
func (c *Client) CollectionID() string {
	return c.collectionID
}

// Route builders mirror Chroma's v2 resource hierarchy.

func (c *Client) tenantsURL() string {
	return c.cfg.BaseURL + "/tenants"
}

func (c *Client) tenantURL() string {
	return c.tenantsURL() + "/" + c.cfg.Tenant
}

func (c *Client) databasesURL() string {
	return c.tenantURL() + "/databases"
}

func (c *Client) databaseURL() string {
	return c.databasesURL() + "/" + c.cfg.Database
}

func (c *Client) collectionsURL() string {
	return c.databaseURL() + "/collections"
}

func (c *Client) collectionURL() string {
	return c.collectionsURL() + "/" + c.cfg.Collection
}

func (c *Client) upsertURL() string {
	return c.collectionsURL() + "/" + c.collectionID + "/upsert"
}

func (c *Client) queryURL() string {
	return c.collectionsURL() + "/" + c.collectionID + "/query"
}

// do sends one request and returns the response status code. When out is
// non-nil and the response is 2xx, the body is decoded into it.
// Transport problems are returned as errors; HTTP failures are left to
// the caller to judge from the status code.
func (c *Client) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && is2xx(resp.StatusCode) {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response from %s: %w", url, err)
		}
	}
	return resp.StatusCode, nil
}

func is2xx(status int) bool {
	return status >= 200 && status <= 299
}
