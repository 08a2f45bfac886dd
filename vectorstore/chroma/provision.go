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
	"context"
	"fmt"
	"net/http"
)

type createNameRequest struct {
	Name string `json:"name"`
}

type createCollectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provision idempotently ensures tenant, database and collection exist,
// in dependency order, and records the collection ID for later upsert
// and query calls. Each level is looked up first and created only on a
// miss; a creation failure surfaces immediately without re-checking.
func (c *Client) Provision(ctx context.Context) error {
	if err := c.ensureTenant(ctx); err != nil {
		return fmt.Errorf("ensure tenant %q: %w", c.cfg.Tenant, err)
	}
	if err := c.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("ensure database %q: %w", c.cfg.Database, err)
	}
	collection, err := c.ensureCollection(ctx)
	if err != nil {
		return fmt.Errorf("ensure collection %q: %w", c.cfg.Collection, err)
	}

	c.collectionID = collection.ID
	c.logger.Info("collection provisioned",
		"tenant", c.cfg.Tenant,
		"database", c.cfg.Database,
		"collection", c.cfg.Collection,
		"id", c.collectionID)
	return nil
}

func (c *Client) ensureTenant(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodGet, c.tenantURL(), nil, nil)
	if err != nil {
		return err
	}
	if is2xx(status) {
		return nil
	}

	status, err = c.do(ctx, http.MethodPost, c.tenantsURL(), createNameRequest{Name: c.cfg.Tenant}, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("create returned status %d", status)
	}
	return nil
}

func (c *Client) ensureDatabase(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodGet, c.databaseURL(), nil, nil)
	if err != nil {
		return err
	}
	if is2xx(status) {
		return nil
	}

	status, err = c.do(ctx, http.MethodPost, c.databasesURL(), createNameRequest{Name: c.cfg.Database}, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("create returned status %d", status)
	}
	return nil
}

func (c *Client) ensureCollection(ctx context.Context) (*collectionResponse, error) {
	var existing collectionResponse
	status, err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &existing)
	if err != nil {
		return nil, err
	}
	if is2xx(status) {
		return &existing, nil
	}

	var created collectionResponse
	req := createCollectionRequest{Name: c.cfg.Collection, GetOrCreate: true}
	status, err = c.do(ctx, http.MethodPost, c.collectionsURL(), req, &created)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("create returned status %d", status)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("create response missing collection id")
	}
	return &created, nil
}
