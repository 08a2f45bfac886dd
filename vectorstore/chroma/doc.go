// Package chroma is a REST client for the Chroma v2 API, covering the
// slice of the surface this service needs: tenant/database/collection
// provisioning, record upserts and nearest-neighbour queries.
package chroma
