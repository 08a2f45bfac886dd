// Package mock provides deterministic test doubles for the ai
// capability interfaces. The defaults produce stable, content-derived
// vectors and canned chat replies so tests never need a live service.
package mock
