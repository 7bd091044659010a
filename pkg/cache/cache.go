// Package cache stores built road graphs keyed by a hash of their inputs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for a shared cache behind the HTTP server, and [NullCache] when caching is
// disabled. [Compressed] wraps any of them to store entries snappy-encoded.
// Keys are produced by a [Keyer] so that a change to the input
// document, the speed profile or the output format never reuses a stale
// entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLGraph is how long a built graph stays cached. Builds are deterministic,
// so the TTL only bounds disk and memory growth.
const TTLGraph = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached data and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GraphKeyOpts are the build settings that change a graph's bytes.
type GraphKeyOpts struct {
	// Profile is the speed profile fingerprint.
	Profile string `json:"profile"`
	// Format is the output encoding ("json" or "gob").
	Format string `json:"format"`
}

// RenderKeyOpts are the settings that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey keys a graph built from the input document with the given hash.
	GraphKey(inputHash string, opts GraphKeyOpts) string
	// RenderKey keys a rendered view of the graph with the given hash.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputHash, opts)
}

func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data. Inputs and built graphs are keyed
// by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "kind:sha256(json([hash, opts]))".
func hashKey(kind, hash string, opts any) string {
	data, _ := json.Marshal([]any{hash, opts})
	return kind + ":" + Hash(data)
}
