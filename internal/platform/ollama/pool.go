package ollama

import (
	"strings"
	"sync/atomic"
)

// Endpoint is the base URL of a single inference node, without a trailing slash.
type Endpoint string

// NewEndpoint normalizes a base URL into an Endpoint.
func NewEndpoint(raw string) Endpoint {
	return Endpoint(strings.TrimRight(strings.TrimSpace(raw), "/"))
}

// URL joins the endpoint with path.
func (e Endpoint) URL(path string) string {
	return string(e) + path
}

// EndpointPool is an ordered set of endpoints with a shared rotation cursor.
// Rotation is best-effort round robin: concurrent callers each get a distinct
// cursor value but may observe endpoints out of strict order.
type EndpointPool struct {
	endpoints []Endpoint
	cursor    atomic.Uint64
}

// NewEndpointPool creates a pool from raw URLs. Blank entries are skipped.
func NewEndpointPool(urls []string) *EndpointPool {
	endpoints := make([]Endpoint, 0, len(urls))
	for _, u := range urls {
		if e := NewEndpoint(u); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	return &EndpointPool{endpoints: endpoints}
}

// Len returns the number of endpoints in the pool.
func (p *EndpointPool) Len() int {
	return len(p.endpoints)
}

// Endpoints returns a copy of the pool's endpoints in rotation order.
func (p *EndpointPool) Endpoints() []Endpoint {
	return append([]Endpoint(nil), p.endpoints...)
}

// Next returns the endpoint at the cursor and advances the cursor, wrapping
// around at the end. It returns false for an empty pool.
func (p *EndpointPool) Next() (Endpoint, bool) {
	n := uint64(len(p.endpoints))
	if n == 0 {
		return "", false
	}
	i := (p.cursor.Add(1) - 1) % n
	return p.endpoints[i], true
}
