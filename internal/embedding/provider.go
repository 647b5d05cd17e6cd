// Package embedding provides the process-wide embedding provider: a single
// backing model behind a bounded cache, degrading to deterministic
// pseudo-random vectors when the model is unavailable.
package embedding

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
)

const (
	// DefaultDimension matches the all-MiniLM sentence-transformer family.
	DefaultDimension = 384

	// DefaultMaxCacheSize bounds the text->vector cache.
	DefaultMaxCacheSize = 1000

	// evictionSlack is how many entries beyond the overflow are evicted in
	// one pass, so eviction does not run on every subsequent insert.
	evictionSlack = 100
)

// Provider serves embeddings from an injectable backing generator with a
// shared bounded cache. It implements domain.Embedder and never fails: on
// generator failure it switches to a deterministic hash-seeded fallback for
// the remainder of the process lifetime.
type Provider struct {
	generator domain.EmbeddingGenerator
	dimension int
	maxSize   int

	// mu guards cache, order and degraded. Check-then-act must be atomic so
	// two callers never compute the same text twice.
	mu       sync.Mutex
	cache    map[string]domain.Vector
	order    []string
	degraded bool
}

// NewProvider creates an embedding provider. A nil generator starts the
// provider already degraded, which is useful for offline and test setups.
func NewProvider(generator domain.EmbeddingGenerator, maxSize int) *Provider {
	dimension := DefaultDimension
	if generator != nil {
		dimension = generator.Dimension()
	}

	if maxSize <= 0 {
		maxSize = DefaultMaxCacheSize
	}

	return &Provider{
		generator: generator,
		dimension: dimension,
		maxSize:   maxSize,
		cache:     make(map[string]domain.Vector),
		order:     nil,
		degraded:  generator == nil,
	}
}

// Embed returns the embedding for text. Empty input yields the zero vector.
func (p *Provider) Embed(ctx context.Context, text string) domain.Vector {
	if text == "" {
		return make(domain.Vector, p.dimension)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.cache[text]; ok {
		return vec
	}

	vec := p.compute(ctx, text)
	p.insert(text, vec)

	return vec
}

// Dimension returns the vector dimension.
func (p *Provider) Dimension() int {
	return p.dimension
}

// compute runs the backing generator, or the fallback once the provider has
// degraded. Callers hold p.mu.
func (p *Provider) compute(ctx context.Context, text string) domain.Vector {
	if p.degraded {
		return fallbackVector(text, p.dimension)
	}

	vec, err := p.generator.Generate(ctx, text)
	if err != nil {
		// One failure marks the model unavailable for the rest of the
		// process lifetime: no retry storm against a dead backend.
		p.degraded = true

		observability.FromContext(ctx).Warn("embedding model unavailable, switching to deterministic fallback",
			observability.String("generator", p.generator.Name()),
			observability.Error(err))

		return fallbackVector(text, p.dimension)
	}

	return vec
}

// insert stores a freshly computed vector and applies the batched FIFO cap:
// after any insert the cache never holds more than maxSize entries.
func (p *Provider) insert(text string, vec domain.Vector) {
	p.cache[text] = vec
	p.order = append(p.order, text)

	overflow := len(p.cache) - p.maxSize
	if overflow <= 0 {
		return
	}

	drop := overflow + evictionSlack
	if drop > len(p.order) {
		drop = len(p.order)
	}

	for _, old := range p.order[:drop] {
		delete(p.cache, old)
	}
	p.order = append([]string(nil), p.order[drop:]...)
}

// fallbackVector builds a reproducible pseudo-random unit-range vector keyed
// by a stable hash of the text. Reproducibility across calls is the only
// requirement here, not randomness quality.
func fallbackVector(text string, dimension int) domain.Vector {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))

	rng := rand.New(rand.NewSource(int64(h.Sum64()))) //nolint:gosec // reproducibility, not security

	vec := make(domain.Vector, dimension)
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
	}

	return vec
}
