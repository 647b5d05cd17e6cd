// Package categorizer implements per-domain document categorization by
// cosine similarity between a document embedding and category description
// embeddings.
package categorizer

import (
	"context"
	"sort"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
)

// UnknownFloor is the similarity floor below which the fallback-domain
// categorizer reports "unknown" instead of its best match.
const UnknownFloor = 0.45

// DomainCategorizer matches documents against one domain's taxonomy. It is
// immutable after construction; retraining builds a replacement instance.
type DomainCategorizer struct {
	domainKey  string
	taxonomy   domain.Taxonomy
	embedder   domain.Embedder
	embeddings map[string]domain.Vector
	floor      float64
}

// New builds a categorizer for a domain by embedding every category
// description in the taxonomy.
func New(ctx context.Context, domainKey string, taxonomy domain.Taxonomy, embedder domain.Embedder) *DomainCategorizer {
	return build(ctx, domainKey, taxonomy, embedder, 0)
}

// NewFallback builds the fallback-domain variant, which clamps low-similarity
// matches to "unknown".
func NewFallback(ctx context.Context, taxonomy domain.Taxonomy, embedder domain.Embedder) *DomainCategorizer {
	return build(ctx, DomainFallback, taxonomy, embedder, UnknownFloor)
}

// Build loads the domain's taxonomy from the store and constructs a
// categorizer from it. A missing or unreadable taxonomy falls back to the
// built-in default for that domain, so the categorizer is always usable.
func Build(ctx context.Context, domainKey string, store domain.TaxonomyStore, embedder domain.Embedder) *DomainCategorizer {
	logger := observability.FromContext(ctx)

	taxonomy, err := store.Load(ctx, domainKey)
	if err != nil {
		logger.Warn("taxonomy load failed, using built-in default",
			observability.String("domain", domainKey),
			observability.Error(err))
		taxonomy = nil
	}

	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy(domainKey)
	}

	if domainKey == DomainFallback {
		return NewFallback(ctx, taxonomy, embedder)
	}
	return New(ctx, domainKey, taxonomy, embedder)
}

func build(ctx context.Context, domainKey string, taxonomy domain.Taxonomy, embedder domain.Embedder, floor float64) *DomainCategorizer {
	embeddings := make(map[string]domain.Vector, len(taxonomy))
	for name, category := range taxonomy {
		embeddings[name] = embedder.Embed(ctx, category.Description)
	}

	return &DomainCategorizer{
		domainKey:  domainKey,
		taxonomy:   taxonomy,
		embedder:   embedder,
		embeddings: embeddings,
		floor:      floor,
	}
}

// Categorize returns the taxonomy category closest to the document, with the
// cosine similarity as confidence. Ties break by lexicographic category name
// so results are reproducible.
func (c *DomainCategorizer) Categorize(ctx context.Context, document string) (string, float64) {
	if len(c.embeddings) == 0 {
		return domain.CategoryUnclassified, 0.0
	}

	docVec := c.embedder.Embed(ctx, document)

	names := make([]string, 0, len(c.embeddings))
	for name := range c.embeddings {
		names = append(names, name)
	}
	sort.Strings(names)

	bestCategory := names[0]
	bestSimilarity := domain.CosineSimilarity(docVec, c.embeddings[names[0]])
	for _, name := range names[1:] {
		if sim := domain.CosineSimilarity(docVec, c.embeddings[name]); sim > bestSimilarity {
			bestCategory = name
			bestSimilarity = sim
		}
	}

	if c.floor > 0 && bestSimilarity < c.floor {
		// The raw similarity stays visible so callers can tell a weak match
		// from a no-data state.
		return domain.CategoryUnknown, bestSimilarity
	}

	return bestCategory, bestSimilarity
}

// Domain returns the domain key this categorizer serves.
func (c *DomainCategorizer) Domain() string {
	return c.domainKey
}

// Taxonomy returns the taxonomy this categorizer was built from.
func (c *DomainCategorizer) Taxonomy() domain.Taxonomy {
	return c.taxonomy
}
