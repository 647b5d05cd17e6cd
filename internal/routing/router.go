// Package routing dispatches documents to the live categorizer for their
// domain, falling back to the general-purpose categorizer for unknown
// domains.
package routing

import (
	"context"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
)

// Router resolves a domain key to its current categorizer and attaches the
// domain to the result.
type Router struct {
	registry domain.CategorizerRegistry
}

// NewRouter creates a new router.
func NewRouter(registry domain.CategorizerRegistry) *Router {
	return &Router{
		registry: registry,
	}
}

// CategorizeByDomain categorizes a document with the live categorizer for the
// domain. Unknown domains route to the fallback categorizer. The result's
// Source carries the origin categorizer's domain key.
func (r *Router) CategorizeByDomain(ctx context.Context, document, domainKey string) domain.CategorizationResult {
	cat, ok := r.registry.Get(domainKey)
	if !ok {
		observability.FromContext(ctx).Debug("no categorizer for domain, routing to fallback",
			observability.String("domain", domainKey))
		cat, ok = r.registry.Get(categorizer.DomainFallback)
	}

	if !ok {
		// Nothing registered at all. Degenerate but well-defined.
		return domain.CategorizationResult{
			Domain:     domainKey,
			Category:   domain.CategoryUnclassified,
			Confidence: 0.0,
			Source:     domainKey,
		}
	}

	category, confidence := cat.Categorize(ctx, document)

	return domain.CategorizationResult{
		Domain:     domainKey,
		Category:   category,
		Confidence: confidence,
		Source:     cat.Domain(),
	}
}
