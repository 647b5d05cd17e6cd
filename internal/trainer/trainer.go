// Package trainer implements the self-learning loop: mine high-confidence
// categorization logs, merge the mined examples into the taxonomy, rebuild
// the domain categorizer and hot-swap it into the registry.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
)

const (
	// DefaultMinConfidence is the floor for mining log entries as examples.
	DefaultMinConfidence = 0.8

	// minExampleLength is the minimum trimmed text length of a usable example.
	minExampleLength = 10
)

// ErrUnknownDomain indicates no categorizer builder exists for a domain.
var ErrUnknownDomain = errors.New("no categorizer builder for domain")

// Builder constructs a categorizer for a domain from a taxonomy. Builders are
// resolved once at startup, one per known domain.
type Builder func(ctx context.Context, domainKey string, taxonomy domain.Taxonomy) domain.Categorizer

// NewBuilders returns the builder for every built-in domain.
func NewBuilders(embedder domain.Embedder) map[string]Builder {
	builders := make(map[string]Builder)

	for _, domainKey := range categorizer.Domains() {
		if domainKey == categorizer.DomainFallback {
			builders[domainKey] = func(ctx context.Context, _ string, taxonomy domain.Taxonomy) domain.Categorizer {
				return categorizer.NewFallback(ctx, taxonomy, embedder)
			}
			continue
		}

		builders[domainKey] = func(ctx context.Context, domainKey string, taxonomy domain.Taxonomy) domain.Categorizer {
			return categorizer.New(ctx, domainKey, taxonomy, embedder)
		}
	}

	return builders
}

// Trainer mutates taxonomies from observed traffic and swaps rebuilt
// categorizers into the registry. One retrain handles one domain; a batch run
// isolates per-domain failures.
type Trainer struct {
	registry      domain.CategorizerRegistry
	store         domain.TaxonomyStore
	log           domain.ResultLog
	builders      map[string]Builder
	minConfidence float64
}

// NewTrainer creates a self-learning trainer.
func NewTrainer(
	registry domain.CategorizerRegistry,
	store domain.TaxonomyStore,
	log domain.ResultLog,
	builders map[string]Builder,
	minConfidence float64,
) *Trainer {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	return &Trainer{
		registry:      registry,
		store:         store,
		log:           log,
		builders:      builders,
		minConfidence: minConfidence,
	}
}

// RetrainDomain runs the mine -> merge -> rebuild -> swap cycle for one
// domain. It returns false with a nil error when mining yields nothing (the
// registry is left untouched) and an error when the domain is unknown or a
// step fails.
func (t *Trainer) RetrainDomain(ctx context.Context, domainKey string) (bool, error) {
	logger := observability.FromContext(ctx)

	builder, ok := t.builders[domainKey]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownDomain, domainKey)
	}

	mined, err := t.mine(ctx, domainKey)
	if err != nil {
		return false, fmt.Errorf("mining failed: %w", err)
	}

	if len(mined) == 0 {
		logger.Info("no new examples mined, skipping retrain",
			observability.String("domain", domainKey))
		return false, nil
	}

	merged, err := t.merge(ctx, domainKey, mined)
	if err != nil {
		return false, fmt.Errorf("merging failed: %w", err)
	}

	rebuilt := builder(ctx, domainKey, merged)
	t.registry.Register(domainKey, rebuilt)

	logger.Info("retrained domain categorizer",
		observability.String("domain", domainKey),
		observability.Int("mined_categories", len(mined)),
		observability.Int("taxonomy_size", len(merged)))

	return true, nil
}

// RetrainAll retrains every known domain independently. A single domain's
// failure is recorded and skipped, never raised.
func (t *Trainer) RetrainAll(ctx context.Context) *domain.RetrainReport {
	logger := observability.FromContext(ctx)
	start := time.Now()

	report := &domain.RetrainReport{
		Succeeded: nil,
		Skipped:   nil,
		Failed:    make(map[string]error),
	}

	domains := make([]string, 0, len(t.builders))
	for domainKey := range t.builders {
		domains = append(domains, domainKey)
	}
	sort.Strings(domains)

	for _, domainKey := range domains {
		swapped, err := t.RetrainDomain(ctx, domainKey)
		switch {
		case err != nil:
			logger.Warn("retrain failed for domain",
				observability.String("domain", domainKey),
				observability.Error(err))
			report.Failed[domainKey] = err
		case swapped:
			report.Succeeded = append(report.Succeeded, domainKey)
		default:
			report.Skipped = append(report.Skipped, domainKey)
		}
	}

	logger.Info("batch retrain completed",
		observability.Int("succeeded", report.SuccessCount()),
		observability.Int("skipped", len(report.Skipped)),
		observability.Int("failed", len(report.Failed)),
		observability.Duration("elapsed", time.Since(start)))

	return report
}

// mine reads the domain's log and groups qualifying input texts by category.
// An entry qualifies when its confidence meets the floor, its category and
// text are non-empty, and the trimmed text is long enough to be meaningful.
func (t *Trainer) mine(ctx context.Context, domainKey string) (map[string][]string, error) {
	entries, err := t.log.Entries(ctx, domainKey)
	if err != nil {
		return nil, err
	}

	mined := make(map[string][]string)
	for _, entry := range entries {
		if entry.Confidence < t.minConfidence {
			continue
		}
		if entry.Category == "" || entry.InputText == "" {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(entry.InputText)) <= minExampleLength {
			continue
		}

		mined[entry.Category] = append(mined[entry.Category], entry.InputText)
	}

	return mined, nil
}

// merge folds mined examples into the domain's persisted taxonomy and saves
// it. Examples are deduplicated in first-seen order so repeated merges stay
// deterministic. New categories get a placeholder description until someone
// writes a real one.
func (t *Trainer) merge(ctx context.Context, domainKey string, mined map[string][]string) (domain.Taxonomy, error) {
	taxonomy, err := t.store.Load(ctx, domainKey)
	if err != nil {
		observability.FromContext(ctx).Warn("could not load taxonomy, merging into empty one",
			observability.String("domain", domainKey),
			observability.Error(err))
		taxonomy = nil
	}

	if taxonomy == nil {
		taxonomy = make(domain.Taxonomy)
	}

	for name, texts := range mined {
		category, exists := taxonomy[name]
		if !exists {
			category = domain.Category{
				Description: fmt.Sprintf("Auto-generated category for %s", name),
				Examples:    nil,
			}
		}

		category.Examples = dedupe(append(category.Examples, texts...))
		taxonomy[name] = category
	}

	if err := t.store.Save(ctx, domainKey, taxonomy); err != nil {
		return nil, err
	}

	return taxonomy, nil
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
