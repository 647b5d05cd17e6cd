package domain

import "context"

// EmbeddingGenerator creates vector embeddings from text.
type EmbeddingGenerator interface {
	// Generate creates a vector embedding from text.
	Generate(ctx context.Context, text string) (Vector, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension.
	Dimension() int
}

// Embedder serves cached, never-failing embeddings to the categorization
// core. Implementations degrade to a deterministic fallback instead of
// returning an error.
type Embedder interface {
	// Embed returns the embedding for text. Always succeeds.
	Embed(ctx context.Context, text string) Vector

	// Dimension returns the vector dimension.
	Dimension() int
}

// Categorizer assigns a taxonomy category to a document.
type Categorizer interface {
	// Categorize returns the best-matching category and its confidence.
	Categorize(ctx context.Context, document string) (string, float64)

	// Domain returns the domain key this categorizer serves.
	Domain() string

	// Taxonomy returns the taxonomy this categorizer was built from.
	Taxonomy() Taxonomy
}

// CategorizerRegistry tracks the live categorizer per domain. Replacement is
// atomic: a concurrent reader sees either the old or the new instance, never
// a partially built one.
type CategorizerRegistry interface {
	// Register publishes a categorizer for a domain, replacing any previous one.
	Register(domain string, categorizer Categorizer)

	// Get retrieves the live categorizer for a domain.
	Get(domain string) (Categorizer, bool)

	// Domains returns all registered domain keys.
	Domains() []string
}

// TaxonomyStore persists per-domain taxonomies.
type TaxonomyStore interface {
	// Load reads the taxonomy for a domain. A missing taxonomy is not an
	// error: it returns (nil, nil).
	Load(ctx context.Context, domain string) (Taxonomy, error)

	// Save writes the taxonomy for a domain atomically.
	Save(ctx context.Context, domain string, taxonomy Taxonomy) error
}

// ResultLog is the per-domain append-only record of categorization outcomes.
type ResultLog interface {
	// Append records one categorization outcome.
	Append(ctx context.Context, entry LogEntry) error

	// Entries returns all recorded outcomes for a domain, oldest first.
	Entries(ctx context.Context, domain string) ([]LogEntry, error)
}

// TextGenerator is the generative-model collaborator used for low-confidence
// escalation.
type TextGenerator interface {
	// Generate sends a prompt and returns the raw model reply.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the generator identifier.
	Name() string
}
