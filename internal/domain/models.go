package domain

import "time"

// Vector is a fixed-dimension embedding vector. All vectors compared against
// each other must share the same dimension.
type Vector []float64

// Category is a single entry of a domain taxonomy.
type Category struct {
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
}

// Taxonomy maps category name to its definition for one domain.
type Taxonomy map[string]Category

// Sentinel category names returned when no real category can be chosen.
const (
	CategoryUnclassified = "unclassified"
	CategoryUnknown      = "unknown"
)

// Source values attached to categorization results.
const (
	SourceEmbedding         = "embedding"
	SourceLLMFallbackPrefix = "llm_fallback_"
)

// CategorizationResult is the outcome of a single categorization call.
type CategorizationResult struct {
	Domain     string  `json:"domain"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// LogEntry is one appended record of a categorization outcome. The trainer
// mines these records for high-confidence examples.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Domain     string    `json:"domain"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	InputText  string    `json:"input_text"`
}

// RetrainReport summarizes one batch retrain run.
type RetrainReport struct {
	Succeeded []string
	Skipped   []string
	Failed    map[string]error
}

// SuccessCount returns the number of domains whose categorizer was rebuilt
// and swapped.
func (r *RetrainReport) SuccessCount() int {
	return len(r.Succeeded)
}
