// Package agent implements the second-level categorization agent: embedding
// categorization through the domain router with a best-effort generative
// model escalation for low-confidence results.
package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/routing"
)

// DefaultConfidenceThreshold is the similarity below which a result is
// escalated to the generative model.
const DefaultConfidenceThreshold = 0.6

// unparsableFallbackConfidence is assumed when the generative model replies
// without a readable payload.
const unparsableFallbackConfidence = 0.5

// Config holds agent settings.
type Config struct {
	ConfidenceThreshold float64 `env:"CATEGORIZATION_CONFIDENCE_THRESHOLD" envDefault:"0.6"`
	EnableLearning      bool    `env:"CATEGORIZATION_ENABLE_LEARNING"      envDefault:"true"`
}

// Agent orchestrates registry lookup, the confidence threshold, and the
// generative-model escalation. No error ever escapes to its callers: every
// degradation resolves to a valid result.
type Agent struct {
	router    *routing.Router
	registry  domain.CategorizerRegistry
	generator domain.TextGenerator
	log       domain.ResultLog
	config    Config
}

// NewAgent creates a second-level categorization agent. The generator and the
// log may be nil, which disables escalation and learning respectively.
func NewAgent(
	router *routing.Router,
	registry domain.CategorizerRegistry,
	generator domain.TextGenerator,
	log domain.ResultLog,
	config Config,
) *Agent {
	if config.ConfidenceThreshold <= 0 {
		config.ConfidenceThreshold = DefaultConfidenceThreshold
	}

	return &Agent{
		router:    router,
		registry:  registry,
		generator: generator,
		log:       log,
		config:    config,
	}
}

// Categorize delegates directly to the router, with no threshold logic.
func (a *Agent) Categorize(ctx context.Context, document, domainKey string) domain.CategorizationResult {
	result := a.router.CategorizeByDomain(ctx, document, domainKey)
	a.record(ctx, result, document)
	return result
}

// CategorizeWithFallback categorizes a document and escalates to the
// generative model when the embedding confidence is below the threshold. The
// escalated result is adopted only when it beats the original confidence or
// meets the threshold; any escalation failure keeps the original result.
func (a *Agent) CategorizeWithFallback(ctx context.Context, document, domainKey string) domain.CategorizationResult {
	logger := observability.FromContext(ctx)

	raw := a.router.CategorizeByDomain(ctx, document, domainKey)
	origin := raw.Source

	result := raw
	result.Source = domain.SourceEmbedding

	if result.Confidence >= a.config.ConfidenceThreshold {
		a.record(ctx, result, document)
		return result
	}

	logger.Info("confidence below threshold, escalating to generative model",
		observability.String("domain", domainKey),
		observability.Float64("confidence", result.Confidence),
		observability.Float64("threshold", a.config.ConfidenceThreshold))

	if a.generator == nil {
		a.record(ctx, result, document)
		return result
	}

	reply, err := a.generator.Generate(ctx, a.buildPrompt(document, domainKey))
	if err != nil {
		// Escalation is best-effort, never fatal.
		logger.Warn("generative fallback failed, keeping embedding result",
			observability.Error(err))
		a.record(ctx, result, document)
		return result
	}

	category, confidence := parseFallbackReply(reply)

	if confidence > result.Confidence || confidence >= a.config.ConfidenceThreshold {
		result.Category = category
		result.Confidence = confidence
		result.Source = domain.SourceLLMFallbackPrefix + origin

		logger.Info("adopted generative fallback result",
			observability.String("category", category),
			observability.Float64("confidence", confidence))
	}

	a.record(ctx, result, document)
	return result
}

// record appends the result to the per-domain log when learning is enabled.
// A logging failure never fails the categorization.
func (a *Agent) record(ctx context.Context, result domain.CategorizationResult, document string) {
	if !a.config.EnableLearning || a.log == nil {
		return
	}

	entry := domain.LogEntry{
		Timestamp:  time.Now().UTC(),
		Domain:     result.Domain,
		Category:   result.Category,
		Confidence: result.Confidence,
		Source:     result.Source,
		InputText:  document,
	}

	if err := a.log.Append(ctx, entry); err != nil {
		observability.FromContext(ctx).Warn("failed to log categorization result",
			observability.String("domain", result.Domain),
			observability.Error(err))
	}
}

// buildPrompt instructs the generative model to classify the document within
// the domain's taxonomy and reply with a small JSON payload.
func (a *Agent) buildPrompt(document, domainKey string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a document classifier for the %q domain.\n", domainKey)

	if cat, ok := a.registry.Get(domainKey); ok {
		names := make([]string, 0, len(cat.Taxonomy()))
		for name := range cat.Taxonomy() {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("Known categories:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %s\n", name, cat.Taxonomy()[name].Description)
		}
	}

	b.WriteString("\nClassify the following document into exactly one category.\n")
	b.WriteString("Reply with a JSON object: {\"category\": \"<name>\", \"confidence\": <0..1>}\n\n")
	b.WriteString("Document:\n")
	b.WriteString(document)

	return b.String()
}

// parseFallbackReply extracts the {category, confidence} payload from a
// free-form model reply. Absence of a readable payload is not an error: it
// degrades to a low-confidence unknown.
func parseFallbackReply(reply string) (string, float64) {
	payload := extractJSON(reply)
	if payload == "" || !gjson.Valid(payload) {
		return domain.CategoryUnknown, unparsableFallbackConfidence
	}

	parsed := gjson.Parse(payload)
	category := parsed.Get("category").String()
	confidence := parsed.Get("confidence").Float()

	if category == "" || confidence < 0 || confidence > 1 {
		return domain.CategoryUnknown, unparsableFallbackConfidence
	}

	return category, confidence
}

// extractJSON returns the outermost {...} block of the reply, tolerating
// code fences and surrounding prose.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return ""
	}

	return reply[start : end+1]
}
