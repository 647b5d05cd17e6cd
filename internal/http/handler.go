package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/agent"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/trainer"
	"go.uber.org/zap"
)

// Handler handles HTTP requests.
type Handler struct {
	agent   *agent.Agent
	trainer *trainer.Trainer
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(agent *agent.Agent, trainer *trainer.Trainer) *Handler {
	return &Handler{
		agent:   agent,
		trainer: trainer,
	}
}

// CategorizeRequest is the payload of POST /v1/categorize.
type CategorizeRequest struct {
	Text   string `json:"text"`
	Domain string `json:"domain"`
}

// RetrainRequest is the payload of POST /v1/retrain. An empty domain retrains
// every known domain.
type RetrainRequest struct {
	Domain string `json:"domain"`
}

// RetrainResponse reports the outcome of a retrain call.
type RetrainResponse struct {
	Succeeded []string          `json:"succeeded"`
	Skipped   []string          `json:"skipped"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// HandleCategorize processes categorization requests.
func (h *Handler) HandleCategorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Early validation.
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse request.
	var req CategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	if req.Domain == "" {
		req.Domain = categorizer.DomainFallback
	}

	// Inject domain into context for downstream logging.
	ctx = observability.WithDomain(ctx, req.Domain)

	logger := observability.FromContext(ctx)
	logger.Info("categorization request received",
		zap.String("domain", req.Domain),
		zap.Int("text_length", len(req.Text)),
	)

	result := h.agent.CategorizeWithFallback(ctx, req.Text, req.Domain)

	logger.Info("categorization completed",
		zap.String("category", result.Category),
		zap.Float64("confidence", result.Confidence),
		zap.String("source", result.Source),
	)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleRetrain triggers a retrain of one domain, or all domains when the
// request names none.
func (h *Handler) HandleRetrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RetrainRequest
	if r.Body != nil {
		// Empty body means retrain everything.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	logger := observability.FromContext(ctx)

	resp := RetrainResponse{
		Succeeded: []string{},
		Skipped:   []string{},
		Failed:    map[string]string{},
	}

	if req.Domain != "" {
		ctx = observability.WithDomain(ctx, req.Domain)

		swapped, err := h.trainer.RetrainDomain(ctx, req.Domain)
		switch {
		case err != nil:
			resp.Failed[req.Domain] = err.Error()
		case swapped:
			resp.Succeeded = append(resp.Succeeded, req.Domain)
		default:
			resp.Skipped = append(resp.Skipped, req.Domain)
		}
	} else {
		report := h.trainer.RetrainAll(ctx)
		resp.Succeeded = append(resp.Succeeded, report.Succeeded...)
		resp.Skipped = append(resp.Skipped, report.Skipped...)
		for domainKey, err := range report.Failed {
			resp.Failed[domainKey] = err.Error()
		}
	}

	logger.Info("retrain request completed",
		zap.Int("succeeded", len(resp.Succeeded)),
		zap.Int("skipped", len(resp.Skipped)),
		zap.Int("failed", len(resp.Failed)),
	)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}
