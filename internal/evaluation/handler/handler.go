package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"jobeval/internal/evaluation"
	dErrors "jobeval/pkg/domain-errors"
	"jobeval/pkg/platform/httputil"
	"jobeval/pkg/requestcontext"
)

// Service defines the interface for evaluation operations.
type Service interface {
	Evaluate(ctx context.Context, app evaluation.JobApplication) (*evaluation.Decision, error)
}

// Handler wires evaluation endpoints to the evaluation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an evaluation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts evaluation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/applications/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /v1/applications/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.service.Evaluate(ctx, req.ToApplication())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidArgument) {
			h.logger.InfoContext(ctx, "evaluation rejected",
				"request_id", requestID,
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "evaluation failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evaluation served",
		"request_id", requestID,
		"evaluation_id", decision.ID,
		"result", decision.Result.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}
