package handler

import (
	"time"

	"jobeval/internal/evaluation"
)

// EvaluateResponse is the HTTP response for POST /v1/applications/evaluate.
type EvaluateResponse struct {
	ID             string    `json:"id"`
	Result         string    `json:"result"`
	ValidationMode string    `json:"validation_mode"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
}

// FromDecision converts a domain Decision to an HTTP response.
func FromDecision(d *evaluation.Decision) *EvaluateResponse {
	return &EvaluateResponse{
		ID:             d.ID.String(),
		Result:         d.Result.String(),
		ValidationMode: d.ValidationMode.String(),
		EvaluatedAt:    d.EvaluatedAt,
	}
}
