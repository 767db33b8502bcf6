package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/okrscore/internal/domain/scoring"
)

// KeyResultHandler scores ad-hoc key results.
type KeyResultHandler struct {
	deps Dependencies
	responder
}

type keyResultRequest struct {
	MetricType  string             `json:"metricType"`
	ActualValue string             `json:"actualValue"`
	Thresholds  scoring.Thresholds `json:"thresholds"`
}

// HandleScoreKeyResult handles POST /score/key-result.
func (h *KeyResultHandler) HandleScoreKeyResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_key_result"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := h.readBody(w, r, keyResultSchema)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var req keyResultRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, op, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	res, err := h.deps.ScoreKeyResult(r.Context(), scoring.KeyResultInput{
		MetricType:  scoring.ParseMetricType(req.MetricType),
		ActualValue: req.ActualValue,
		Thresholds:  req.Thresholds,
	})
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
