package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/okrscore/internal/domain/types"
)

// EvaluationHandler accepts manual evaluations and manages drafts.
type EvaluationHandler struct {
	deps Dependencies
	responder
}

// HandlePostEvaluation handles POST /evaluations. A repeated rating by the
// same evaluator for the same target is answered with 409.
func (h *EvaluationHandler) HandlePostEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_evaluation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := h.readBody(w, r, evaluationSchema)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var req types.EvaluationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, op, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	ev, err := h.deps.SubmitEvaluation(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// HandleEvaluation serves one evaluation:
//
//	GET    /evaluations/{id}
//	PUT    /evaluations/{id}
//	DELETE /evaluations/{id}?evaluatorId=...
//	POST   /evaluations/{id}/submit
func (h *EvaluationHandler) HandleEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluation"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/evaluations/"), "/")
	if id, ok := strings.CutSuffix(rest, "/submit"); ok {
		h.submitDraft(w, r, id)
		return
	}
	id, err := pathID(r.URL.Path, "/evaluations/")
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		ev, err := h.deps.Evaluation(r.Context(), id)
		if err != nil {
			h.fail(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		if err := h.deps.DeleteEvaluation(r.Context(), id, r.URL.Query().Get("evaluatorId")); err != nil {
			h.fail(w, r, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (h *EvaluationHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_evaluation"
	body, err := h.readBody(w, r, evaluationUpdateSchema)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var req types.EvaluationUpdate
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, op, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	ev, err := h.deps.UpdateEvaluation(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *EvaluationHandler) submitDraft(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.submit_draft"
	if r.Method != http.MethodPost || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	body, err := h.readBody(w, r, ownerSchema)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var req struct {
		EvaluatorID string `json:"evaluatorId"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, op, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	ev, err := h.deps.SubmitDraft(r.Context(), id, req.EvaluatorID)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleListForTarget handles GET /evaluations/target/{type}/{id}.
func (h *EvaluationHandler) HandleListForTarget(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_evaluations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/evaluations/target/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		h.fail(w, r, op, fmt.Errorf("%w: %s", ErrUnsupportedPath, r.URL.Path))
		return
	}
	out, err := h.deps.EvaluationsForTarget(r.Context(), parts[0], parts[1])
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
