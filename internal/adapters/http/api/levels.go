package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/okrscore/internal/domain/levels"
)

// LevelsHandler serves the level configuration.
type LevelsHandler struct {
	deps Dependencies
	responder
}

type levelsResponse struct {
	Levels   []levels.ScoreLevel `json:"levels"`
	Defaults bool                `json:"defaults"`
}

// HandleLevels handles GET and PUT /levels.
func (h *LevelsHandler) HandleLevels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.replace(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *LevelsHandler) get(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_levels"
	rows, defaults, err := h.deps.Levels(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, levelsResponse{Levels: rows, Defaults: defaults})
}

func (h *LevelsHandler) replace(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_levels"
	body, err := h.readBody(w, r, levelsSchema)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var rows []levels.ScoreLevel
	if err := json.Unmarshal(body, &rows); err != nil {
		h.fail(w, r, op, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := h.deps.ReplaceLevels(r.Context(), rows); err != nil {
		h.fail(w, r, op, err)
		return
	}
	h.get(w, r)
}

// HandleReset handles POST /levels/reset.
func (h *LevelsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_levels"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.ResetLevels(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, levelsResponse{Levels: rows})
}
