package api

import (
	"net/http"
)

// ScoresHandler serves department and division scores.
type ScoresHandler struct {
	deps Dependencies
	responder
}

// HandleListDepartments handles GET /departments.
func (h *ScoresHandler) HandleListDepartments(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_departments"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out, err := h.deps.AllDepartmentScores(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetDepartment handles GET /departments/{id}.
func (h *ScoresHandler) HandleGetDepartment(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_department"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := pathID(r.URL.Path, "/departments/")
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	out, err := h.deps.DepartmentScore(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleListDivisions handles GET /divisions.
func (h *ScoresHandler) HandleListDivisions(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_divisions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out, err := h.deps.AllDivisionScores(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetDivision handles GET /divisions/{id}.
func (h *ScoresHandler) HandleGetDivision(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_division"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := pathID(r.URL.Path, "/divisions/")
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	out, err := h.deps.DivisionScore(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
