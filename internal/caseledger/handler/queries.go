package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"koe/internal/caseledger/models"
	dErrors "koe/pkg/domain-errors"
	"koe/pkg/platform/httputil"
)

func (h *Handler) handleGetCaseState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.GetCaseState(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetTimeline(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) handleFindRelated(w http.ResponseWriter, r *http.Request) {
	var kind *models.RelationKind
	if k := r.URL.Query().Get("kind"); k != "" {
		rk := models.RelationKind(k)
		kind = &rk
	}
	related, err := h.service.FindRelated(r.Context(), chi.URLParam(r, "caseID"), kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, related)
}

func (h *Handler) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListCases(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

// handleRebuildRelations is an administrator maintenance endpoint.
func (h *Handler) handleRebuildRelations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := requireAdministrator(actorFrom(ctx)); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.service.RebuildRelations(ctx, chi.URLParam(r, "projectID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"relations": n})
}

// handleRecordPassiveAcceptances runs the sweeper for one project on
// demand.
func (h *Handler) handleRecordPassiveAcceptances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := requireAdministrator(actorFrom(ctx)); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.service.RecordPassiveAcceptances(ctx, chi.URLParam(r, "projectID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"recorded": n})
}

func requireAdministrator(actor models.Actor) error {
	if actor.Role != models.RoleAdministrator {
		return dErrors.New(dErrors.CodeForbidden, "administrator role required")
	}
	return nil
}
