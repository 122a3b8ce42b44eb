package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/service"
	"koe/pkg/platform/httputil"
)

// submitRequest is the envelope of every write. Data holds the typed
// payload; the other fields map onto submission options.
type submitRequest[T any] struct {
	EventID           string `json:"event_id,omitempty"`
	Comment           string `json:"comment,omitempty"`
	ReferencesEventID string `json:"references_event_id,omitempty"`
	ExpectedVersion   *int64 `json:"expected_version,omitempty"`
	Data              T      `json:"data"`
}

func (r submitRequest[T]) options() []service.SubmitOption {
	var opts []service.SubmitOption
	if r.EventID != "" {
		opts = append(opts, service.WithEventID(r.EventID))
	}
	if r.Comment != "" {
		opts = append(opts, service.WithComment(r.Comment))
	}
	if r.ReferencesEventID != "" {
		opts = append(opts, service.WithReference(r.ReferencesEventID))
	}
	if r.ExpectedVersion != nil {
		opts = append(opts, service.WithExpectedVersion(*r.ExpectedVersion))
	}
	return opts
}

type submitFunc[T any] func(ctx context.Context, actor models.Actor, id string, p T, opts ...service.SubmitOption) (*service.Result, error)

// handleSubmit decodes a submitRequest[T], calls op with the actor and the
// path parameter named param, and writes the result with status.
func handleSubmit[T any](h *Handler, param string, status int, op submitFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req submitRequest[T]
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		res, err := op(ctx, actorFrom(ctx), chi.URLParam(r, param), req.Data, req.options()...)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteJSON(w, status, res)
	}
}

type createChangeOrderRequest struct {
	Title        string   `json:"title"`
	BasisCaseIDs []string `json:"basis_case_ids"`
}

func (h *Handler) createChangeOrder(ctx context.Context, actor models.Actor, projectID string, p createChangeOrderRequest, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.CreateChangeOrder(ctx, actor, projectID, p.Title, p.BasisCaseIDs, opts...)
}

type addClaimRequest struct {
	CaseID string `json:"case_id"`
}

func (h *Handler) addClaimToChangeOrder(ctx context.Context, actor models.Actor, caseID string, p addClaimRequest, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.AddClaimToChangeOrder(ctx, actor, caseID, p.CaseID, opts...)
}

func (h *Handler) updateAccelerationCost(ctx context.Context, actor models.Actor, caseID string, p models.AccelerationCostUpdated, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.UpdateAccelerationCost(ctx, actor, caseID, p.AccruedCost, p.Comment, opts...)
}

func (h *Handler) stopAcceleration(ctx context.Context, actor models.Actor, caseID string, p models.AccelerationStopped, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.StopAcceleration(ctx, actor, caseID, p.Reason, opts...)
}

func (h *Handler) acceptChangeOrder(ctx context.Context, actor models.Actor, caseID string, p models.ChangeOrderAccepted, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.AcceptChangeOrder(ctx, actor, caseID, p.Comment, opts...)
}

func (h *Handler) rejectChangeOrder(ctx context.Context, actor models.Actor, caseID string, p models.ChangeOrderRejected, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.RejectChangeOrder(ctx, actor, caseID, p.Rationale, opts...)
}

func (h *Handler) withdrawCase(ctx context.Context, actor models.Actor, caseID string, p models.CaseWithdrawn, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.WithdrawCase(ctx, actor, caseID, p.Reason, opts...)
}

func (h *Handler) closeCase(ctx context.Context, actor models.Actor, caseID string, p models.CaseClosed, opts ...service.SubmitOption) (*service.Result, error) {
	return h.service.CloseCase(ctx, actor, caseID, p.Reason, opts...)
}
