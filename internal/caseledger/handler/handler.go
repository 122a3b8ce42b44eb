package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	"koe/internal/caseledger/service"
	"koe/internal/platform/metrics"
	"koe/internal/platform/middleware"
	dErrors "koe/pkg/domain-errors"
	"koe/pkg/platform/httputil"
	authmw "koe/pkg/platform/middleware/auth"
	request "koe/pkg/platform/middleware/request"
	"koe/pkg/platform/middleware/requesttime"
	"koe/pkg/requestcontext"
)

// Service is the case ledger as used over HTTP.
type Service interface {
	CreateCase(ctx context.Context, actor models.Actor, projectID string, p models.CaseCreated, opts ...service.SubmitOption) (*service.Result, error)
	SubmitBasisResponse(ctx context.Context, actor models.Actor, caseID string, p models.BasisResponse, opts ...service.SubmitOption) (*service.Result, error)
	UpdateBasis(ctx context.Context, actor models.Actor, caseID string, p models.BasisUpdated, opts ...service.SubmitOption) (*service.Result, error)
	SubmitDeadlineClaim(ctx context.Context, actor models.Actor, caseID string, p models.DeadlineClaim, opts ...service.SubmitOption) (*service.Result, error)
	UpdateDeadlineClaim(ctx context.Context, actor models.Actor, caseID string, p models.DeadlineClaim, opts ...service.SubmitOption) (*service.Result, error)
	SubmitDeadlineResponse(ctx context.Context, actor models.Actor, caseID string, p models.DeadlineResponse, opts ...service.SubmitOption) (*service.Result, error)
	SubmitCompensationClaim(ctx context.Context, actor models.Actor, caseID string, p models.CompensationClaim, opts ...service.SubmitOption) (*service.Result, error)
	UpdateCompensationClaim(ctx context.Context, actor models.Actor, caseID string, p models.CompensationClaim, opts ...service.SubmitOption) (*service.Result, error)
	SubmitCompensationResponse(ctx context.Context, actor models.Actor, caseID string, p models.CompensationResponse, opts ...service.SubmitOption) (*service.Result, error)
	SubmitCombinedClaim(ctx context.Context, actor models.Actor, caseID string, p models.CombinedClaim, opts ...service.SubmitOption) (*service.Result, error)
	WithdrawCase(ctx context.Context, actor models.Actor, caseID, reason string, opts ...service.SubmitOption) (*service.Result, error)
	CloseCase(ctx context.Context, actor models.Actor, caseID, reason string, opts ...service.SubmitOption) (*service.Result, error)
	DeclareAcceleration(ctx context.Context, actor models.Actor, projectID string, req service.AccelerationRequest, opts ...service.SubmitOption) (*service.Result, error)
	UpdateAccelerationCost(ctx context.Context, actor models.Actor, caseID string, accruedCost int64, comment string, opts ...service.SubmitOption) (*service.Result, error)
	StopAcceleration(ctx context.Context, actor models.Actor, caseID, reason string, opts ...service.SubmitOption) (*service.Result, error)
	CreateChangeOrder(ctx context.Context, actor models.Actor, projectID, title string, basisCaseIDs []string, opts ...service.SubmitOption) (*service.Result, error)
	AddClaimToChangeOrder(ctx context.Context, actor models.Actor, caseID, claimCaseID string, opts ...service.SubmitOption) (*service.Result, error)
	IssueChangeOrder(ctx context.Context, actor models.Actor, caseID string, terms models.ChangeOrderTerms, opts ...service.SubmitOption) (*service.Result, error)
	AcceptChangeOrder(ctx context.Context, actor models.Actor, caseID, comment string, opts ...service.SubmitOption) (*service.Result, error)
	RejectChangeOrder(ctx context.Context, actor models.Actor, caseID, rationale string, opts ...service.SubmitOption) (*service.Result, error)
	ReviseChangeOrder(ctx context.Context, actor models.Actor, caseID string, terms models.ChangeOrderTerms, opts ...service.SubmitOption) (*service.Result, error)
	GetCaseState(ctx context.Context, caseID string) (projection.State, error)
	GetTimeline(ctx context.Context, caseID string) ([]projection.Entry, error)
	ListCases(ctx context.Context, projectID string) ([]service.CaseSummary, error)
	FindRelated(ctx context.Context, caseID string, kind *models.RelationKind) (service.Related, error)
	RebuildRelations(ctx context.Context, projectID string) (int, error)
	RecordPassiveAcceptances(ctx context.Context, projectID string) (int, error)
}

// Handler serves the case ledger endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator authmw.JWTValidator
	writeLimit   func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithWriteLimit installs a limiter on write requests. It runs after
// authentication so it can key on the actor.
func WithWriteLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.writeLimit = mw }
}

// New creates a new case ledger Handler.
func New(
	svc Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator authmw.JWTValidator,
	opts ...Option) *Handler {
	h := &Handler{
		logger:       logger,
		service:      svc,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the case ledger routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	ledger := chi.NewRouter()
	ledger.Use(request.Recovery(h.logger))
	ledger.Use(request.RequestID)
	ledger.Use(request.Logger(h.logger))
	ledger.Use(request.Timeout(30 * time.Second))
	ledger.Use(request.ContentTypeJSON)
	ledger.Use(middleware.LatencyMiddleware(h.metrics))
	ledger.Use(requesttime.Middleware)
	ledger.Use(authmw.RequireAuth(h.jwtValidator, h.logger))
	if h.writeLimit != nil {
		ledger.Use(h.writeLimit)
	}

	ledger.Route("/projects/{projectID}", func(p chi.Router) {
		p.Get("/cases", h.handleListCases)
		p.Post("/cases", handleSubmit(h, "projectID", http.StatusCreated, h.service.CreateCase))
		p.Post("/accelerations", handleSubmit(h, "projectID", http.StatusCreated, h.service.DeclareAcceleration))
		p.Post("/change-orders", handleSubmit(h, "projectID", http.StatusCreated, h.createChangeOrder))
		p.Post("/relations/rebuild", h.handleRebuildRelations)
		p.Post("/passive-acceptances", h.handleRecordPassiveAcceptances)
	})

	ledger.Route("/cases/{caseID}", func(c chi.Router) {
		c.Get("/", h.handleGetCaseState)
		c.Get("/timeline", h.handleGetTimeline)
		c.Get("/related", h.handleFindRelated)

		c.Post("/basis/response", handleSubmit(h, "caseID", http.StatusOK, h.service.SubmitBasisResponse))
		c.Post("/basis/update", handleSubmit(h, "caseID", http.StatusOK, h.service.UpdateBasis))
		c.Post("/claims", handleSubmit(h, "caseID", http.StatusOK, h.service.SubmitCombinedClaim))
		c.Post("/deadline/claim", handleSubmit(h, "caseID", http.StatusOK, h.service.SubmitDeadlineClaim))
		c.Post("/deadline/revision", handleSubmit(h, "caseID", http.StatusOK, h.service.UpdateDeadlineClaim))
		c.Post("/deadline/response", handleSubmit(h, "caseID", http.StatusOK, h.service.SubmitDeadlineResponse))
		c.Post("/compensation/claim", handleSubmit(h, "caseID", http.StatusOK, h.service.SubmitCompensationClaim))
		c.Post("/compensation/revision", handleSubmit(h, "caseID", http.StatusOK, h.service.UpdateCompensationClaim))
		c.Post("/compensation/response", handleSubmit(h, "caseID", http.StatusOK, h.service.SubmitCompensationResponse))
		c.Post("/acceleration/cost", handleSubmit(h, "caseID", http.StatusOK, h.updateAccelerationCost))
		c.Post("/acceleration/stop", handleSubmit(h, "caseID", http.StatusOK, h.stopAcceleration))
		c.Post("/change-order/claims", handleSubmit(h, "caseID", http.StatusOK, h.addClaimToChangeOrder))
		c.Post("/change-order/issue", handleSubmit(h, "caseID", http.StatusOK, h.service.IssueChangeOrder))
		c.Post("/change-order/revise", handleSubmit(h, "caseID", http.StatusOK, h.service.ReviseChangeOrder))
		c.Post("/change-order/accept", handleSubmit(h, "caseID", http.StatusOK, h.acceptChangeOrder))
		c.Post("/change-order/reject", handleSubmit(h, "caseID", http.StatusOK, h.rejectChangeOrder))
		c.Post("/withdraw", handleSubmit(h, "caseID", http.StatusOK, h.withdrawCase))
		c.Post("/close", handleSubmit(h, "caseID", http.StatusOK, h.closeCase))
	})

	r.Mount("/", ledger)
}

func actorFrom(ctx context.Context) models.Actor {
	return models.Actor{
		ID:   requestcontext.ActorID(ctx),
		Role: models.Role(requestcontext.ActorRole(ctx)),
	}
}

// writeError logs server side failures and writes err.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		h.logger.ErrorContext(ctx, "case ledger request failed",
			"request_id", request.GetRequestID(ctx),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	default:
		h.logger.InfoContext(ctx, "case ledger request rejected",
			"request_id", request.GetRequestID(ctx),
			"path", r.URL.Path,
			"code", dErrors.CodeOf(err),
		)
	}
	httputil.WriteError(w, err)
}
