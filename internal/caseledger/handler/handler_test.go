package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"koe/internal/caseledger/handler/mocks"
	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	"koe/internal/caseledger/service"
	"koe/internal/platform/ratelimit"
	dErrors "koe/pkg/domain-errors"
	authmw "koe/pkg/platform/middleware/auth"
	"koe/pkg/testutil"
)

type tokenValidator map[string]*authmw.JWTClaims

func (v tokenValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if c, ok := v[token]; ok {
		return c, nil
	}
	return nil, errors.New("unknown token")
}

var (
	contractor = models.Actor{ID: "te-1", Role: models.RoleContractor}
	owner      = models.Actor{ID: "bh-1", Role: models.RoleOwner}
	admin      = models.Actor{ID: "pl-1", Role: models.RoleAdministrator}
)

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := tokenValidator{
		"te": {ActorID: contractor.ID, Role: string(contractor.Role)},
		"bh": {ActorID: owner.ID, Role: string(owner.Role)},
		"pl": {ActorID: admin.ID, Role: string(admin.Role)},
	}
	s.router = chi.NewRouter()
	New(s.service, logger, nil, validator).Register(s.router)
}

func (s *HandlerSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	return testutil.Do(s.router, testutil.NewRequest(s.T(), method, path, token, body))
}

func applied(opts []service.SubmitOption) service.Submission {
	var sub service.Submission
	for _, opt := range opts {
		opt(&sub)
	}
	return sub
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return testutil.DecodeBody[map[string]any](t, w)
}

func (s *HandlerSuite) TestRequiresToken() {
	testutil.AssertError(s.T(), s.do(http.MethodGet, "/cases/c-1", "", ""), http.StatusUnauthorized, "unauthorized")
	testutil.AssertError(s.T(), s.do(http.MethodGet, "/cases/c-1", "forged", ""), http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestCreateCase() {
	s.service.EXPECT().
		CreateCase(gomock.Any(), contractor, "p-1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Actor, _ string, p models.CaseCreated, opts ...service.SubmitOption) (*service.Result, error) {
			s.Equal("Endret fundamentering", p.Title)
			sub := applied(opts)
			s.Equal("7a0c1c56-0000-4000-8000-000000000001", sub.EventID)
			s.Equal("first notice", sub.Comment)
			s.Nil(sub.ExpectedVersion)
			return &service.Result{To: models.StatusBasisPending, State: projection.State{CaseID: "c-1"}}, nil
		})

	w := s.do(http.MethodPost, "/projects/p-1/cases", "te", `{
		"event_id": "7a0c1c56-0000-4000-8000-000000000001",
		"comment": "first notice",
		"data": {"title": "Endret fundamentering"}
	}`)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("application/json", w.Header().Get("Content-Type"))
	body := decode(s.T(), w)
	s.Equal(string(models.StatusBasisPending), body["to"])
}

func (s *HandlerSuite) TestSubmitPassesExpectedVersion() {
	s.service.EXPECT().
		SubmitBasisResponse(gomock.Any(), owner, "c-1", models.BasisResponse{Outcome: models.BasisRejected, Rationale: "not a change"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Actor, _ string, _ models.BasisResponse, opts ...service.SubmitOption) (*service.Result, error) {
			sub := applied(opts)
			s.Require().NotNil(sub.ExpectedVersion)
			s.Equal(int64(3), *sub.ExpectedVersion)
			s.Equal("evt-2", sub.ReferencesEventID)
			return &service.Result{}, nil
		})

	w := s.do(http.MethodPost, "/cases/c-1/basis/response", "bh", `{
		"expected_version": 3,
		"references_event_id": "evt-2",
		"data": {"outcome": "rejected", "rationale": "not a change"}
	}`)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerSuite) TestAdaptedOperations() {
	s.service.EXPECT().WithdrawCase(gomock.Any(), contractor, "c-1", "settled on site", gomock.Any()).Return(&service.Result{}, nil)
	s.service.EXPECT().AddClaimToChangeOrder(gomock.Any(), owner, "eo-1", "c-2", gomock.Any()).Return(&service.Result{}, nil)
	s.service.EXPECT().UpdateAccelerationCost(gomock.Any(), contractor, "fc-1", int64(250000), "week 3", gomock.Any()).Return(&service.Result{}, nil)
	s.service.EXPECT().CreateChangeOrder(gomock.Any(), owner, "p-1", "EO 12", []string{"c-1", "c-2"}, gomock.Any()).Return(&service.Result{}, nil)

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/cases/c-1/withdraw", "te", `{"data":{"reason":"settled on site"}}`).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/cases/eo-1/change-order/claims", "bh", `{"data":{"case_id":"c-2"}}`).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/cases/fc-1/acceleration/cost", "te", `{"data":{"accrued_cost":250000,"comment":"week 3"}}`).Code)
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/projects/p-1/change-orders", "bh", `{"data":{"title":"EO 12","basis_case_ids":["c-1","c-2"]}}`).Code)
}

func (s *HandlerSuite) TestErrorMapping() {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", dErrors.Validation("invalid payload", dErrors.FieldError{Field: "rationale", Message: "required"}), http.StatusUnprocessableEntity, "validation_failed", false},
		{"illegal transition", dErrors.New(dErrors.CodeIllegalTransition, "not allowed"), http.StatusConflict, string(dErrors.CodeIllegalTransition), false},
		{"concurrency", dErrors.New(dErrors.CodeConcurrency, "stale"), http.StatusConflict, "concurrency_conflict", true},
		{"not found", dErrors.New(dErrors.CodeNotFound, "no case"), http.StatusNotFound, string(dErrors.CodeNotFound), false},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "role"), http.StatusForbidden, string(dErrors.CodeForbidden), false},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "internal_error", false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.service.EXPECT().CloseCase(gomock.Any(), owner, "c-1", "done", gomock.Any()).Return(nil, tt.err)

			w := s.do(http.MethodPost, "/cases/c-1/close", "bh", `{"data":{"reason":"done"}}`)

			s.Equal(tt.status, w.Code)
			body := decode(s.T(), w)
			s.Equal(tt.code, body["error"])
			if tt.retryable {
				s.Equal(true, body["retryable"])
			} else {
				s.NotContains(body, "retryable")
			}
			if tt.name == "internal" {
				s.NotContains(w.Body.String(), "db down")
			}
		})
	}
}

func (s *HandlerSuite) TestMalformedBody() {
	w := s.do(http.MethodPost, "/cases/c-1/close", "bh", `{"data":{"reason":"done"},"extra":1}`)
	testutil.AssertError(s.T(), w, http.StatusBadRequest, "bad_request")

	w = s.do(http.MethodPost, "/cases/c-1/close", "bh", `{"data":`)
	testutil.AssertError(s.T(), w, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestQueries() {
	s.service.EXPECT().GetCaseState(gomock.Any(), "c-1").Return(projection.State{CaseID: "c-1", Version: 4}, nil)
	s.service.EXPECT().GetTimeline(gomock.Any(), "c-1").Return([]projection.Entry{{}, {}}, nil)
	s.service.EXPECT().ListCases(gomock.Any(), "p-1").Return([]service.CaseSummary{{CaseID: "c-1"}}, nil)

	w := s.do(http.MethodGet, "/cases/c-1", "te", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(4, decode(s.T(), w)["version"])

	w = s.do(http.MethodGet, "/cases/c-1/timeline", "te", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode(s.T(), w)["entries"], 2)

	w = s.do(http.MethodGet, "/projects/p-1/cases", "bh", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode(s.T(), w)["cases"], 1)
}

func (s *HandlerSuite) TestFindRelatedKindFilter() {
	kind := models.RelationAcceleration
	s.service.EXPECT().FindRelated(gomock.Any(), "c-1", &kind).Return(service.Related{}, nil)
	s.service.EXPECT().FindRelated(gomock.Any(), "c-1", (*models.RelationKind)(nil)).Return(service.Related{}, nil)

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/cases/c-1/related?kind=acceleration", "te", "").Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/cases/c-1/related", "te", "").Code)
}

func (s *HandlerSuite) TestMaintenanceRequiresAdministrator() {
	w := s.do(http.MethodPost, "/projects/p-1/relations/rebuild", "bh", "")
	testutil.AssertError(s.T(), w, http.StatusForbidden, "forbidden")

	s.service.EXPECT().RebuildRelations(gomock.Any(), "p-1").Return(3, nil)
	w = s.do(http.MethodPost, "/projects/p-1/relations/rebuild", "pl", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(3, decode(s.T(), w)["relations"])

	s.service.EXPECT().RecordPassiveAcceptances(gomock.Any(), "p-1").Return(1, nil)
	w = s.do(http.MethodPost, "/projects/p-1/passive-acceptances", "pl", "")
	s.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(s.T(), 1, decode(s.T(), w)["recorded"])
}

func (s *HandlerSuite) TestWriteLimit() {
	limited := chi.NewRouter()
	limiter := ratelimit.New(ratelimit.NewInMemory(), 1, time.Minute)
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), nil,
		tokenValidator{"te": {ActorID: contractor.ID, Role: string(contractor.Role)}},
		WithWriteLimit(limiter.Writes),
	).Register(limited)

	s.service.EXPECT().WithdrawCase(gomock.Any(), contractor, "c-1", "duplicate", gomock.Any()).Return(&service.Result{}, nil)
	s.service.EXPECT().GetCaseState(gomock.Any(), "c-1").Return(projection.State{CaseID: "c-1"}, nil)

	body := `{"data":{"reason":"duplicate"}}`
	s.Equal(http.StatusOK, testutil.Do(limited, testutil.NewRequest(s.T(), http.MethodPost, "/cases/c-1/withdraw", "te", body)).Code)
	w := testutil.Do(limited, testutil.NewRequest(s.T(), http.MethodPost, "/cases/c-1/withdraw", "te", body))
	testutil.AssertError(s.T(), w, http.StatusTooManyRequests, "rate_limit_exceeded")
	s.Equal(http.StatusOK, testutil.Do(limited, testutil.NewRequest(s.T(), http.MethodGet, "/cases/c-1", "te", "")).Code)
}
