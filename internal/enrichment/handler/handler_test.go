package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"isinhub/internal/enrichment"
	"isinhub/internal/enrichment/handler/mocks"
	"isinhub/internal/issuer"
	"isinhub/internal/isin"
	"isinhub/internal/platform/logger"
	"isinhub/internal/sector"
	"isinhub/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	issuers *mocks.MockIssuerReader
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.issuers = mocks.NewMockIssuerReader(ctrl)

	h := New(s.service, s.issuers, logger.NewNop())
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterProtected(s.router)
}

func (s *HandlerSuite) TestHandleRun() {
	report := &enrichment.Report{
		RunID:      "run-123",
		StartedAt:  time.Now(),
		FinishedAt: time.Now().Add(120 * time.Millisecond),
		Outcomes: []enrichment.Outcome{
			{IssuerID: 1, State: enrichment.StateSucceeded, Collected: true, Duration: 40 * time.Millisecond},
			{IssuerID: 2, State: enrichment.StateFailed, Collected: true,
				Err: isin.NewFetchError(isin.ErrorNotFound, 2, "issuer unknown to directory", nil)},
		},
	}

	s.service.EXPECT().
		RunStored(gomock.Any(), sector.Context{"Sovereign"}).
		Return(report, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrichment/run",
		RunRequest{MarketSector: []string{"Sovereign"}})
	req = testutil.WithSubject(req, "ops@example.com")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	resp := testutil.DecodeJSONBody[RunResponse](s.T(), w)
	s.Equal("run-123", resp.RunID)
	s.Equal(1, resp.Succeeded)
	s.Equal(1, resp.Failed)
	s.Require().Len(resp.Outcomes, 2)
	s.Equal(int64(2), resp.Outcomes[1].IssuerID)
	s.Equal("failed", resp.Outcomes[1].State)
	s.Contains(resp.Outcomes[1].Error, "issuer unknown")
}

func (s *HandlerSuite) TestHandleRunDefaultsToEmptySectorContext() {
	s.service.EXPECT().
		RunStored(gomock.Any(), sector.Context(nil)).
		Return(&enrichment.Report{RunID: "run-empty"}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrichment/run", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestHandleRunMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/enrichment/run", strings.NewReader(`{"market_sector":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestHandleRunServiceError() {
	s.service.EXPECT().
		RunStored(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("load issuer collection: connection refused"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrichment/run", RunRequest{})
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *HandlerSuite) TestHandleListIssuers() {
	at := time.Now()
	s.issuers.EXPECT().
		List(gomock.Any()).
		Return([]*issuer.IssuerRecord{
			{ID: 1, Name: "Acme", ISINs: []string{"US1"}, Type: issuer.TypeCorporate, EnrichedAt: &at},
			{ID: 2, Name: "Globex"},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/issuers", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	resp := testutil.DecodeJSONBody[[]IssuerResponse](s.T(), w)
	s.Require().Len(resp, 2)
	s.Equal("Acme", resp[0].Name)
	s.Equal("Corporate", resp[0].Type)
	s.Empty(resp[1].Type)
}

func (s *HandlerSuite) TestHandleGetIssuer() {
	s.issuers.EXPECT().
		Get(gomock.Any(), int64(7)).
		Return(&issuer.IssuerRecord{ID: 7, Name: "Initech"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/issuers/7", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	resp := testutil.DecodeJSONBody[IssuerResponse](s.T(), w)
	s.Equal(int64(7), resp.ID)
}

func (s *HandlerSuite) TestHandleGetIssuerNotFound() {
	s.issuers.EXPECT().
		Get(gomock.Any(), int64(404)).
		Return(nil, issuer.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/issuers/404", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestHandleGetIssuerBadID() {
	req := httptest.NewRequest(http.MethodGet, "/issuers/not-a-number", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}
