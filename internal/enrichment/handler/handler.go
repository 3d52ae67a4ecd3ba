// Package handler wires enrichment endpoints to the enrichment service.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"isinhub/internal/enrichment"
	"isinhub/internal/issuer"
	"isinhub/internal/sector"
	dErrors "isinhub/pkg/domain-errors"
	"isinhub/pkg/httputil"
	"isinhub/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks Service,IssuerReader

// Service defines the enrichment operations the HTTP layer needs.
type Service interface {
	RunStored(ctx context.Context, sectors sector.Context) (*enrichment.Report, error)
}

// IssuerReader is the read-only slice of the issuer store exposed over HTTP.
type IssuerReader interface {
	List(ctx context.Context) ([]*issuer.IssuerRecord, error)
	Get(ctx context.Context, id int64) (*issuer.IssuerRecord, error)
}

// Handler delegates to the enrichment service without embedding business
// logic, so transport concerns stay isolated.
type Handler struct {
	service Service
	issuers IssuerReader
	logger  *slog.Logger
}

// New constructs an enrichment handler with its dependencies.
func New(service Service, issuers IssuerReader, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		issuers: issuers,
		logger:  logger,
	}
}

// Register mounts the issuer read endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/issuers", h.HandleListIssuers)
	r.Get("/issuers/{id}", h.HandleGetIssuer)
}

// RegisterProtected mounts the mutating endpoints; the router wraps these
// with the auth middleware.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/enrichment/run", h.HandleRun)
}

// HandleRun handles POST /enrichment/run requests.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.Decode[RunRequest](w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.service.RunStored(ctx, sector.Context(req.MarketSector))
	if err != nil {
		h.logger.ErrorContext(ctx, "enrichment run failed",
			"request_id", requestID,
			"subject", requestcontext.Subject(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "enrichment run triggered",
		"request_id", requestID,
		"subject", requestcontext.Subject(ctx),
		"run_id", report.RunID,
		"succeeded", len(report.Succeeded()),
		"failed", len(report.Failed()),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}

// HandleListIssuers handles GET /issuers requests.
func (h *Handler) HandleListIssuers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.issuers.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "issuer listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

// HandleGetIssuer handles GET /issuers/{id} requests.
func (h *Handler) HandleGetIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "issuer id must be an integer"))
		return
	}

	record, err := h.issuers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, issuer.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "issuer not found"))
			return
		}
		h.logger.ErrorContext(ctx, "issuer lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"issuer_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}
