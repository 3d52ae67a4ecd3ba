package handler

import (
	"time"

	"isinhub/internal/enrichment"
	"isinhub/internal/issuer"
)

// RunRequest is the POST /enrichment/run body. The market sector context is
// shared read-only input for the whole run.
type RunRequest struct {
	MarketSector []string `json:"market_sector"`
}

// OutcomeResponse is one unit-of-work result in the run response.
type OutcomeResponse struct {
	IssuerID   int64  `json:"issuer_id"`
	State      string `json:"state"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// RunResponse summarizes an enrichment run.
type RunResponse struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	DurationMS int64             `json:"duration_ms"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Outcomes   []OutcomeResponse `json:"outcomes"`
}

// FromReport converts a domain report to its response shape.
func FromReport(report *enrichment.Report) RunResponse {
	outcomes := make([]OutcomeResponse, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		resp := OutcomeResponse{
			IssuerID:   o.IssuerID,
			State:      string(o.State),
			DurationMS: o.Duration.Milliseconds(),
		}
		if o.Err != nil {
			resp.Error = o.Err.Error()
		}
		outcomes = append(outcomes, resp)
	}

	return RunResponse{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		DurationMS: report.Duration().Milliseconds(),
		Succeeded:  len(report.Succeeded()),
		Failed:     len(report.Failed()),
		Outcomes:   outcomes,
	}
}

// IssuerResponse is the HTTP shape of an issuer record.
type IssuerResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	ISINs      []string   `json:"isins,omitempty"`
	Type       string     `json:"type,omitempty"`
	EnrichedAt *time.Time `json:"enriched_at,omitempty"`
}

// FromRecord converts one issuer record.
func FromRecord(record *issuer.IssuerRecord) IssuerResponse {
	return IssuerResponse{
		ID:         record.ID,
		Name:       record.Name,
		ISINs:      record.ISINs,
		Type:       string(record.Type),
		EnrichedAt: record.EnrichedAt,
	}
}

// FromRecords converts an issuer collection, preserving order.
func FromRecords(records []*issuer.IssuerRecord) []IssuerResponse {
	result := make([]IssuerResponse, 0, len(records))
	for _, record := range records {
		result = append(result, FromRecord(record))
	}
	return result
}
