// Package audit captures the enrichment event trail. Events are emitted from
// domain logic and fanned out to sinks (Kafka in production, memory in tests).
package audit

import "time"

// Action names an auditable enrichment event.
type Action string

const (
	ActionIssuerEnriched   Action = "issuer_enriched"
	ActionEnrichmentFailed Action = "issuer_enrichment_failed"
	ActionRunCompleted     Action = "enrichment_run_completed"
)

// Event records one enrichment outcome. Keep it transport-agnostic so sinks
// can fan out.
type Event struct {
	RunID     string    `json:"run_id"`
	IssuerID  int64     `json:"issuer_id,omitempty"`
	Action    Action    `json:"action"`
	Subject   string    `json:"subject,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
