// Package issuer holds the issuer record model and its storage contracts.
package issuer

import "time"

// IssuerType classifies an issuer by its market sector.
type IssuerType string

const (
	TypeCorporate    IssuerType = "Corporate"
	TypeMunicipality IssuerType = "Municipality"
	TypeSovereign    IssuerType = "Sovereign"
)

// IssuerRecord is an issuer awaiting or carrying enrichment. ISINs and Type
// stay unset until an enrichment run succeeds for the record; a rerun
// overwrites both deterministically. The record is owned by its caller for
// its whole lifetime - enrichment mutates fields in place and never reorders
// or removes records.
type IssuerRecord struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	ISINs      []string   `json:"isins,omitempty"`
	Type       IssuerType `json:"type,omitempty"`
	EnrichedAt *time.Time `json:"enriched_at,omitempty"`
}

// Enriched reports whether the record has been through a successful run.
func (r *IssuerRecord) Enriched() bool {
	return r.ISINs != nil && r.Type != ""
}
