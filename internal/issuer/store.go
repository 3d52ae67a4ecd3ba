package issuer

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no issuer exists for the requested ID.
var ErrNotFound = errors.New("issuer not found")

// Store persists issuer records. Implementations must keep listing order
// stable across enrichment runs.
type Store interface {
	// List returns all issuers in insertion order.
	List(ctx context.Context) ([]*IssuerRecord, error)

	// Get returns the issuer with the given ID or ErrNotFound.
	Get(ctx context.Context, id int64) (*IssuerRecord, error)

	// Save upserts an issuer record.
	Save(ctx context.Context, record *IssuerRecord) error

	// SaveEnrichment overwrites the enrichment fields of an existing issuer.
	SaveEnrichment(ctx context.Context, id int64, isins []string, typ IssuerType, enrichedAt time.Time) error
}
