// Package sector models the market-sector context an enrichment run
// classifies issuers against.
package sector

import "isinhub/internal/issuer"

// Context is an ordered sequence of market sector labels. It is read-only
// input shared by every unit of work in a run, so no synchronization is
// needed around it.
type Context []string

// Well-known sector labels with dedicated classifications.
const (
	LabelProvincesAndMunicipalities = "Provinces and Municipalities"
	LabelSovereign                  = "Sovereign"
)

// Classify derives an issuer type from the sector context. Precedence:
// an empty context and any unrecognized leading label both mean Corporate;
// the leading label decides otherwise.
func Classify(ctx Context) issuer.IssuerType {
	if len(ctx) == 0 {
		return issuer.TypeCorporate
	}
	switch ctx[0] {
	case LabelProvincesAndMunicipalities:
		return issuer.TypeMunicipality
	case LabelSovereign:
		return issuer.TypeSovereign
	default:
		return issuer.TypeCorporate
	}
}
