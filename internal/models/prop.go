package models

// PropCategory classifies a prop definition for variance adjustment
type PropCategory string

const (
	CategoryStandard PropCategory = "standard"
	CategoryAltLines PropCategory = "alt_lines"
	CategorySpecial  PropCategory = "special"
)

// DefaultProbThreshold is the probability cutoff applied when a
// definition does not override it.
const DefaultProbThreshold = 0.85

// PropDefinition describes a single statistical proposition offered for a
// player (e.g. "Pass Yards over N"). Definitions are seeded at startup from
// the catalog and never mutated afterwards.
type PropDefinition struct {
	Name          string       `json:"name" validate:"required"`
	StatKey       string       `json:"stat_key" validate:"required"`
	Threshold     *float64     `json:"threshold,omitempty"`
	ProbThreshold float64      `json:"prob_threshold" validate:"gte=0,lte=1"`
	AltLines      []float64    `json:"alt_lines,omitempty"`
	Category      PropCategory `json:"category" validate:"required,oneof=standard alt_lines special"`
}

// CandidateLines returns the threshold lines to evaluate for this
// definition: the alt lines when present, otherwise the single threshold.
// An empty result means the definition is not currently priceable.
func (p PropDefinition) CandidateLines() []float64 {
	if len(p.AltLines) > 0 {
		return p.AltLines
	}
	if p.Threshold != nil {
		return []float64{*p.Threshold}
	}
	return nil
}

// Cutoff returns the definition's probability cutoff, falling back to the
// default when unset.
func (p PropDefinition) Cutoff() float64 {
	if p.ProbThreshold > 0 {
		return p.ProbThreshold
	}
	return DefaultProbThreshold
}
