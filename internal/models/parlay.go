package models

import (
	"github.com/google/uuid"
)

// ParlayCandidate is a combination of accepted prop evaluations together with
// its derived joint probability and combined expected value. Legs are drawn
// without repetition from a single player's accepted props.
//
// CombinedProbability is a correlation-adjusted product of the leg
// probabilities and may exceed 1.0 when legs are strongly positively
// correlated; it is intentionally not clamped.
type ParlayCandidate struct {
	ID                  uuid.UUID        `json:"id"`
	Legs                []PropEvaluation `json:"legs" validate:"required,min=2"`
	CombinedProbability float64          `json:"combined_probability"`
	CombinedEV          float64          `json:"combined_ev"`
}

// LegCount returns the number of legs in the parlay.
func (p ParlayCandidate) LegCount() int {
	return len(p.Legs)
}

// LegNames returns the prop names of all legs, in combination order.
func (p ParlayCandidate) LegNames() []string {
	names := make([]string, len(p.Legs))
	for i, leg := range p.Legs {
		names[i] = leg.PropName
	}
	return names
}
