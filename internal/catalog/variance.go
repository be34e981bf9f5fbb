package catalog

import "github.com/1ogcotu/s-b-a/internal/models"

// VarianceFactorTable holds the multiplicative spread adjustments applied per
// prop category, plus the per-leg-count factors used when sizing parlays.
// Static and safe for concurrent reads.
type VarianceFactorTable struct {
	categories map[models.PropCategory]float64
	parlayLegs map[int]float64
}

// NewVarianceFactorTable returns the built-in variance factors.
func NewVarianceFactorTable() *VarianceFactorTable {
	return &VarianceFactorTable{
		categories: map[models.PropCategory]float64{
			models.CategoryStandard: 1.0,
			models.CategoryAltLines: 1.2,
			models.CategorySpecial:  1.5,
		},
		parlayLegs: map[int]float64{
			2: 1.1,
			3: 1.2,
			4: 1.3,
			5: 1.4,
		},
	}
}

// CategoryFactor returns the spread multiplier for a prop category. Unknown
// categories get the neutral factor.
func (t *VarianceFactorTable) CategoryFactor(category models.PropCategory) float64 {
	if factor, ok := t.categories[category]; ok {
		return factor
	}
	return 1.0
}

// ParlayFactor returns the variance multiplier for a parlay with the given
// number of legs. Leg counts beyond the table use the largest recorded
// factor; counts below two are not valid parlays and get the neutral factor.
func (t *VarianceFactorTable) ParlayFactor(legs int) float64 {
	if factor, ok := t.parlayLegs[legs]; ok {
		return factor
	}
	if legs < 2 {
		return 1.0
	}
	max := 1.0
	for _, factor := range t.parlayLegs {
		if factor > max {
			max = factor
		}
	}
	return max
}
