package models

// PropEvaluation is the scored result of running the stat model against a
// single (definition, line) pair for one player. Immutable once produced.
type PropEvaluation struct {
	PropName      string       `json:"prop_name" validate:"required"`
	StatKey       string       `json:"stat_key" validate:"required"`
	Line          float64      `json:"line"`
	Probability   float64      `json:"probability"`
	ExpectedValue float64      `json:"expected_value"`
	Trend         float64      `json:"trend"`
	Category      PropCategory `json:"category"`
}

// MeetsCutoff reports whether the evaluation clears the given probability
// cutoff.
func (e PropEvaluation) MeetsCutoff(cutoff float64) bool {
	return e.Probability >= cutoff
}
