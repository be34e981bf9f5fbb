package catalog

// statPair is a normalized (sorted) pair of statistic keys.
type statPair struct {
	a, b string
}

func newStatPair(x, y string) statPair {
	if x > y {
		x, y = y, x
	}
	return statPair{a: x, b: y}
}

// CorrelationTable maps unordered pairs of statistic keys to a hand-curated
// correlation coefficient in [-1, 1]. Read-only after construction and safe
// for concurrent reads.
type CorrelationTable struct {
	coefficients map[statPair]float64
}

// NewCorrelationTable returns the built-in correlation coefficients.
func NewCorrelationTable() *CorrelationTable {
	t := &CorrelationTable{coefficients: make(map[statPair]float64)}
	t.set("passing_yards", "pass_attempts", 0.8)
	t.set("passing_yards", "pass_completions", 0.85)
	t.set("pass_attempts", "pass_completions", 0.9)
	return t
}

// NewCorrelationTableFrom builds a table from explicit entries, mostly for
// alternative sports data sets and tests.
func NewCorrelationTableFrom(entries map[[2]string]float64) *CorrelationTable {
	t := &CorrelationTable{coefficients: make(map[statPair]float64, len(entries))}
	for pair, coef := range entries {
		t.set(pair[0], pair[1], coef)
	}
	return t
}

func (t *CorrelationTable) set(x, y string, coef float64) {
	t.coefficients[newStatPair(x, y)] = coef
}

// Coefficient returns the correlation coefficient recorded for the pair of
// statistic keys, in either order. The second return reports whether an
// entry exists; absent pairs are treated as uncorrelated by callers.
func (t *CorrelationTable) Coefficient(x, y string) (float64, bool) {
	coef, ok := t.coefficients[newStatPair(x, y)]
	return coef, ok
}
