// Package catalog holds the static prop definitions, correlation
// coefficients and variance factors used by the analysis pipeline.
package catalog

import (
	"fmt"

	"github.com/1ogcotu/s-b-a/internal/models"
)

// CategoryProps groups the ordered prop definitions of one category.
type CategoryProps struct {
	Name  string
	Props []models.PropDefinition
}

// Catalog is the static registry of prop definitions keyed by sport and
// category. It is built once at startup and safe for concurrent reads.
type Catalog struct {
	sports map[string][]CategoryProps
}

// NewCatalog returns a catalog seeded with the built-in prop definitions.
func NewCatalog() *Catalog {
	return &Catalog{sports: defaultDefinitions()}
}

// NewCatalogFrom builds a catalog from externally supplied definitions,
// e.g. loaded from a configuration artifact.
func NewCatalogFrom(sports map[string][]CategoryProps) *Catalog {
	return &Catalog{sports: sports}
}

// Definitions returns the ordered per-category definitions for a sport.
// Unknown sports fail with models.ErrSportNotFound: the catalog is a fixed
// closed set, so a miss is a caller error rather than an empty result.
func (c *Catalog) Definitions(sport string) ([]CategoryProps, error) {
	categories, ok := c.sports[sport]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrSportNotFound, sport)
	}
	return categories, nil
}

// CategoryDefinitions returns the definitions of a single category.
func (c *Catalog) CategoryDefinitions(sport, category string) ([]models.PropDefinition, error) {
	categories, err := c.Definitions(sport)
	if err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if cat.Name == category {
			return cat.Props, nil
		}
	}
	return nil, fmt.Errorf("%w: %q/%q", models.ErrCategoryNotFound, sport, category)
}

// Sports lists the sports the catalog covers.
func (c *Catalog) Sports() []string {
	sports := make([]string, 0, len(c.sports))
	for sport := range c.sports {
		sports = append(sports, sport)
	}
	return sports
}

func defaultDefinitions() map[string][]CategoryProps {
	return map[string][]CategoryProps{
		"football": {
			{
				Name: "passing",
				Props: []models.PropDefinition{
					{Name: "Pass Yards", StatKey: "passing_yards", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{200.5, 225.5, 250.5, 275.5, 300.5}, Category: models.CategoryStandard},
					{Name: "Pass TDs", StatKey: "passing_tds", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{0.5, 1.5, 2.5, 3.5}, Category: models.CategoryStandard},
					{Name: "Pass Attempts", StatKey: "pass_attempts", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{25.5, 30.5, 35.5, 40.5}, Category: models.CategoryStandard},
					{Name: "Pass Completions", StatKey: "pass_completions", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{15.5, 20.5, 25.5, 30.5}, Category: models.CategoryStandard},
					{Name: "Interceptions", StatKey: "interceptions", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{0.5, 1.5}, Category: models.CategoryStandard},
					{Name: "Longest Completion", StatKey: "longest_completion", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{20.5, 25.5, 30.5, 35.5}, Category: models.CategoryStandard},
					{Name: "First TD Pass", StatKey: "first_td_pass", ProbThreshold: models.DefaultProbThreshold, Category: models.CategorySpecial},
				},
			},
			{
				Name: "rushing",
				Props: []models.PropDefinition{
					{Name: "Rush Yards", StatKey: "rushing_yards", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{50.5, 75.5, 100.5}, Category: models.CategoryStandard},
					{Name: "Rush TDs", StatKey: "rushing_tds", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{0.5, 1.5}, Category: models.CategoryStandard},
				},
			},
			{
				Name: "receiving",
				Props: []models.PropDefinition{
					{Name: "Rec Yards", StatKey: "receiving_yards", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{50.5, 75.5, 100.5}, Category: models.CategoryStandard},
					{Name: "Rec TDs", StatKey: "receiving_tds", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{0.5, 1.5}, Category: models.CategoryStandard},
				},
			},
		},
		"basketball": {
			{
				Name: "scoring",
				Props: []models.PropDefinition{
					{Name: "Points", StatKey: "points", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{15.5, 20.5, 25.5}, Category: models.CategoryStandard},
					{Name: "Rebounds", StatKey: "rebounds", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{5.5, 7.5, 10.5}, Category: models.CategoryStandard},
					{Name: "Assists", StatKey: "assists", ProbThreshold: models.DefaultProbThreshold, AltLines: []float64{4.5, 6.5, 8.5}, Category: models.CategoryStandard},
				},
			},
		},
	}
}
