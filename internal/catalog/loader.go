package catalog

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/1ogcotu/s-b-a/internal/models"
)

type catalogFile struct {
	Sports map[string][]categoryFile `mapstructure:"sports"`
}

type categoryFile struct {
	Name  string     `mapstructure:"name"`
	Props []propFile `mapstructure:"props"`
}

type propFile struct {
	Name          string    `mapstructure:"name"`
	StatKey       string    `mapstructure:"stat_key"`
	Threshold     *float64  `mapstructure:"threshold"`
	ProbThreshold float64   `mapstructure:"prob_threshold"`
	AltLines      []float64 `mapstructure:"alt_lines"`
	Category      string    `mapstructure:"category"`
}

// LoadCatalog reads prop definitions from a YAML artifact, overriding the
// built-in defaults. Definitions omitting prob_threshold fall back to the
// default cutoff; omitting category defaults to standard.
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog file: %w", err)
	}
	if len(file.Sports) == 0 {
		return nil, fmt.Errorf("catalog file %s defines no sports", path)
	}

	sports := make(map[string][]CategoryProps, len(file.Sports))
	for sport, categories := range file.Sports {
		converted := make([]CategoryProps, 0, len(categories))
		for _, category := range categories {
			if category.Name == "" {
				return nil, fmt.Errorf("sport %q has a category with no name", sport)
			}
			props := make([]models.PropDefinition, 0, len(category.Props))
			for _, prop := range category.Props {
				def, err := prop.toDefinition()
				if err != nil {
					return nil, fmt.Errorf("sport %q category %q: %w", sport, category.Name, err)
				}
				props = append(props, def)
			}
			converted = append(converted, CategoryProps{Name: category.Name, Props: props})
		}
		sports[sport] = converted
	}

	return NewCatalogFrom(sports), nil
}

func (p propFile) toDefinition() (models.PropDefinition, error) {
	if p.Name == "" || p.StatKey == "" {
		return models.PropDefinition{}, fmt.Errorf("prop %q: name and stat_key are required", p.Name)
	}

	category := models.PropCategory(p.Category)
	switch category {
	case models.CategoryStandard, models.CategoryAltLines, models.CategorySpecial:
	case "":
		category = models.CategoryStandard
	default:
		return models.PropDefinition{}, fmt.Errorf("prop %q: unknown category %q", p.Name, p.Category)
	}

	threshold := p.ProbThreshold
	if threshold == 0 {
		threshold = models.DefaultProbThreshold
	}

	return models.PropDefinition{
		Name:          p.Name,
		StatKey:       p.StatKey,
		Threshold:     p.Threshold,
		ProbThreshold: threshold,
		AltLines:      p.AltLines,
		Category:      category,
	}, nil
}
