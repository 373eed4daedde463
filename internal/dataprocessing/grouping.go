package dataprocessing

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

// Category is one clinical drug class and the substance columns it folds.
type Category struct {
	Name       string   `yaml:"name" json:"name" validate:"required"`
	Substances []string `yaml:"substances" json:"substances" validate:"dive,required"`
}

// Grouping is the ordered list of categories. The order drives chart axes.
type Grouping struct {
	Categories []Category `yaml:"categories" json:"categories" validate:"required,min=1,dive"`
}

// DefaultGrouping returns the production drug grouping.
func DefaultGrouping() Grouping {
	return Grouping{Categories: []Category{
		{Name: "Fentanyl-like", Substances: []string{
			"Fentanyl", "2'-Fluorofentanyl", "2'-Methyl fentanyl", "Acetyl fentanyl",
			"Benzyl fentanyl", "Despropionyl fentanyl (4-ANPP)", "Fentanyl (hydroxy)",
			"Furanylethyl fentanyl", "Methyl acetyl fentanyl", "N-(2C-C) fentanyl",
			"N-(2C-D) fentanyl", "N-Methyl norfentanyl", "N-methyl fentanyl",
			"N-methyl norfentanyl", "Norfentanyl", "Phenethyl 4-ANPP",
		}},
		{Name: "MDMA-like", Substances: []string{
			"MDMA", "MDA", "2,3 MDMA", "3,4-Dimethoxyamphetamine", "Amphetamine", "MBDB",
			"MDA 2-aldoxime analogue", "MDDMA", "MDEA", "MMDPPA", "N-formyl-MDA",
		}},
		{Name: "Heroin-like", Substances: []string{
			"Heroin", "6-MAM", "Acetyl codeine",
		}},
		{Name: "Cocaine-like", Substances: []string{
			"Cocaine", "Anhydroecgonine methyl ester (AEME)", "Benzoylecgonine",
			"Benzoylecgonine ethyl ester", "Ecgonine", "Ecgonine methyl ester (EME)",
			"Methylecgonine", "Pseudoecgonine methyl ester", "Tropacocaine",
		}},
		{Name: "Ketamine-like", Substances: []string{
			"Ketamine", "Deschloroketamine", "Ketamine isomer", "Ketamine-related", "Norketamine",
		}},
		{Name: "Carfentanil-like", Substances: []string{
			"Carfentanil",
		}},
		{Name: "Nitazene-class opioids", Substances: []string{
			"5-Aminoisotonitazene", "Etodesnitazene", "Etonitazepyne", "Isotonitazene/protonitazene",
		}},
		{Name: "Xylazine-like", Substances: []string{
			"Xylazine",
		}},
	}}
}

// LoadGroupingFile reads a YAML grouping and validates its shape.
func LoadGroupingFile(path string) (Grouping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grouping{}, apperrors.NewConfigError("failed to read grouping file", err).
			WithContext("path", path)
	}

	var g Grouping
	if err := yaml.UnmarshalStrict(data, &g); err != nil {
		return Grouping{}, apperrors.NewConfigError("failed to parse grouping file", err).
			WithContext("path", path)
	}
	if err := g.Validate(); err != nil {
		return Grouping{}, err
	}
	return g, nil
}

// Names returns the category names in declared order.
func (g Grouping) Names() []string {
	out := make([]string, len(g.Categories))
	for i, c := range g.Categories {
		out[i] = c.Name
	}
	return out
}

// Substances returns every substance column named by the grouping, in
// declared order.
func (g Grouping) Substances() []string {
	var out []string
	for _, c := range g.Categories {
		out = append(out, c.Substances...)
	}
	return out
}

// Validate checks the grouping's shape independent of any table: names are
// present and unique, and no substance is listed twice.
func (g Grouping) Validate() error {
	if err := validator.New().Struct(g); err != nil {
		return apperrors.NewConfigError("invalid drug grouping", err)
	}

	names := make(map[string]struct{}, len(g.Categories))
	owner := make(map[string]string)
	for _, c := range g.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return apperrors.NewConfigError("category name is blank", nil)
		}
		if _, dup := names[c.Name]; dup {
			return apperrors.NewConfigError(fmt.Sprintf("category %q is declared twice", c.Name), nil).
				WithContext("category", c.Name)
		}
		names[c.Name] = struct{}{}

		for _, s := range c.Substances {
			if prev, dup := owner[s]; dup {
				return apperrors.NewConfigError(
					fmt.Sprintf("substance %q is listed in both %q and %q", s, prev, c.Name), nil).
					WithContext("substance", s)
			}
			owner[s] = c.Name
		}
	}

	for _, c := range g.Categories {
		if other, clash := owner[c.Name]; clash {
			return apperrors.NewConfigError(
				fmt.Sprintf("category %q collides with a substance of %q", c.Name, other), nil).
				WithContext("category", c.Name)
		}
	}
	return nil
}

// ValidateAgainst checks the grouping against a cleaned table's columns:
// every substance must exist and no category name may reuse a column that
// survives grouping.
func (g Grouping) ValidateAgainst(columns []string) error {
	if err := g.Validate(); err != nil {
		return err
	}

	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}

	var missing []string
	for _, s := range g.Substances() {
		if _, ok := present[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("grouping references unknown substance columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing", missing)
	}

	for _, c := range g.Categories {
		if _, ok := present[c.Name]; ok {
			return apperrors.NewConfigError(
				fmt.Sprintf("category %q collides with an existing column", c.Name), nil).
				WithContext("category", c.Name)
		}
	}
	return nil
}
