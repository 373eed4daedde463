package dataprocessing

import (
	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// Group folds each category's substance columns into one boolean column
// named after the category, in declared order, and drops the substance
// columns. A category with no substances is false on every row.
//
// The grouping is checked against the table before anything is built, so an
// unknown substance or a name collision returns an error and no table.
func Group(cleaned *table.Table, g Grouping) (*table.Table, error) {
	if err := g.ValidateAgainst(cleaned.Columns()); err != nil {
		return nil, err
	}

	out := cleaned.Clone()
	for _, c := range g.Categories {
		idx := make([]int, len(c.Substances))
		for j, s := range c.Substances {
			idx[j], _ = out.Column(s)
		}

		values := make([]table.Value, out.Len())
		for i := range values {
			row := out.Row(i)
			hit := false
			for _, j := range idx {
				if row[j].Truthy() {
					hit = true
					break
				}
			}
			values[i] = table.Bool(hit)
		}

		if err := out.AddColumn(c.Name, values); err != nil {
			return nil, apperrors.NewConfigError("failed to add category column", err).
				WithContext("category", c.Name)
		}
		if err := out.DropColumns(c.Substances...); err != nil {
			return nil, apperrors.NewConfigError("failed to drop substance columns", err).
				WithContext("category", c.Name)
		}
	}
	return out, nil
}
