package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// FrequencyCount returns the number of truthy rows per category, in the
// order the categories are given.
func FrequencyCount(t *table.Table, categories []string) ([]domain.CategoryCount, error) {
	idx, err := columnIndexes(t, categories)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CategoryCount, len(categories))
	for c, name := range categories {
		out[c].Category = name
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		for c, j := range idx {
			if row[j].Truthy() {
				out[c].Count++
			}
		}
	}
	return out, nil
}

// QuarterlyResample sums each category over consecutive 3-month windows.
//
// Windows are labelled by month end. The first label is the last day of the
// month holding the earliest date and each following label is three months
// later; the series stops at the first label on or after the latest date.
// A row belongs to the first window whose label is not before its date.
// Windows without rows are kept with zero counts. Rows with a null date are
// skipped.
func QuarterlyResample(t *table.Table, dateColumn string, categories []string) ([]domain.Bucket, error) {
	dateIdx, ok := t.Column(dateColumn)
	if !ok {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("date column %q is missing", dateColumn), table.ErrUnknownColumn).
			WithContext("column", dateColumn)
	}
	idx, err := columnIndexes(t, categories)
	if err != nil {
		return nil, err
	}

	type dated struct {
		day time.Time
		row int
	}
	var rows []dated
	for i := 0; i < t.Len(); i++ {
		v := t.Row(i)[dateIdx]
		if v.IsNull() {
			continue
		}
		ts, ok := v.AsTime()
		if !ok {
			return nil, apperrors.NewDataIntegrityError(
				fmt.Sprintf("%s value %q is not a date", dateColumn, v.String()), nil).
				WithContext("key", t.KeyOf(i).String())
		}
		rows = append(rows, dated{day: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), row: i})
	}
	if len(rows) == 0 {
		return []domain.Bucket{}, nil
	}

	first, last := rows[0].day, rows[0].day
	for _, r := range rows[1:] {
		if r.day.Before(first) {
			first = r.day
		}
		if r.day.After(last) {
			last = r.day
		}
	}

	anchorYear, anchorMonth := first.Year(), first.Month()
	window := func(day time.Time) int {
		months := (day.Year()-anchorYear)*12 + int(day.Month()) - int(anchorMonth)
		return (months + 2) / 3
	}

	buckets := make([]domain.Bucket, window(last)+1)
	for k := range buckets {
		buckets[k] = domain.Bucket{
			Start:  time.Date(anchorYear, anchorMonth+time.Month(3*k-2), 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(anchorYear, anchorMonth+time.Month(3*k+1), 0, 0, 0, 0, 0, time.UTC),
			Counts: make(map[string]int, len(categories)),
		}
		for _, name := range categories {
			buckets[k].Counts[name] = 0
		}
	}

	for _, r := range rows {
		b := &buckets[window(r.day)]
		row := t.Row(r.row)
		for c, j := range idx {
			if row[j].Truthy() {
				b.Counts[categories[c]]++
			}
		}
	}
	return buckets, nil
}

// SiteDistribution counts rows per testing site, largest first with ties
// broken by name. Null and blank sites are not counted, so every returned
// site has a positive count. Percent is the share of counted rows.
func SiteDistribution(t *table.Table, siteColumn string) ([]domain.SiteCount, error) {
	siteIdx, ok := t.Column(siteColumn)
	if !ok {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("site column %q is missing", siteColumn), table.ErrUnknownColumn).
			WithContext("column", siteColumn)
	}

	counts := make(map[string]int)
	total := 0
	for i := 0; i < t.Len(); i++ {
		site := strings.TrimSpace(t.Row(i)[siteIdx].String())
		if site == "" {
			continue
		}
		counts[site]++
		total++
	}

	out := make([]domain.SiteCount, 0, len(counts))
	for site, n := range counts {
		out = append(out, domain.SiteCount{
			Site:    site,
			Count:   n,
			Percent: float64(n) / float64(total) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Site < out[j].Site
	})
	return out, nil
}

func columnIndexes(t *table.Table, names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := t.Column(name)
		if !ok {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("category column %q is missing", name), table.ErrUnknownColumn).
				WithContext("column", name)
		}
		idx[i] = j
	}
	return idx, nil
}
