package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2023-01-05", day(2023, 1, 5), true},
		{" 2023-01-05 ", day(2023, 1, 5), true},
		{"2023-01-05 13:45:00", time.Date(2023, 1, 5, 13, 45, 0, 0, time.UTC), true},
		{"1/5/2023", day(2023, 1, 5), true},
		{"01/05/2023", day(2023, 1, 5), true},
		{"1/5/23", day(2023, 1, 5), true},
		{"2023-01-05 10:30", time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"1/5/23 10:30", time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"1/5/23 10:30:15", time.Date(2023, 1, 5, 10, 30, 15, 0, time.UTC), true},
		{"01-05-23 10:30", time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"2023/01/05", day(2023, 1, 5), true},
		{"2023.01.05", day(2023, 1, 5), true},
		{"05.01.2023", day(2023, 1, 5), true},
		{"January 5, 2023", day(2023, 1, 5), true},
		{"Jan 5, 2023", day(2023, 1, 5), true},
		{"5 Jan 2023", day(2023, 1, 5), true},
		{"05-Jan-2023", day(2023, 1, 5), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"2023-13-01", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDateCell(t *testing.T) {
	tests := []struct {
		name string
		v    table.Value
		want time.Time
		ok   bool
	}{
		{"time passes through", table.Time(day(2023, 1, 5)), day(2023, 1, 5), true},
		{"string", table.String("1/5/23 10:30"), time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"excel serial", table.Number(44931), day(2023, 1, 5), true},
		{"excel serial with time", table.Number(44931.4375), time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"serial zero", table.Number(0), time.Time{}, false},
		{"negative serial", table.Number(-3), time.Time{}, false},
		{"serial past 9999", table.Number(20230105), time.Time{}, false},
		{"nan", table.Number(math.NaN()), time.Time{}, false},
		{"null", table.Null(), time.Time{}, false},
		{"bool", table.Bool(true), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.v)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			ts, isTime := got.AsTime()
			assert.True(t, isTime)
			assert.WithinDuration(t, tt.want, ts, time.Second)
		})
	}
}
