package dataprocessing

import (
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// Date layouts seen in sheet exports, tried in order. Slashed and dashed
// dates are month-first, as spreadsheet exports in the source locale are US
// formatted. Dotted dates are day-first unless the year leads. The "1/2/06
// 15:04" form is how excelize renders Excel's built-in m/d/yy h:mm format.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/06 15:04",
	"1/2/06 15:04:05",
	"01-02-06",
	"01-02-06 15:04",
	"1-2-2006",
	"01-02-2006",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-06",
}

// parseDate converts a cell into a time cell. Time cells pass through
// unchanged and numbers are read as Excel date serials. The second result is
// false when the cell is null or does not match any known layout.
func parseDate(v table.Value) (table.Value, bool) {
	switch v.Kind() {
	case table.KindTime:
		return v, true
	case table.KindString:
		s, _ := v.AsString()
		t, ok := ParseDate(s)
		if !ok {
			return v, false
		}
		return table.Time(t), true
	case table.KindNumber:
		n, _ := v.AsNumber()
		t, ok := excelSerialDate(n)
		if !ok {
			return v, false
		}
		return table.Time(t), true
	default:
		return v, false
	}
}

// ParseDate parses s using the first matching layout in dateFormats.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Serial 1 is 1900-01-01 and 2958465 is 9999-12-31 in the 1900 date system.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// excelSerialDate converts an Excel 1900-system date serial, as found in
// unstyled workbook cells, to a time.
func excelSerialDate(n float64) (time.Time, bool) {
	if math.IsNaN(n) || n < minExcelSerial || n > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(n, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
