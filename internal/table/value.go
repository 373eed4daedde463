package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindTime
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a single cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	b    bool
	n    float64
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string cell.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool wraps a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric cell.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Time wraps a timestamp cell.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the raw string payload and whether v is a string cell.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBool returns the boolean payload and whether v is a bool cell.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether v is a number cell.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsTime returns the time payload and whether v is a time cell.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }

// truthyLiterals are the string spellings that mean "detected".
var truthyLiterals = map[string]struct{}{
	"true":     {},
	"t":        {},
	"yes":      {},
	"y":        {},
	"x":        {},
	"positive": {},
	"pos":      {},
	"detected": {},
}

// Truthy reports whether the cell counts as a positive flag: bool true, a
// non-zero number, or a string that is a known positive spelling or a
// non-zero numeral. Unrecognised strings are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		s := strings.ToLower(strings.TrimSpace(v.s))
		if _, ok := truthyLiterals[s]; ok {
			return true
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n != 0 && !math.IsNaN(n)
		}
		return false
	case KindTime:
		return !v.t.IsZero()
	default:
		return false
	}
}

// String formats the cell the way it is written to CSV exports.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindTime:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value (nil, string, bool,
// float64 or time.Time).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether two cells hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// MarshalJSON encodes the payload as its natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Parse infers a cell from a raw text field: empty is null, TRUE/FALSE are
// booleans, numeric text is a number and anything else stays a string.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Null()
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil && looksNumeric(s) {
		return Number(n)
	}
	return String(raw)
}

// looksNumeric rejects strings ParseFloat accepts but a spreadsheet would
// not treat as numbers, such as "Inf" or "NaN".
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == ',', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}
