package table

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the typed variant held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDate
)

// Value is a single typed cell. The zero value is the missing marker.
type Value struct {
	kind  Kind
	s     string
	i     int64
	f     float64
	b     bool
	t     time.Time
	clock bool // date carries a time-of-day component
}

// Missing returns the missing marker, distinct from the empty string.
func Missing() Value { return Value{} }

// String wraps a raw string cell.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer cell.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float wraps a float cell.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool wraps a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Date wraps a date cell. withClock marks a preserved time-of-day component.
func Date(t time.Time, withClock bool) Value {
	return Value{kind: KindDate, t: t, clock: withClock}
}

// Kind returns the variant tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// AsDate returns the date payload and whether a time-of-day is attached.
func (v Value) AsDate() (time.Time, bool, bool) { return v.t, v.clock, v.kind == KindDate }

// HasClock reports whether a date value carries a time-of-day component.
func (v Value) HasClock() bool { return v.kind == KindDate && v.clock }

// String renders the canonical text form of the value. Missing renders as
// the empty string; callers that must distinguish missing from "" check
// IsMissing first. Dates render as YYYY-MM-DD without the clock component.
func (v Value) String() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindString:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format("2006-01-02")
	}
	return ""
}

// ClockString renders the time-of-day of a date value as HH:MM:SS, or ""
// when no clock component is present.
func (v Value) ClockString() string {
	if !v.HasClock() {
		return ""
	}
	return v.t.Format("15:04:05")
}

// Key returns a kind-prefixed representation suitable for map keys, so a
// missing cell, the string "1" and the integer 1 never collide.
func (v Value) Key() string {
	switch v.kind {
	case KindMissing:
		return "\x00"
	case KindDate:
		if v.clock {
			return "d:" + v.t.Format("2006-01-02T15:04:05")
		}
		return "d:" + v.t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%d:%s", v.kind, v.String())
	}
}

// Equal reports exact equality of kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindMissing:
		return true
	case KindString:
		return v.s == o.s
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBoolean:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t) && v.clock == o.clock
	}
	return false
}

// KindFor maps a logical type to the cell kind its coerced values use.
func KindFor(lt LogicalType) Kind {
	switch lt {
	case TypeInteger:
		return KindInteger
	case TypeFloat:
		return KindFloat
	case TypeBoolean:
		return KindBoolean
	case TypeDate:
		return KindDate
	default:
		return KindString
	}
}
