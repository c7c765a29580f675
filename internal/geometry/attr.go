package geometry

import "strconv"

// ValueKind discriminates the attribute value union.
type ValueKind int

// Attribute value kinds. Source attribute tables are duck-typed; values are
// narrowed to this union when records cross the ingestion boundary so that
// downstream code never re-validates.
const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged attribute value: string, number, bool, or null.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// Attrs maps attribute names to values.
type Attrs map[string]Value

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind reports which member of the union is set.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string member and whether it is set.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric member and whether it is set.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean member and whether it is set.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Interface returns the value as a plain Go value for JSON-ish encoders.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// ParseValue narrows a raw text field into the union: empty is null, then
// number, then bool, then string. Used when ingesting CSV and DBF records.
func ParseValue(raw string) Value {
	if raw == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(f)
	}
	switch raw {
	case "true", "TRUE", "True":
		return Bool(true)
	case "false", "FALSE", "False":
		return Bool(false)
	}
	return String(raw)
}
