package core

import (
	"strconv"
	"strings"
)

// DataType is one of the source value representations a Variable can carry.
// Float is never converted to binary floating point: its literal ASCII
// decimal text is preserved end to end so legacy codes compare exactly
// (spec.md §3, §9 "Floats as ASCII").
type DataType string

const (
	DataTypeInteger DataType = "integer"
	DataTypeFloat   DataType = "float"
	DataTypeString  DataType = "string"
	DataTypeFixed   DataType = "fixed"
)

// ParseDataType normalizes a data-type token from a layout file or a Parquet
// footer's JSON metadata into a canonical DataType. Unrecognized tokens fall
// back to String, matching the permissive behavior of
// original_source/src/ipums_metadata_model.rs's `From<&str>` conversion.
func ParseDataType(raw string) DataType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "integer", "int", "i64", "int64":
		return DataTypeInteger
	case "float", "double":
		return DataTypeFloat
	case "fixed":
		return DataTypeFixed
	default:
		return DataTypeString
	}
}

// FixedPoint describes a scaled-integer representation: base raised to point
// gives the scale factor applied to the stored integer.
type FixedPoint struct {
	Point int
	Base  int
}

// Value is a single data value as read from a source file, preserving its
// representation per spec.md §3. Exactly one of the typed fields is
// meaningful, selected by Type.
type Value struct {
	Type    DataType
	Integer int64
	// Float holds the literal ASCII decimal text of a float value; it is
	// never parsed into float64 on the tabulation path.
	Float string
	// String holds raw bytes; UTF8 indicates whether they are UTF-8 text or
	// an 8-bit legacy encoding (spec.md §3).
	String []byte
	UTF8   bool
	Fixed  FixedPoint
}

// IntegerValue constructs an Integer-typed Value.
func IntegerValue(v int64) Value { return Value{Type: DataTypeInteger, Integer: v} }

// FloatValue constructs a Float-typed Value from its literal text.
func FloatValue(literal string) Value { return Value{Type: DataTypeFloat, Float: literal} }

// StringValue constructs a String-typed Value.
func StringValue(v []byte, utf8 bool) Value { return Value{Type: DataTypeString, String: v, UTF8: utf8} }

// Text renders the value as it would be compared against source data: the
// integer in base 10, the float literal unchanged, or the string bytes.
func (v Value) Text() string {
	switch v.Type {
	case DataTypeFloat:
		return v.Float
	case DataTypeString:
		return string(v.String)
	case DataTypeInteger:
		return strconv.FormatInt(v.Integer, 10)
	default:
		return ""
	}
}
