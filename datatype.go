// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

// TypeCode identifies the kind of a CascadeDB column type.
type TypeCode string

const (
	// TypeCodeInt64 is a 64 bit signed integer column, carried on the wire as a decimal string.
	TypeCodeInt64 TypeCode = "INT64"
	// TypeCodeString is a text column.
	TypeCodeString TypeCode = "STRING"
	// TypeCodeBool is a boolean column.
	TypeCodeBool TypeCode = "BOOL"
	// TypeCodeFloat64 is a 64 bit IEEE float column. NaN and infinities travel as strings.
	TypeCodeFloat64 TypeCode = "FLOAT64"
	// TypeCodeTimestamp is a point-in-time column, carried as an RFC 3339 string.
	TypeCodeTimestamp TypeCode = "TIMESTAMP"
	// TypeCodeDate is a calendar date column, carried as a YYYY-MM-DD string.
	TypeCodeDate TypeCode = "DATE"
	// TypeCodeBytes is a binary column, carried base64 encoded.
	TypeCodeBytes TypeCode = "BYTES"
	// TypeCodeArray is a repeated column. ArrayElementType gives the element type.
	TypeCodeArray TypeCode = "ARRAY"
)

// Type describes the type of a single CascadeDB column.
type Type struct {
	Code             TypeCode `json:"code"`
	ArrayElementType *Type    `json:"arrayElementType,omitempty"`
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Code == TypeCodeArray {
		return "ARRAY<" + t.ArrayElementType.String() + ">"
	}
	return string(t.Code)
}

// FieldType describes one column of a row: its name and its type. Columns
// produced by expressions may have an empty name.
type FieldType struct {
	Name string `json:"name,omitempty"`
	Type *Type  `json:"type"`
}

// StructType describes the shape of a row as an ordered list of columns.
type StructType struct {
	Fields []*FieldType `json:"fields,omitempty"`
}

// Int64Type returns the type descriptor for an INT64 column.
func Int64Type() *Type {
	return &Type{Code: TypeCodeInt64}
}

// StringType returns the type descriptor for a STRING column.
func StringType() *Type {
	return &Type{Code: TypeCodeString}
}

// BoolType returns the type descriptor for a BOOL column.
func BoolType() *Type {
	return &Type{Code: TypeCodeBool}
}

// Float64Type returns the type descriptor for a FLOAT64 column.
func Float64Type() *Type {
	return &Type{Code: TypeCodeFloat64}
}

// TimestampType returns the type descriptor for a TIMESTAMP column.
func TimestampType() *Type {
	return &Type{Code: TypeCodeTimestamp}
}

// DateType returns the type descriptor for a DATE column.
func DateType() *Type {
	return &Type{Code: TypeCodeDate}
}

// BytesType returns the type descriptor for a BYTES column.
func BytesType() *Type {
	return &Type{Code: TypeCodeBytes}
}

// ArrayType returns the type descriptor for an ARRAY column with the given
// element type.
func ArrayType(elem *Type) *Type {
	return &Type{Code: TypeCodeArray, ArrayElementType: elem}
}
