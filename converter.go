// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

const dateLayout = "2006-01-02"

// decodeValue converts one wire value into its Go representation according
// to the declared column type:
//
//	INT64     string payload            int64
//	STRING    string payload            string
//	BOOL      bool payload              bool
//	FLOAT64   number or special string  float64
//	TIMESTAMP RFC 3339 string payload   time.Time
//	DATE      YYYY-MM-DD string payload time.Time (midnight UTC)
//	BYTES     base64 string payload     *bytes.Reader
//	ARRAY     list payload              []any
//
// A null wire value decodes to nil whatever the declared type. A wire tag
// incompatible with the declared type fails with ErrCodeTypeMismatch; a
// compatible tag whose payload does not parse fails with
// ErrCodeMalformedValue.
func decodeValue(v *structpb.Value, t *Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NullValue); ok {
		return nil, nil
	}
	if t == nil {
		return nil, &CascadeError{
			Number:      ErrCodeInvalidRowType,
			SQLState:    SQLStateDataException,
			Message:     errMsgUnsupportedTypeCode,
			MessageArgs: []interface{}{t},
		}
	}
	switch t.Code {
	case TypeCodeInt64:
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		i, err := strconv.ParseInt(sv.StringValue, 10, 64)
		if err != nil {
			return nil, &CascadeError{
				Number:      ErrCodeMalformedValue,
				SQLState:    SQLStateInvalidCharacterValue,
				Message:     errMsgMalformedValue,
				MessageArgs: []interface{}{t, sv.StringValue},
			}
		}
		return i, nil
	case TypeCodeString:
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		return sv.StringValue, nil
	case TypeCodeBool:
		bv, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		return bv.BoolValue, nil
	case TypeCodeFloat64:
		switch fv := v.GetKind().(type) {
		case *structpb.Value_NumberValue:
			return fv.NumberValue, nil
		case *structpb.Value_StringValue:
			// IEEE special values cannot travel as JSON numbers
			switch fv.StringValue {
			case "NaN":
				return math.NaN(), nil
			case "Infinity":
				return math.Inf(1), nil
			case "-Infinity":
				return math.Inf(-1), nil
			}
			return nil, &CascadeError{
				Number:      ErrCodeMalformedValue,
				SQLState:    SQLStateInvalidCharacterValue,
				Message:     errMsgMalformedValue,
				MessageArgs: []interface{}{t, fv.StringValue},
			}
		}
		return nil, typeMismatchError(v, t)
	case TypeCodeTimestamp:
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		ts, err := time.Parse(time.RFC3339Nano, sv.StringValue)
		if err != nil {
			return nil, &CascadeError{
				Number:      ErrCodeMalformedValue,
				SQLState:    SQLStateInvalidDateTimeFormat,
				Message:     errMsgMalformedValue,
				MessageArgs: []interface{}{t, sv.StringValue},
			}
		}
		return ts, nil
	case TypeCodeDate:
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		d, err := time.Parse(dateLayout, sv.StringValue)
		if err != nil {
			return nil, &CascadeError{
				Number:      ErrCodeMalformedValue,
				SQLState:    SQLStateInvalidDateTimeFormat,
				Message:     errMsgMalformedValue,
				MessageArgs: []interface{}{t, sv.StringValue},
			}
		}
		return d, nil
	case TypeCodeBytes:
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		raw, err := base64.StdEncoding.DecodeString(sv.StringValue)
		if err != nil {
			return nil, &CascadeError{
				Number:      ErrCodeMalformedValue,
				SQLState:    SQLStateInvalidCharacterValue,
				Message:     errMsgMalformedValue,
				MessageArgs: []interface{}{t, sv.StringValue},
			}
		}
		return bytes.NewReader(raw), nil
	case TypeCodeArray:
		lv, ok := v.GetKind().(*structpb.Value_ListValue)
		if !ok {
			return nil, typeMismatchError(v, t)
		}
		if t.ArrayElementType == nil {
			return nil, &CascadeError{
				Number:   ErrCodeInvalidRowType,
				SQLState: SQLStateDataException,
				Message:  errMsgArrayMissingElement,
			}
		}
		elems := lv.ListValue.GetValues()
		// an empty wire list is an empty array, not null
		arr := make([]any, len(elems))
		for i, e := range elems {
			d, err := decodeValue(e, t.ArrayElementType)
			if err != nil {
				return nil, err
			}
			arr[i] = d
		}
		return arr, nil
	}
	return nil, &CascadeError{
		Number:      ErrCodeTypeMismatch,
		SQLState:    SQLStateDataException,
		Message:     errMsgUnsupportedTypeCode,
		MessageArgs: []interface{}{t},
	}
}

// decodeRow zips a slice of exactly len(fields) wire values against the row
// type and decodes each cell. A row type with no columns is rejected, the
// protocol cannot frame rows of width zero.
func decodeRow(values []*structpb.Value, fields []*FieldType) (*Row, error) {
	if len(fields) == 0 {
		return nil, &CascadeError{
			Number:   ErrCodeInvalidRowType,
			SQLState: SQLStateDataException,
			Message:  errMsgZeroWidthRowType,
		}
	}
	if len(values) != len(fields) {
		return nil, &CascadeError{
			Number:      ErrCodeTruncatedStream,
			SQLState:    SQLStateStringDataLengthMismatch,
			Message:     errMsgRowWidthMismatch,
			MessageArgs: []interface{}{len(values), len(fields)},
		}
	}
	decoded := make([]any, len(values))
	for i, v := range values {
		d, err := decodeValue(v, fields[i].Type)
		if err != nil {
			return nil, err
		}
		decoded[i] = d
	}
	return newRow(fields, decoded), nil
}

// encodeValue converts a Go value into its wire form according to the paired
// column type. nil encodes to a null wire value whatever the type.
// decodeValue(encodeValue(v, t), t) returns v again for every representable
// v, NaN excepted since NaN never compares equal.
func encodeValue(v any, t *Type) (*structpb.Value, error) {
	if v == nil {
		return structpb.NewNullValue(), nil
	}
	if t == nil {
		return nil, ErrCannotInferType
	}
	switch t.Code {
	case TypeCodeInt64:
		switch iv := v.(type) {
		case int64:
			return structpb.NewStringValue(strconv.FormatInt(iv, 10)), nil
		case int:
			return structpb.NewStringValue(strconv.FormatInt(int64(iv), 10)), nil
		}
	case TypeCodeString:
		if sv, ok := v.(string); ok {
			return structpb.NewStringValue(sv), nil
		}
	case TypeCodeBool:
		if bv, ok := v.(bool); ok {
			return structpb.NewBoolValue(bv), nil
		}
	case TypeCodeFloat64:
		if fv, ok := v.(float64); ok {
			return encodeFloat64(fv), nil
		}
	case TypeCodeTimestamp:
		if tv, ok := v.(time.Time); ok {
			return structpb.NewStringValue(tv.Format(time.RFC3339Nano)), nil
		}
	case TypeCodeDate:
		if tv, ok := v.(time.Time); ok {
			return structpb.NewStringValue(tv.Format(dateLayout)), nil
		}
	case TypeCodeBytes:
		switch bv := v.(type) {
		case []byte:
			return structpb.NewStringValue(base64.StdEncoding.EncodeToString(bv)), nil
		case io.Reader:
			raw, err := io.ReadAll(bv)
			if err != nil {
				return nil, fmt.Errorf("reading BYTES parameter: %w", err)
			}
			return structpb.NewStringValue(base64.StdEncoding.EncodeToString(raw)), nil
		}
	case TypeCodeArray:
		if t.ArrayElementType == nil {
			return nil, &CascadeError{
				Number:   ErrCodeInvalidRowType,
				SQLState: SQLStateDataException,
				Message:  errMsgArrayMissingElement,
			}
		}
		elems, ok := anySlice(v)
		if !ok {
			break
		}
		encoded := make([]*structpb.Value, len(elems))
		for i, e := range elems {
			ev, err := encodeValue(e, t.ArrayElementType)
			if err != nil {
				return nil, err
			}
			encoded[i] = ev
		}
		return structpb.NewListValue(&structpb.ListValue{Values: encoded}), nil
	}
	return nil, &CascadeError{
		Number:      ErrCodeTypeMismatch,
		SQLState:    SQLStateDataException,
		Message:     errMsgEncodeMismatch,
		MessageArgs: []interface{}{v, t},
	}
}

func encodeFloat64(f float64) *structpb.Value {
	switch {
	case math.IsNaN(f):
		return structpb.NewStringValue("NaN")
	case math.IsInf(f, 1):
		return structpb.NewStringValue("Infinity")
	case math.IsInf(f, -1):
		return structpb.NewStringValue("-Infinity")
	}
	return structpb.NewNumberValue(f)
}

// anySlice widens the supported typed slices to []any for array encoding.
func anySlice(v any) ([]any, bool) {
	switch sv := v.(type) {
	case []any:
		return sv, true
	case []int64:
		out := make([]any, len(sv))
		for i, e := range sv {
			out[i] = e
		}
		return out, true
	case []string:
		out := make([]any, len(sv))
		for i, e := range sv {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(sv))
		for i, e := range sv {
			out[i] = e
		}
		return out, true
	case []bool:
		out := make([]any, len(sv))
		for i, e := range sv {
			out[i] = e
		}
		return out, true
	case []time.Time:
		out := make([]any, len(sv))
		for i, e := range sv {
			out[i] = e
		}
		return out, true
	}
	return nil, false
}

func typeMismatchError(v *structpb.Value, t *Type) *CascadeError {
	return &CascadeError{
		Number:      ErrCodeTypeMismatch,
		SQLState:    SQLStateDataException,
		Message:     errMsgTypeMismatch,
		MessageArgs: []interface{}{valueKindName(v), t},
	}
}

// inferParamType derives the column type implied by a Go value. DATE cannot
// be told apart from TIMESTAMP and []any carries no element type, so both
// need an explicit type via EncodeTypedParameter.
func inferParamType(v any) (*Type, error) {
	switch v.(type) {
	case int64, int:
		return Int64Type(), nil
	case string:
		return StringType(), nil
	case bool:
		return BoolType(), nil
	case float64:
		return Float64Type(), nil
	case time.Time:
		return TimestampType(), nil
	case []byte, io.Reader:
		return BytesType(), nil
	case []int64:
		return ArrayType(Int64Type()), nil
	case []string:
		return ArrayType(StringType()), nil
	case []bool:
		return ArrayType(BoolType()), nil
	case []float64:
		return ArrayType(Float64Type()), nil
	case []time.Time:
		return ArrayType(TimestampType()), nil
	}
	return nil, ErrCannotInferType
}

// EncodeParameter converts a Go value into an outbound wire value, inferring
// its column type. Use EncodeTypedParameter when the type cannot be inferred,
// for DATE parameters, nil parameters and []any arrays in particular.
func EncodeParameter(v any) (*structpb.Value, *Type, error) {
	t, err := inferParamType(v)
	if err != nil {
		return nil, nil, err
	}
	wv, err := encodeValue(v, t)
	if err != nil {
		return nil, nil, err
	}
	return wv, t, nil
}

// EncodeTypedParameter converts a Go value into an outbound wire value using
// an explicit column type.
func EncodeTypedParameter(v any, t *Type) (*structpb.Value, error) {
	return encodeValue(v, t)
}
