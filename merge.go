// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// mergeValues joins the back half of a value split across a chunk boundary
// onto its front half. String fragments concatenate. List fragments
// concatenate element-wise, and when the last element of left and the first
// element of right are both strings those two elements are themselves one
// split value and collapse into one. Any other pairing, and struct values in
// particular, cannot legitimately be split by the server and fails with
// ErrCodeIncompatibleMerge.
//
// Neither input is modified. The returned value may share unchanged elements
// with its inputs.
func mergeValues(left, right *structpb.Value) (*structpb.Value, error) {
	if isStructValue(left) || isStructValue(right) {
		return nil, &CascadeError{
			Number:   ErrCodeIncompatibleMerge,
			SQLState: SQLStateInternalError,
			Message:  errMsgMergeStruct,
		}
	}
	switch l := left.GetKind().(type) {
	case *structpb.Value_StringValue:
		if r, ok := right.GetKind().(*structpb.Value_StringValue); ok {
			return structpb.NewStringValue(l.StringValue + r.StringValue), nil
		}
	case *structpb.Value_ListValue:
		if r, ok := right.GetKind().(*structpb.Value_ListValue); ok {
			return mergeListValues(l.ListValue, r.ListValue)
		}
	}
	return nil, incompatibleMergeError(left, right)
}

// mergeListValues concatenates two list fragments. The boundary pair, the
// last element of left and the first element of right, is collapsed into a
// single element iff both are strings. Non-string boundary elements are kept
// as they are: the server only ever splits the adjoining string fragments of
// a list, never a nested number or bool.
func mergeListValues(left, right *structpb.ListValue) (*structpb.Value, error) {
	lv := left.GetValues()
	rv := right.GetValues()
	merged := make([]*structpb.Value, 0, len(lv)+len(rv))
	if len(lv) > 0 && len(rv) > 0 && isStringValue(lv[len(lv)-1]) && isStringValue(rv[0]) {
		middle, err := mergeValues(lv[len(lv)-1], rv[0])
		if err != nil {
			return nil, err
		}
		merged = append(merged, lv[:len(lv)-1]...)
		merged = append(merged, middle)
		merged = append(merged, rv[1:]...)
	} else {
		merged = append(merged, lv...)
		merged = append(merged, rv...)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: merged}), nil
}

func incompatibleMergeError(left, right *structpb.Value) *CascadeError {
	return &CascadeError{
		Number:      ErrCodeIncompatibleMerge,
		SQLState:    SQLStateInternalError,
		Message:     errMsgIncompatibleMerge,
		MessageArgs: []interface{}{valueKindName(left), valueKindName(right)},
	}
}

func isStringValue(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_StringValue)
	return ok
}

func isStructValue(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_StructValue)
	return ok
}

// valueKindName names a wire value's tag for error messages.
func valueKindName(v *structpb.Value) string {
	switch v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "null"
	case *structpb.Value_NumberValue:
		return "number"
	case *structpb.Value_StringValue:
		return "string"
	case *structpb.Value_BoolValue:
		return "bool"
	case *structpb.Value_StructValue:
		return "struct"
	case *structpb.Value_ListValue:
		return "list"
	}
	return "absent"
}
