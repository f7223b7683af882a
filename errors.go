// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"fmt"
)

// CascadeError is an error type including various CascadeDB specific information.
type CascadeError struct {
	Number      int
	SQLState    string
	QueryID     string
	Message     string
	MessageArgs []interface{}
	cause       error
}

func (ce *CascadeError) Error() string {
	message := ce.Message
	if len(ce.MessageArgs) > 0 {
		message = fmt.Sprintf(ce.Message, ce.MessageArgs...)
	}
	if ce.QueryID != "" {
		return fmt.Sprintf("%06d (%s): %s: %s", ce.Number, ce.SQLState, ce.QueryID, message)
	}
	return fmt.Sprintf("%06d (%s): %s", ce.Number, ce.SQLState, message)
}

// Unwrap returns the underlying error, if any. A stream abort that cannot be
// resumed wraps the transport error that caused it.
func (ce *CascadeError) Unwrap() error {
	return ce.cause
}

const (
	// stream assembly

	// ErrCodeIncompatibleMerge is an error code for the case where two chunk
	// fragments carry wire tags that cannot be joined into one value.
	ErrCodeIncompatibleMerge = 290001
	// ErrCodeTruncatedStream is an error code for the case where a result stream
	// terminates with values left over that do not form a whole row.
	ErrCodeTruncatedStream = 290002
	// ErrCodeStreamNotResumable is an error code for the case where a result
	// stream aborts and no usable resume token exists to restart it.
	ErrCodeStreamNotResumable = 290003
	// ErrCodeInvalidRowType is an error code for the case where result metadata
	// is absent or defines no columns while values are present.
	ErrCodeInvalidRowType = 290004

	// value conversion

	// ErrCodeTypeMismatch is an error code for the case where a wire value's tag
	// does not match the declared column type.
	ErrCodeTypeMismatch = 291001
	// ErrCodeMalformedValue is an error code for the case where a wire value has
	// the right tag but its payload cannot be parsed as the declared column type.
	ErrCodeMalformedValue = 291002
)

const (
	// SQLStateDataException is a generic data exception state
	SQLStateDataException = "22000"
	// SQLStateInvalidDateTimeFormat is used when a date or timestamp payload does not parse
	SQLStateInvalidDateTimeFormat = "22007"
	// SQLStateInvalidCharacterValue is used when a text payload does not parse as the target type
	SQLStateInvalidCharacterValue = "22018"
	// SQLStateStringDataLengthMismatch is used when a stream terminates with values that do not form whole rows
	SQLStateStringDataLengthMismatch = "22026"
	// SQLStateConnectionFailure is used when a result stream is lost and cannot be resumed
	SQLStateConnectionFailure = "08006"
	// SQLStateInternalError is used when the server violates the chunking protocol
	SQLStateInternalError = "XX000"
)

const (
	errMsgIncompatibleMerge    = "cannot merge a %v fragment with a %v fragment"
	errMsgMergeStruct          = "struct values cannot be split across chunks"
	errMsgTruncatedStream      = "result stream ended with %v dangling values, row width is %v"
	errMsgUnmergedChunkedValue = "result stream ended while the last value was still marked chunked"
	errMsgStreamNoCheckpoint   = "result stream aborted before a resume token was received"
	errMsgStreamPastCheckpoint = "result stream aborted with rows already emitted beyond the last resume token"
	errMsgZeroWidthRowType     = "result metadata defines no columns"
	errMsgMissingRowType       = "result stream carries values but no row type metadata"
	errMsgArrayMissingElement  = "ARRAY column type is missing its element type"
	errMsgTypeMismatch         = "cannot decode a %v wire value as %v"
	errMsgMalformedValue       = "invalid %v value: %v"
	errMsgEncodeMismatch       = "cannot encode Go type %T as %v"
	errMsgUnsupportedTypeCode  = "unsupported column type %v"
	errMsgRowWidthMismatch     = "row carries %v values, row type defines %v columns"
)

var (
	// preformatted errors

	// ErrCannotInferType is returned if a parameter's column type cannot be
	// derived from its Go type. Pass an explicit type instead.
	ErrCannotInferType = &CascadeError{
		Number:   ErrCodeTypeMismatch,
		SQLState: SQLStateDataException,
		Message:  "cannot infer a column type for the given value, provide an explicit type",
	}
)
