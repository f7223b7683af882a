// Copyright (c) 2022-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"io"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPropertyScalarRoundTrip checks that decodeValue(encodeValue(v, t), t)
// gives back v for every representable scalar value.
func TestPropertyScalarRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("INT64 survives the wire", prop.ForAll(
		func(v int64) bool {
			wv, err := encodeValue(v, Int64Type())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, Int64Type())
			return err == nil && got == v
		},
		gen.Int64(),
	))

	properties.Property("STRING survives the wire", prop.ForAll(
		func(v string) bool {
			wv, err := encodeValue(v, StringType())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, StringType())
			return err == nil && got == v
		},
		gen.AnyString(),
	))

	properties.Property("BOOL survives the wire", prop.ForAll(
		func(v bool) bool {
			wv, err := encodeValue(v, BoolType())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, BoolType())
			return err == nil && got == v
		},
		gen.Bool(),
	))

	properties.Property("FLOAT64 survives the wire", prop.ForAll(
		func(v float64) bool {
			wv, err := encodeValue(v, Float64Type())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, Float64Type())
			return err == nil && got == v
		},
		gen.Float64(),
	))

	properties.Property("TIMESTAMP survives the wire", prop.ForAll(
		func(sec int64, nsec int64) bool {
			v := time.Unix(sec, nsec).UTC()
			wv, err := encodeValue(v, TimestampType())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, TimestampType())
			return err == nil && got.(time.Time).Equal(v)
		},
		gen.Int64Range(0, 4102444800), // 1970 through 2100
		gen.Int64Range(0, 999999999),
	))

	properties.Property("DATE survives the wire", prop.ForAll(
		func(days int) bool {
			v := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
			wv, err := encodeValue(v, DateType())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, DateType())
			return err == nil && got.(time.Time).Equal(v)
		},
		gen.IntRange(-100000, 100000),
	))

	properties.Property("BYTES survive the wire", prop.ForAll(
		func(v []byte) bool {
			wv, err := encodeValue(v, BytesType())
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, BytesType())
			if err != nil {
				return false
			}
			raw, err := io.ReadAll(got.(io.Reader))
			if err != nil || len(raw) != len(v) {
				return false
			}
			for i := range raw {
				if raw[i] != v[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

// TestPropertyArrayRoundTrip checks the round trip element-wise for arrays.
func TestPropertyArrayRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ARRAY<INT64> survives the wire", prop.ForAll(
		func(v []int64) bool {
			wv, err := encodeValue(v, ArrayType(Int64Type()))
			if err != nil {
				return false
			}
			got, err := decodeValue(wv, ArrayType(Int64Type()))
			if err != nil {
				return false
			}
			arr := got.([]any)
			if len(arr) != len(v) {
				return false
			}
			for i := range arr {
				if arr[i] != v[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64()),
	))

	properties.TestingRun(t)
}
