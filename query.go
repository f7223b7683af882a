// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"encoding/json"

	"google.golang.org/protobuf/types/known/structpb"
)

// ResultSetMetadata describes the shape of the rows in a result stream. The
// server sends it on the first chunk of a stream and repeats it verbatim on
// the first chunk after a resume.
type ResultSetMetadata struct {
	RowType *StructType `json:"rowType,omitempty"`
}

// ResultSetStats carries execution statistics for a finished or running
// query. Row counts are mutually exclusive: point reads and strong queries
// report an exact count, partitioned queries report a lower bound.
type ResultSetStats struct {
	RowCountExact      *int64          `json:"rowCountExact,omitempty"`
	RowCountLowerBound *int64          `json:"rowCountLowerBound,omitempty"`
	QueryStats         json.RawMessage `json:"queryStats,omitempty"`
}

// PartialResultSet is one chunk of a streaming query result. Values are
// column cells in row-major order with no row framing. ChunkedValue marks the
// last value as the front half of a value continued in the next chunk. A
// non-empty ResumeToken is a server checkpoint: every row up to and including
// this chunk can be replayed by reopening the stream with the token.
type PartialResultSet struct {
	Metadata     *ResultSetMetadata `json:"metadata,omitempty"`
	Values       []*structpb.Value  `json:"values,omitempty"`
	ChunkedValue bool               `json:"chunkedValue,omitempty"`
	ResumeToken  []byte             `json:"resumeToken,omitempty"`
	Stats        *ResultSetStats    `json:"stats,omitempty"`
}

// QueryResponse is a complete, non-streaming query result. Each entry of Rows
// is one whole row.
type QueryResponse struct {
	Metadata *ResultSetMetadata    `json:"metadata,omitempty"`
	Rows     []*structpb.ListValue `json:"rows,omitempty"`
	Stats    *ResultSetStats       `json:"stats,omitempty"`
}
