// Package gocascade is a pure Go client core for the CascadeDB streaming
// query protocol.
//
// A CascadeDB server answers a streaming query with a sequence of partial
// result chunks. A single column value may be split across adjacent chunks,
// and the stream may be interrupted and resumed from the last server
// checkpoint. This package reassembles such a chunk stream into typed rows:
// it merges split values, decodes wire values into Go types according to the
// row type metadata, and resumes interrupted streams without duplicating or
// dropping rows.
//
// The package does not dial servers itself. Callers supply a StreamOpener
// bound to their transport and receive a ResultSet to iterate.
package gocascade
