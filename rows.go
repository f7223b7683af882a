// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"context"
	"errors"
	"io"
)

var (
	errNilStreamOpener  = errors.New("no stream opener provided")
	errNilStreamRequest = errors.New("no stream request provided")
	errNilQueryResponse = errors.New("no query response provided")
)

// ResultSet is a set of query results. The streaming variant assembles rows
// on demand from a chunk stream; the buffered variant wraps a complete
// response. Both decode cells the same way, but their iteration semantics
// differ: a streaming ResultSet can be iterated once, a buffered one any
// number of times.
type ResultSet interface {
	// Types returns the column name to column type mapping of the result.
	// When two columns share a name the later one wins; ordered access is
	// available per row through ColumnNames and ValueAt.
	Types() map[string]*Type
	// Rows returns an iterator over the decoded rows. For a streaming result
	// the rows can be consumed exactly once: a second call returns an
	// exhausted iterator, not an error.
	Rows() *RowIterator
	// IsStreaming reports whether this result is backed by a live stream.
	IsStreaming() bool
	// Stats returns the latest execution statistics the server has sent, or
	// nil. For a streaming result the server typically sends them on the
	// final chunk, so they are complete only after iteration finishes.
	Stats() *ResultSetStats
	// RowCount returns the exact row count when the server reported one.
	RowCount() (int64, bool)
}

// RowIterator iterates decoded rows. Next returns io.EOF after the last row.
// Any error, io.EOF included, is sticky: every later call returns it again.
type RowIterator struct {
	nextFunc func() (*Row, error)
	err      error
}

// Next returns the next row of the result.
func (it *RowIterator) Next() (*Row, error) {
	if it.err != nil {
		return nil, it.err
	}
	row, err := it.nextFunc()
	if err != nil {
		it.err = err
		return nil, err
	}
	return row, nil
}

func emptyRowIterator() *RowIterator {
	return &RowIterator{err: io.EOF}
}

// streamingResultSet assembles rows from a resumable chunk stream.
type streamingResultSet struct {
	reader   *resumableChunkReader
	asm      *rowAssembler
	queue    []*Row
	consumed bool
}

// NewStreamingResultSet opens a chunk stream through the given opener and
// returns a ResultSet over it. It receives the stream's first chunk before
// returning so that the column types are known up front; an abort before any
// checkpoint, this early one included, is fatal. The config may be nil for
// defaults.
func NewStreamingResultSet(ctx context.Context, opener StreamOpener, req *StreamRequest, cfg *ClientConfig) (ResultSet, error) {
	if opener == nil {
		return nil, errNilStreamOpener
	}
	if req == nil {
		return nil, errNilStreamRequest
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reader := newResumableChunkReader(ctx, opener, req, resolveChunkBufferThreshold(cfg))
	if err := reader.open(); err != nil {
		return nil, err
	}
	if err := reader.prime(); err != nil {
		return nil, err
	}
	s := &streamingResultSet{reader: reader, asm: &rowAssembler{}}
	s.asm.setRowType(reader.metadata)
	return s, nil
}

func (s *streamingResultSet) Types() map[string]*Type {
	return fieldTypeMap(s.reader.metadata)
}

func (s *streamingResultSet) Rows() *RowIterator {
	if s.consumed {
		return emptyRowIterator()
	}
	s.consumed = true
	return &RowIterator{nextFunc: s.next}
}

func (s *streamingResultSet) IsStreaming() bool {
	return true
}

func (s *streamingResultSet) Stats() *ResultSetStats {
	return s.reader.stats
}

func (s *streamingResultSet) RowCount() (int64, bool) {
	return rowCountFromStats(s.reader.stats)
}

func (s *streamingResultSet) next() (*Row, error) {
	for len(s.queue) == 0 {
		chunk, err := s.reader.next()
		if err == io.EOF {
			if ferr := s.asm.finish(); ferr != nil {
				return nil, ferr
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		s.asm.setRowType(s.reader.metadata)
		rows, err := s.asm.consume(chunk)
		if err != nil {
			return nil, err
		}
		s.queue = rows
	}
	row := s.queue[0]
	s.queue = s.queue[1:]
	return row, nil
}

// bufferedResultSet wraps a complete, non-streamed query response.
type bufferedResultSet struct {
	resp *QueryResponse
}

// NewBufferedResultSet returns a ResultSet over a complete query response.
// Rows are decoded lazily during iteration, and the result can be iterated
// any number of times.
func NewBufferedResultSet(resp *QueryResponse) (ResultSet, error) {
	if resp == nil {
		return nil, errNilQueryResponse
	}
	return &bufferedResultSet{resp: resp}, nil
}

func (b *bufferedResultSet) Types() map[string]*Type {
	return fieldTypeMap(b.resp.Metadata)
}

func (b *bufferedResultSet) Rows() *RowIterator {
	fields := rowTypeFields(b.resp.Metadata)
	idx := 0
	return &RowIterator{nextFunc: func() (*Row, error) {
		if idx >= len(b.resp.Rows) {
			return nil, io.EOF
		}
		listRow := b.resp.Rows[idx]
		idx++
		return decodeRow(listRow.GetValues(), fields)
	}}
}

func (b *bufferedResultSet) IsStreaming() bool {
	return false
}

func (b *bufferedResultSet) Stats() *ResultSetStats {
	return b.resp.Stats
}

func (b *bufferedResultSet) RowCount() (int64, bool) {
	return rowCountFromStats(b.resp.Stats)
}

func rowTypeFields(md *ResultSetMetadata) []*FieldType {
	if md == nil || md.RowType == nil {
		return nil
	}
	return md.RowType.Fields
}

func fieldTypeMap(md *ResultSetMetadata) map[string]*Type {
	fields := rowTypeFields(md)
	m := make(map[string]*Type, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Type
	}
	return m
}

func rowCountFromStats(stats *ResultSetStats) (int64, bool) {
	if stats == nil || stats.RowCountExact == nil {
		return 0, false
	}
	return *stats.RowCountExact, true
}
