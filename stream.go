// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"context"
	"io"

	"google.golang.org/protobuf/types/known/structpb"
)

type streamState int

const (
	streamStreaming streamState = iota
	streamBuffering
	streamResuming
	streamExhausted
)

func (s streamState) String() string {
	switch s {
	case streamStreaming:
		return "streaming"
	case streamBuffering:
		return "buffering"
	case streamResuming:
		return "resuming"
	case streamExhausted:
		return "exhausted"
	}
	return "unknown"
}

// resumableChunkReader pulls partial result chunks from a transport stream
// and hides stream interruptions from the layer above.
//
// Chunks are held back in an internal buffer until the server sends a resume
// token, then released downstream. If the transport aborts the stream, the
// buffered chunks are discarded and the stream is reopened from the last
// token; the server replays everything past the checkpoint, so nothing
// released downstream is ever sent twice. The buffer cannot grow without
// bound: after threshold chunks arrive without a token the buffer is released
// anyway, and the aligned flag records that rows beyond the checkpoint have
// left the building. An abort in that window cannot be resumed safely and is
// surfaced as fatal, exactly like an abort before the first token.
type resumableChunkReader struct {
	ctx         context.Context
	opener      StreamOpener
	req         *StreamRequest
	stream      ChunkStream
	state       streamState
	buffered    []*PartialResultSet
	released    []*PartialResultSet
	threshold   int
	resumeToken []byte
	aligned     bool
	metadata    *ResultSetMetadata
	stats       *ResultSetStats
}

func newResumableChunkReader(ctx context.Context, opener StreamOpener, req *StreamRequest, threshold int) *resumableChunkReader {
	return &resumableChunkReader{
		ctx:       ctx,
		opener:    opener,
		req:       req,
		state:     streamStreaming,
		threshold: threshold,
	}
}

func (r *resumableChunkReader) open() error {
	stream, err := r.opener.OpenStream(r.ctx, r.req)
	if err != nil {
		return err
	}
	r.stream = stream
	r.state = streamStreaming
	return nil
}

// prime receives the first chunk so that row type metadata is available
// before the caller starts iterating. An immediately empty stream leaves the
// reader exhausted with no metadata.
func (r *resumableChunkReader) prime() error {
	if r.state == streamExhausted || len(r.buffered) > 0 || len(r.released) > 0 {
		return nil
	}
	return r.recvOne()
}

// next returns the next released chunk, pulling from the transport as
// needed. It returns io.EOF once the stream is exhausted and drained.
func (r *resumableChunkReader) next() (*PartialResultSet, error) {
	for {
		if len(r.released) > 0 {
			chunk := r.released[0]
			r.released = r.released[1:]
			return chunk, nil
		}
		if r.state == streamExhausted {
			return nil, io.EOF
		}
		if err := r.recvOne(); err != nil {
			return nil, err
		}
	}
}

// recvOne receives a single chunk into the buffer, resuming the stream first
// if the transport reports a retriable abort.
func (r *resumableChunkReader) recvOne() error {
	if r.state == streamExhausted {
		return io.EOF
	}
	for {
		chunk, err := r.stream.Recv()
		if err == nil {
			r.accept(chunk)
			return nil
		}
		if err == io.EOF {
			r.finish()
			return nil
		}
		if !isRetryableStreamError(err) {
			return err
		}
		if len(r.resumeToken) == 0 {
			logger.WithContext(r.ctx).Errorf("stream aborted with no checkpoint recorded: %v", err)
			return &CascadeError{
				Number:   ErrCodeStreamNotResumable,
				SQLState: SQLStateConnectionFailure,
				Message:  errMsgStreamNoCheckpoint,
				cause:    err,
			}
		}
		if !r.aligned {
			logger.WithContext(r.ctx).Errorf("stream aborted beyond the last checkpoint: %v", err)
			return &CascadeError{
				Number:   ErrCodeStreamNotResumable,
				SQLState: SQLStateConnectionFailure,
				Message:  errMsgStreamPastCheckpoint,
				cause:    err,
			}
		}
		if err := r.resume(); err != nil {
			return err
		}
	}
}

// accept records a received chunk and decides whether the buffer can be
// released. A chunk carrying a resume token both advances the checkpoint and
// releases the buffer. A full buffer is released without a checkpoint, which
// forfeits resumability until the next token arrives.
func (r *resumableChunkReader) accept(chunk *PartialResultSet) {
	if r.metadata == nil && chunk.Metadata != nil {
		r.metadata = chunk.Metadata
	}
	if chunk.Stats != nil {
		r.stats = chunk.Stats
	}
	r.buffered = append(r.buffered, chunk)
	if len(chunk.ResumeToken) > 0 {
		r.resumeToken = append([]byte(nil), chunk.ResumeToken...)
		r.aligned = true
		logger.WithContext(r.ctx).Debugf("checkpoint advanced (%v byte token), flushing %v chunks", len(chunk.ResumeToken), len(r.buffered))
		r.flush()
	} else if len(r.buffered) >= r.threshold {
		logger.WithContext(r.ctx).Debugf("chunk buffer reached %v chunks with no checkpoint, flushing", len(r.buffered))
		r.aligned = false
		r.flush()
	} else {
		r.state = streamBuffering
	}
}

func (r *resumableChunkReader) flush() {
	r.released = append(r.released, r.buffered...)
	r.buffered = nil
	r.state = streamStreaming
}

// finish releases whatever is still buffered. End of stream is authoritative:
// there is nothing left for a resume to replay.
func (r *resumableChunkReader) finish() {
	logger.WithContext(r.ctx).Debugf("stream exhausted, releasing %v buffered chunks", len(r.buffered))
	r.released = append(r.released, r.buffered...)
	r.buffered = nil
	r.state = streamExhausted
}

// resume reopens the stream from the last checkpoint. Buffered chunks are
// dropped: the server replays everything past the token.
func (r *resumableChunkReader) resume() error {
	r.state = streamResuming
	r.buffered = nil
	req := r.req.WithResumeToken(r.resumeToken)
	logger.WithContext(r.ctx).Infof("stream %v, reopening from checkpoint, request id: %v", r.state, req.RequestID())
	stream, err := r.opener.OpenStream(r.ctx, req)
	if err != nil {
		logger.WithContext(r.ctx).Errorf("failed to reopen result stream: %v", err)
		return err
	}
	r.req = req
	r.stream = stream
	r.state = streamStreaming
	return nil
}

// rowAssembler turns a sequence of released chunks into whole rows. It owns
// the two pieces of cross-chunk state: the pending merge tail of a chunked
// value and the remainder of values that do not yet fill a row.
type rowAssembler struct {
	fields     []*FieldType
	hasRowType bool
	carry      []*structpb.Value
	pending    *structpb.Value
}

// setRowType fixes the row type from the first metadata observed. Later
// metadata, such as the repeat sent after a resume, is ignored.
func (a *rowAssembler) setRowType(md *ResultSetMetadata) {
	if a.hasRowType || md == nil || md.RowType == nil {
		return
	}
	a.hasRowType = true
	a.fields = md.RowType.Fields
}

// consume folds one chunk into the assembly state and returns the rows it
// completes. The pending tail from the previous chunk, if any, merges into
// the chunk's first value; if the chunk is marked chunked its last value is
// held back as the new pending tail; everything else joins the carried
// remainder and is sliced into rows of the row type's width.
func (a *rowAssembler) consume(chunk *PartialResultSet) ([]*Row, error) {
	values := chunk.Values
	if a.pending != nil && len(values) > 0 {
		merged, err := mergeValues(a.pending, values[0])
		if err != nil {
			return nil, err
		}
		a.pending = nil
		rest := values[1:]
		values = make([]*structpb.Value, 0, 1+len(rest))
		values = append(values, merged)
		values = append(values, rest...)
	}
	combined := append(a.carry, values...)
	if chunk.ChunkedValue && len(combined) > 0 {
		a.pending = combined[len(combined)-1]
		combined = combined[:len(combined)-1]
	}
	if len(combined) == 0 {
		a.carry = nil
		return nil, nil
	}
	if !a.hasRowType {
		return nil, &CascadeError{
			Number:   ErrCodeInvalidRowType,
			SQLState: SQLStateDataException,
			Message:  errMsgMissingRowType,
		}
	}
	width := len(a.fields)
	if width == 0 {
		return nil, &CascadeError{
			Number:   ErrCodeInvalidRowType,
			SQLState: SQLStateDataException,
			Message:  errMsgZeroWidthRowType,
		}
	}
	n := len(combined) / width
	rows := make([]*Row, n)
	for i := range rows {
		row, err := decodeRow(combined[i*width:(i+1)*width], a.fields)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	a.carry = append([]*structpb.Value(nil), combined[n*width:]...)
	return rows, nil
}

// finish validates the terminal state. Leftover values that never filled a
// row, or a tail still waiting for its back half, mean the server ended the
// stream mid-row.
func (a *rowAssembler) finish() error {
	if a.pending != nil {
		return &CascadeError{
			Number:   ErrCodeTruncatedStream,
			SQLState: SQLStateStringDataLengthMismatch,
			Message:  errMsgUnmergedChunkedValue,
		}
	}
	if len(a.carry) > 0 {
		return &CascadeError{
			Number:      ErrCodeTruncatedStream,
			SQLState:    SQLStateStringDataLengthMismatch,
			Message:     errMsgTruncatedStream,
			MessageArgs: []interface{}{len(a.carry), len(a.fields)},
		}
	}
	return nil
}
