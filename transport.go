package gocascade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ChunkStream is a single server stream of partial result chunks. Recv
// returns io.EOF after the final chunk. Implementations are not required to
// be safe for concurrent use; the reassembly layer calls Recv from one
// goroutine.
type ChunkStream interface {
	Recv() (*PartialResultSet, error)
}

// StreamOpener opens chunk streams against a transport. The reassembly layer
// calls it once to start a stream and again, with a request carrying a resume
// token, each time an interrupted stream is restarted.
type StreamOpener interface {
	OpenStream(ctx context.Context, req *StreamRequest) (ChunkStream, error)
}

// StreamRequest identifies one attempt to open a chunk stream. It is
// immutable; deriving a resumed request with WithResumeToken leaves the
// original untouched and assigns a fresh request id so that server-side logs
// can tell the attempts apart.
type StreamRequest struct {
	requestID   string
	resumeToken []byte
}

// NewStreamRequest returns a request for a fresh stream with no resume token.
func NewStreamRequest() *StreamRequest {
	return &StreamRequest{requestID: uuid.New().String()}
}

// RequestID returns the id identifying this open attempt.
func (req *StreamRequest) RequestID() string {
	return req.requestID
}

// ResumeToken returns a copy of the checkpoint token to restart from, or nil
// for a fresh stream.
func (req *StreamRequest) ResumeToken() []byte {
	if req.resumeToken == nil {
		return nil
	}
	return append([]byte(nil), req.resumeToken...)
}

// WithResumeToken derives a request that restarts the stream from the given
// checkpoint token.
func (req *StreamRequest) WithResumeToken(token []byte) *StreamRequest {
	return &StreamRequest{
		requestID:   uuid.New().String(),
		resumeToken: append([]byte(nil), token...),
	}
}

// isRetryableStreamError reports whether a mid-stream error is a transient
// abort worth resuming from a checkpoint. Cancellation by the caller and
// deadline expiry are final. Everything else is classified by gRPC status
// code: only UNAVAILABLE and ABORTED indicate the server or the connection
// went away underneath an otherwise healthy stream.
func isRetryableStreamError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.Unavailable, codes.Aborted:
		return true
	}
	return false
}
