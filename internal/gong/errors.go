package gong

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when an operation needs an integration and
// none exists on the remote side.
var ErrNotConfigured = errors.New("no CRM integration configured")

// RemoteError is returned when the remote system answers a well-formed
// request with a non-success status. It carries the status code and body
// for diagnostics.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to %s: %d - %s", e.Op, e.StatusCode, e.Body)
}

// TransportError is returned on transport-level failures: timeouts,
// connection errors, DNS. The remote system was never reached or never
// answered.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s: remote unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LineError describes one malformed record in a submitted batch.
type LineError struct {
	Line        int    `json:"line"`
	Description string `json:"description"`
}

// PartialBatchError reports per-line failures discovered by polling a
// request's status. It is never returned by a submit call; records that
// passed validation remain applied remotely.
type PartialBatchError struct {
	ClientRequestID string
	Errors          []LineError
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("request %s failed for %d record(s)", e.ClientRequestID, len(e.Errors))
}
