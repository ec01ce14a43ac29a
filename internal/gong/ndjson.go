package gong

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeNDJSON renders records as newline-delimited JSON, one object per
// line, into an in-memory buffer. The buffer replaces the temp-file-per-type
// batching of earlier designs so nothing is left behind on error paths.
func EncodeNDJSON[R any](records []R) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, record := range records {
		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return &buf, nil
}
