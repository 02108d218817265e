// Package formats provides the decoder and encoder for GLR scene rips.
package formats

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all GLR decode failures.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrTruncatedData = errors.New("truncated data")
)

// DecodeError describes where and why decoding stopped.
type DecodeError struct {
	Offset   int64         // Byte offset of the record that failed
	Record   GLRRecordKind // Record being decoded
	Expected string
	Actual   string
	Err      error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("glr: %v at offset %d (%s record)", e.Err, e.Offset, e.Record)
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
