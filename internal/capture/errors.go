// Package capture validates and normalizes raw capture payloads before the
// pipeline runs.
package capture

import "fmt"

// ErrInvalidURL indicates the posting URL could not be parsed or lacks a host.
type ErrInvalidURL struct {
	URL   string
	Cause error
}

func (e *ErrInvalidURL) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid posting URL %q: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("invalid posting URL %q", e.URL)
}

func (e *ErrInvalidURL) Unwrap() error { return e.Cause }

// ErrContentTooShort indicates the captured text is below the minimum usable
// length. This fails the run before any pipeline stage starts.
type ErrContentTooShort struct {
	Length int
	Min    int
}

func (e *ErrContentTooShort) Error() string {
	return fmt.Sprintf("captured text too short: %d chars (minimum %d)", e.Length, e.Min)
}
