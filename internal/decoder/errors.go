package decoder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTooSmall is returned when an upload is below the viability threshold
	ErrTooSmall = errors.New("audio upload too small")
	// ErrTranscoderUnavailable is returned when the transcoder cannot be run to completion
	ErrTranscoderUnavailable = errors.New("transcoder unavailable")
)

// SizeError reports an upload rejected before transcoding
type SizeError struct {
	Size int
	Min  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("audio upload too small: %d bytes (minimum %d)", e.Size, e.Min)
}

func (e *SizeError) Is(target error) bool {
	return target == ErrTooSmall
}

// TranscodeError reports input the transcoder rejected, including its stderr output.
type TranscodeError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *TranscodeError) Error() string {
	msg := fmt.Sprintf("transcode failed: %v", e.Err)
	if diag := e.Diagnostic(); diag != "" {
		msg += ": " + diag
	}
	return msg
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the last non-empty stderr line
func (e *TranscodeError) Diagnostic() string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
