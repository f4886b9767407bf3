package processing

import (
	"errors"
	"fmt"

	"github.com/RMahshie/pitchscope/internal/decoder"
)

// ErrorKind distinguishes pipeline failures
type ErrorKind string

const (
	KindMissingInput         ErrorKind = "missing_input"
	KindTooSmall             ErrorKind = "too_small"
	KindTranscodeFailed      ErrorKind = "transcode_failed"
	KindTranscodeUnavailable ErrorKind = "transcode_unavailable"
	KindAnalysisFault        ErrorKind = "analysis_fault"
)

// AnalysisError is the failure variant of a pipeline run
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ErrMissingInput is returned when a request carries no file
var ErrMissingInput = &AnalysisError{Kind: KindMissingInput, Message: "No file uploaded"}

// KindOf returns the kind of err, treating unknown errors as analysis faults
func KindOf(err error) ErrorKind {
	var aErr *AnalysisError
	if errors.As(err, &aErr) {
		return aErr.Kind
	}
	return KindAnalysisFault
}

func decodeFailure(err error) *AnalysisError {
	var sizeErr *decoder.SizeError
	if errors.As(err, &sizeErr) {
		return &AnalysisError{
			Kind:    KindTooSmall,
			Message: fmt.Sprintf("Audio upload too small: %d bytes. Try again.", sizeErr.Size),
			Err:     err,
		}
	}

	var tErr *decoder.TranscodeError
	if errors.As(err, &tErr) {
		msg := "FFMPEG failed to process audio. Possibly invalid or corrupt input."
		if diag := tErr.Diagnostic(); diag != "" {
			msg += " " + diag
		}
		return &AnalysisError{Kind: KindTranscodeFailed, Message: msg, Err: err}
	}

	if errors.Is(err, decoder.ErrTranscoderUnavailable) {
		return &AnalysisError{
			Kind:    KindTranscodeUnavailable,
			Message: "Audio transcoder unavailable. Please try again later.",
			Err:     err,
		}
	}

	return fault(err)
}

func fault(err error) *AnalysisError {
	return &AnalysisError{Kind: KindAnalysisFault, Message: err.Error(), Err: err}
}
