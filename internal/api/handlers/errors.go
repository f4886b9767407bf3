package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/pitchscope/internal/processing"
)

// ErrorBody is the envelope of every failed response
type ErrorBody struct {
	Status  int    `json:"-"`
	Message string `json:"error" doc:"Human-readable failure description"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

func (e *ErrorBody) GetStatus() int {
	return e.Status
}

func init() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		details := make([]string, 0, len(errs))
		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}
		// only validation failures carry useful detail for the client
		if status == http.StatusUnprocessableEntity && len(details) > 0 {
			msg += ": " + strings.Join(details, "; ")
		}
		return &ErrorBody{Status: status, Message: msg}
	}
}

// StatusFor maps an analysis failure kind to its HTTP status
func StatusFor(kind processing.ErrorKind) int {
	switch kind {
	case processing.KindMissingInput, processing.KindTooSmall, processing.KindTranscodeFailed:
		return http.StatusBadRequest
	case processing.KindTranscodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func analysisError(err error) huma.StatusError {
	msg := err.Error()
	var aErr *processing.AnalysisError
	if errors.As(err, &aErr) {
		msg = aErr.Message
	}
	return huma.NewError(StatusFor(processing.KindOf(err)), msg)
}

// RequireMultipart rejects requests that cannot carry a file part before
// huma tries to parse the form
func RequireMultipart(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		mediaType, _, err := mime.ParseMediaType(ctx.Header("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			_ = huma.WriteErr(api, ctx, StatusFor(processing.KindMissingInput), processing.ErrMissingInput.Message)
			return
		}
		next(ctx)
	}
}
