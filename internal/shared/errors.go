package shared

import (
	"errors"
	"fmt"
)

// RequestError is used when we want a specific error message and StatusCode.
// Sane defaults are listed below. For routes that need custom error messages,
// a request error can be generated and a handler expects the router to return
// the exact message inside the request error msg.
//
// Error codes should be bubbled where the RequestError msg is expected to be
// returned to the user. If the user should see a generic error message but
// the error chain should include more detail for logging purposes, then a generic
// error should be added that provides context.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrInvalidRequest = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}
	ErrBadRequest     = &RequestError{Err: errors.New("bad request"), StatusCode: 400}
	ErrNotFound       = &RequestError{Err: errors.New("not found"), StatusCode: 404}

	ErrAgentNotFound    = &RequestError{Err: errors.New("agent not found"), StatusCode: 404}
	ErrDefaultImmutable = &RequestError{Err: errors.New("default agent properties cannot be modified"), StatusCode: 403}
	ErrDefaultProtected = &RequestError{Err: errors.New("the default agent cannot be deleted"), StatusCode: 403}
	ErrDefaultSettings  = &RequestError{Err: errors.New("default agent settings are managed globally"), StatusCode: 400}

	ErrChatNotFound    = &RequestError{Err: errors.New("history not found"), StatusCode: 404}
	ErrUnknownModel    = &RequestError{Err: errors.New("model not found in the available list"), StatusCode: 400}
	ErrNoFile          = &RequestError{Err: errors.New("no file part in the request"), StatusCode: 400}
	ErrNoAudio         = &RequestError{Err: errors.New("no audio file"), StatusCode: 400}
	ErrTranscribeError = &RequestError{Err: errors.New("internal server error during transcription"), StatusCode: 500}

	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}
)

// Generation-side sentinels. These never reach the browser verbatim; the
// coordinator maps them to a single generic error event.
var (
	ErrEngineStream   = errors.New("inference stream failed")
	ErrGenerationBusy = errors.New("a generation is already in progress for this connection")
)
