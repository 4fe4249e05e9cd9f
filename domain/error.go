package domain

import (
	stderr "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrRecordNotFound keeps repositories independent of the ORM's sentinel errors.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateRecord is returned by repositories when a unique constraint rejects a write.
var ErrDuplicateRecord = errors.New("duplicate record")

var (
	ErrNotFound = DetailedError{
		IDField:         "NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "The requested resource could not be found",
		StatusCodeField: http.StatusNotFound,
	}

	ErrUnauthorized = DetailedError{
		IDField:         "UNAUTHORIZED",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "The request could not be authorized",
		StatusCodeField: http.StatusUnauthorized,
	}

	ErrForbidden = DetailedError{
		IDField:         "FORBIDDEN",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "The requested action was forbidden",
		StatusCodeField: http.StatusForbidden,
	}

	ErrTooManyRequests = DetailedError{
		IDField:         "TOO_MANY_REQUESTS",
		StatusDescField: http.StatusText(http.StatusTooManyRequests),
		ErrorField:      "Too many requests, please try again later",
		StatusCodeField: http.StatusTooManyRequests,
	}

	ErrInternalServerError = DetailedError{
		IDField:         "INTERNAL_SERVER_ERROR",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "An internal server error occurred, please contact the system administrator",
		StatusCodeField: http.StatusInternalServerError,
	}

	ErrBadRequest = DetailedError{
		IDField:         "BAD_REQUEST",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "The request was malformed or contained invalid parameters",
		StatusCodeField: http.StatusBadRequest,
	}

	ErrConflict = DetailedError{
		IDField:         "CONFLICT",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "The resource could not be created due to a conflict",
		StatusCodeField: http.StatusConflict,
	}

	// ErrStorage is the StorageError of the public contract.
	ErrStorage = DetailedError{
		IDField:         "STORAGE_ERROR",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "The storage layer failed to complete the operation",
		StatusCodeField: http.StatusInternalServerError,
	}

	// ErrStorageTimeout is the TimeoutError of the public contract.
	ErrStorageTimeout = DetailedError{
		IDField:         "REQUEST_TIMEOUT",
		StatusDescField: http.StatusText(http.StatusRequestTimeout),
		ErrorField:      "The storage layer did not answer in time",
		StatusCodeField: http.StatusRequestTimeout,
	}
)

type DetailedError struct {
	// Stable identifier used by clients and application logic, e.g. DUPLICATE_MENU_ITEM.
	IDField string `json:"id,omitempty"`

	// HTTP status code, e.g. 404.
	StatusCodeField int `json:"code,omitempty"`

	// HTTP status text, e.g. Not Found.
	StatusDescField string `json:"status,omitempty"`

	// Request ID for tracing.
	RIDField string `json:"request,omitempty"`

	// Human readable reason, e.g. "menu item 42 does not exist".
	ReasonField string `json:"reason,omitempty"`

	// Debug information. Never rendered to clients in production.
	DebugField string `json:"debug,omitempty"`

	ErrorField string `json:"message"`

	DetailsField map[string]interface{} `json:"details,omitempty"`

	err error
}

// StackTrace returns the error's stack trace.
func (e *DetailedError) StackTrace() (trace errors.StackTrace) {
	if e.err == e {
		return
	}

	if st := stackTracer(nil); stderr.As(e.err, &st) {
		trace = st.StackTrace()
	}

	return
}

func (e DetailedError) Unwrap() error {
	return e.err
}

func (e *DetailedError) Wrap(err error) {
	e.err = err
}

func (e DetailedError) WithWrap(err error) *DetailedError {
	e.err = err
	return &e
}

func (e DetailedError) WithID(id string) *DetailedError {
	e.IDField = id
	return &e
}

func (e DetailedError) WithRequestID(rid string) *DetailedError {
	e.RIDField = rid
	return &e
}

func (e *DetailedError) WithTrace(err error) *DetailedError {
	if st := stackTracer(nil); !stderr.As(e.err, &st) {
		e.Wrap(errors.WithStack(err))
	} else {
		e.Wrap(err)
	}
	return e
}

// Is matches on identity fields so that copies produced by the With* builders
// still satisfy errors.Is against the predefined value.
func (e DetailedError) Is(err error) bool {
	switch te := err.(type) {
	case DetailedError:
		return e.IDField == te.IDField && e.StatusCodeField == te.StatusCodeField
	case *DetailedError:
		return e.IDField == te.IDField && e.StatusCodeField == te.StatusCodeField
	default:
		return false
	}
}

func (e DetailedError) Status() string {
	return e.StatusDescField
}

func (e DetailedError) ID() string {
	return e.IDField
}

func (e DetailedError) Error() string {
	return e.ErrorField
}

func (e DetailedError) RequestID() string {
	return e.RIDField
}

func (e DetailedError) Reason() string {
	return e.ReasonField
}

func (e DetailedError) Debug() string {
	return e.DebugField
}

func (e DetailedError) Details() map[string]interface{} {
	return e.DetailsField
}

func (e DetailedError) StatusCode() int {
	return e.StatusCodeField
}

func (e DetailedError) WithReason(reason string) *DetailedError {
	e.ReasonField = reason
	return &e
}

func (e DetailedError) WithReasonf(reason string, args ...interface{}) *DetailedError {
	return e.WithReason(fmt.Sprintf(reason, args...))
}

func (e DetailedError) WithError(message string) *DetailedError {
	e.ErrorField = message
	return &e
}

func (e DetailedError) WithErrorf(message string, args ...interface{}) *DetailedError {
	return e.WithError(fmt.Sprintf(message, args...))
}

func (e DetailedError) WithDebug(debug string) *DetailedError {
	e.DebugField = debug
	return &e
}

func (e DetailedError) WithDetail(key string, detail interface{}) *DetailedError {
	details := make(map[string]interface{}, len(e.DetailsField)+1)
	for k, v := range e.DetailsField {
		details[k] = v
	}
	details[key] = detail
	e.DetailsField = details
	return &e
}

func (e DetailedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "id=%s\n", e.IDField)
			_, _ = fmt.Fprintf(s, "rid=%s\n", e.RIDField)
			_, _ = fmt.Fprintf(s, "error=%s\n", e.ErrorField)
			_, _ = fmt.Fprintf(s, "reason=%s\n", e.ReasonField)
			_, _ = fmt.Fprintf(s, "details=%+v\n", e.DetailsField)
			_, _ = fmt.Fprintf(s, "debug=%s\n", e.DebugField)
			e.StackTrace().Format(s, verb)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.ErrorField)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.ErrorField)
	}
}

// AsDetailedError extracts a *DetailedError from err's chain.
func AsDetailedError(err error) (*DetailedError, bool) {
	if err == nil {
		return nil, false
	}
	var de *DetailedError
	if stderr.As(err, &de) {
		return de, true
	}
	var dv DetailedError
	if stderr.As(err, &dv) {
		return &dv, true
	}
	return nil, false
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}
