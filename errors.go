package msgraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error types for Microsoft Graph API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("msgraph: unauthorised")

	// ErrForbidden indicates the caller lacks permission for the requested resource.
	ErrForbidden = errors.New("msgraph: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("msgraph: not found")

	// ErrConflict indicates a write conflict without version information.
	ErrConflict = errors.New("msgraph: conflict")

	// ErrPreconditionFailed indicates an If-Match precondition was rejected.
	// Etag-guarded mutations surface this through TagMismatchError, which
	// additionally carries the resource's current tag.
	ErrPreconditionFailed = errors.New("msgraph: precondition failed")

	// ErrRateLimited indicates the request was throttled by Microsoft Graph.
	ErrRateLimited = errors.New("msgraph: rate limited")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("msgraph: bad request")

	// ErrServerError indicates a server-side error from Microsoft Graph.
	ErrServerError = errors.New("msgraph: server error")

	// ErrUnexpectedResponseShape indicates a successful status code whose
	// body is missing the expected collection or envelope fields. This is
	// always a hard error, never coerced into an empty result.
	ErrUnexpectedResponseShape = errors.New("msgraph: unexpected response shape")

	// ErrMissingEtag indicates an etag-guarded mutation was attempted
	// without a version tag.
	ErrMissingEtag = errors.New("msgraph: missing etag")
)

// WrapError converts an HTTP status code to an appropriate sentinel error.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusPreconditionFailed:
		return ErrPreconditionFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// IsNotFound checks if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPreconditionFailed checks if the error indicates a rejected If-Match tag.
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// RequestError is returned for any non-2xx response. It carries the status
// code and whatever error detail Graph included in the body, and unwraps to
// the matching sentinel error so callers can use errors.Is.
type RequestError struct {
	// StatusCode is the HTTP status of the failed request.
	StatusCode int
	// Code is the Graph error code (e.g. "Request_ResourceNotFound").
	Code string
	// Message is the Graph error message, if the body carried one.
	Message string
	// Body is the raw response body for logging and inspection.
	Body []byte

	sentinel error
}

// graphErrorBody is the standard Graph error envelope.
type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newRequestError builds a RequestError from a non-2xx response.
func newRequestError(statusCode int, body []byte) *RequestError {
	e := &RequestError{
		StatusCode: statusCode,
		Body:       body,
		sentinel:   WrapError(statusCode),
	}
	var parsed graphErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Code = parsed.Error.Code
		e.Message = parsed.Error.Message
	}
	return e
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("msgraph: request failed: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("msgraph: request failed: status %d", e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.sentinel
}

// TagMismatchError is returned when an etag-guarded mutation is rejected
// because the supplied tag is stale. CurrentTag is the resource's tag as of
// the conflict, read back in the same call so the caller can decide whether
// to retry without another round trip.
type TagMismatchError struct {
	// CurrentTag is the server's current version tag for the resource.
	CurrentTag string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("msgraph: etag mismatch, current tag %q", e.CurrentTag)
}

func (e *TagMismatchError) Unwrap() error {
	return ErrPreconditionFailed
}
