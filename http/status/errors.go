package status

import "errors"

// HTTPError is an error carrying the status code it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrMalformedRequestLine = NewError(BadRequest, "malformed request line")
	ErrMalformedHeader      = NewError(BadRequest, "malformed header line")
	ErrInvalidContentLength = NewError(BadRequest, "invalid Content-Length value")
	ErrBadFileName          = NewError(BadRequest, "bad file name")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrMethodNotAllowed     = NewError(MethodNotAllowed, "method not allowed")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrTruncatedBody        = NewError(InternalServerError, "connection closed before the whole body was received")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")

	// ErrShutdown is returned by the server once it was stopped on purpose.
	ErrShutdown = errors.New("graceful shutdown")
)

// CodeOf returns the code the error must be answered with. Errors that aren't
// HTTPError are considered internal ones.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

// IsProtocolError reports whether the error is caused by the peer sending
// something wrong, as opposed to transport or internal failures.
func IsProtocolError(err error) bool {
	code := CodeOf(err)
	return code >= 400 && code < 500
}
