package response

import (
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/status"
)

// Fields are the raw response values, as they are going to be serialized.
type Fields struct {
	// Status is a custom reason phrase. Empty means the standard one.
	Status  status.Status
	Headers *headers.Headers
	Body    []byte
	Code    status.Code
}
