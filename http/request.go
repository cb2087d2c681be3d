package http

import (
	"net"

	"github.com/indigo-web/minihttp/http/headers"
)

// Request represents a parsed HTTP request. It is constructed once per connection and
// must be treated as read-only by handlers.
type Request struct {
	// Method is the method token exactly as it was received.
	Method string
	// Path is the request target as it was received, including query and fragment. It is
	// never decoded.
	Path string
	// Proto is the protocol version token, e.g. HTTP/1.1.
	Proto string
	// Headers holds header pairs in the order they were received. Lookup is case-insensitive.
	Headers *headers.Headers
	// Body holds exactly Content-Length bytes. It's nil if the header was absent or zero.
	Body []byte
	// Remote holds the remote address.
	Remote net.Addr
	// Env contains values set by the server itself.
	Env Environment
}

type Environment struct {
	// Error is set when the request is passed to an error handler.
	Error error
	// Vars holds the path remainder after the matched route prefix. It's empty
	// for static routes.
	Vars string
}

func NewRequest(hdrs *headers.Headers, remote net.Addr) *Request {
	return &Request{
		Headers: hdrs,
		Remote:  remote,
	}
}

// Respond returns a new response bound to the request, so its body is subject to
// content negotiation.
func (r *Request) Respond() *Response {
	return newResponse(r)
}

// AcceptsEncoding tells whether the token is listed in Accept-Encoding. Quality
// parameters aren't interpreted: "gzip;q=0" doesn't match "gzip".
func (r *Request) AcceptsEncoding(token string) bool {
	for _, accepted := range r.Headers.Tokens(headers.AcceptEncoding) {
		if equalFold(accepted, token) {
			return true
		}
	}

	return false
}
