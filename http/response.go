package http

import (
	"errors"
	"strconv"

	"github.com/indigo-web/minihttp/http/codec"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/response"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// preallocRespHeaders covers Content-Type, Content-Length and Content-Encoding.
const preallocRespHeaders = 4

// Codecs lists content codings the responses may be compressed with, in the order of
// preference.
var Codecs = []codec.Codec{codec.GZIP}

// Response is a builder of the response. It maintains the invariant that a non-empty
// body is always accompanied by Content-Length matching the body after encoding, and
// an empty body by neither Content-Length nor Content-Encoding. Both headers are
// therefore managed exclusively by the body setters.
type Response struct {
	fields  *response.Fields
	request *Request
}

// NewResponse returns a new response with 200 OK status code. It isn't bound to any
// request, so its body is never compressed. Inside handlers, Request.Respond() should
// be preferred
func NewResponse() *Response {
	return newResponse(nil)
}

func newResponse(request *Request) *Response {
	return &Response{
		fields: &response.Fields{
			Code:    status.OK,
			Headers: headers.NewPrealloc(preallocRespHeaders),
		},
		request: request,
	}
}

// Code sets the response code.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// Status sets a custom reason phrase. By default, the standard one for the code is used
func (r *Response) Status(status status.Status) *Response {
	r.fields.Status = status
	return r
}

// ContentType sets the Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	return r.Header(headers.ContentType, value)
}

// Header sets the value of the header, replacing the existing one if any. Content-Length
// and Content-Encoding are ignored, as they're derived from the body
func (r *Response) Header(key, value string) *Response {
	if isBodyHeader(key) {
		return r
	}

	r.fields.Headers.Set(key, value)
	return r
}

// RemoveHeader deletes the header, if presented. Content-Length and Content-Encoding
// are ignored for the same reason as in Header
func (r *Response) RemoveHeader(key string) *Response {
	if isBodyHeader(key) {
		return r
	}

	r.fields.Headers.Remove(key)
	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body. If the bound request accepts one of Codecs, the body is
// compressed. The passed slice isn't copied, unless it's compressed
func (r *Response) Bytes(body []byte) *Response {
	if len(body) == 0 {
		r.fields.Body = nil
		r.fields.Headers.
			Remove(headers.ContentLength).
			Remove(headers.ContentEncoding)

		return r
	}

	if c := r.negotiate(); c != nil {
		compressed, err := c.Compress(body)
		if err != nil {
			return r.
				Code(status.InternalServerError).
				ContentType(mime.Plain).
				plain(uf.S2B(err.Error()))
		}

		r.fields.Headers.Set(headers.ContentEncoding, c.Token())
		body = compressed
	} else {
		r.fields.Headers.Remove(headers.ContentEncoding)
	}

	r.fields.Headers.Set(headers.ContentLength, strconv.Itoa(len(body)))
	r.fields.Body = body

	return r
}

// plain sets the body bypassing content negotiation
func (r *Response) plain(body []byte) *Response {
	r.fields.Headers.Remove(headers.ContentEncoding)
	r.fields.Headers.Set(headers.ContentLength, strconv.Itoa(len(body)))
	r.fields.Body = body
	return r
}

// Error sets the response code from the error. Client errors (4xx instances of
// status.HTTPError) result in a bare status code. Anything else is considered an
// internal failure, and the error text is sent as a plain-text body. Nil error is no-op
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	var httpErr status.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < status.InternalServerError {
		return r.Code(httpErr.Code).Bytes(nil)
	}

	return r.
		Code(status.CodeOf(err)).
		ContentType(mime.Plain).
		String(err.Error())
}

// Body returns the body as it will be sent, e.g. compressed.
func (r *Response) Body() []byte {
	return r.fields.Body
}

// Headers returns response headers. They must not be modified directly
func (r *Response) Headers() *headers.Headers {
	return r.fields.Headers
}

// Reveal returns the underlying fields. Used by the serializer
func (r *Response) Reveal() *response.Fields {
	return r.fields
}

func (r *Response) negotiate() codec.Codec {
	if r.request == nil {
		return nil
	}

	for _, c := range Codecs {
		if r.request.AcceptsEncoding(c.Token()) {
			return c
		}
	}

	return nil
}

func isBodyHeader(key string) bool {
	return strcomp.EqualFold(key, headers.ContentLength) ||
		strcomp.EqualFold(key, headers.ContentEncoding)
}

func equalFold(a, b string) bool {
	return strcomp.EqualFold(a, b)
}

// Respond is a predicate to request.Respond(). May be used as a dummy handler
func Respond(request *Request) *Response {
	return request.Respond()
}

// Code is a predicate to request.Respond().Code(...)
func Code(request *Request, code status.Code) *Response {
	return request.Respond().Code(code)
}

// String is a predicate to request.Respond().String(...)
func String(request *Request, str string) *Response {
	return request.Respond().String(str)
}

// Bytes is a predicate to request.Respond().Bytes(...)
func Bytes(request *Request, b []byte) *Response {
	return request.Respond().Bytes(b)
}

// Error is a predicate to request.Respond().Error(...)
func Error(request *Request, err error) *Response {
	return request.Respond().Error(err)
}
