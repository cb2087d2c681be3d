package httptest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/indigo-web/minihttp/http/headers"
)

// Response is a response parsed the way a client would do it.
type Response struct {
	Proto   string
	Code    int
	Status  string
	Headers *headers.Headers
	Body    string
}

// Parse parses a serialized response. The body must be exactly as long as Content-Length
// says, or empty if there's no such header.
func Parse(raw string) (response Response, err error) {
	var found bool
	response.Headers = headers.New()

	response.Proto, raw, found = strings.Cut(raw, " ")
	if !found || len(raw) == 0 {
		return response, fmt.Errorf("bad response line: lacking code and status")
	}

	var code string
	code, raw, found = strings.Cut(raw, " ")
	response.Code, err = strconv.Atoi(code)
	if err != nil {
		return response, err
	}

	if !found {
		return response, fmt.Errorf("bad response line: lacking status")
	}

	response.Status, raw, found = strings.Cut(raw, "\r\n")
	if !found {
		return response, fmt.Errorf("bad response: only response line is presented")
	}

	for {
		var headerLine string
		headerLine, raw, found = strings.Cut(raw, "\r\n")
		if !found {
			return response, fmt.Errorf("bad header line %q: no breaking CRLF", headerLine)
		}
		if len(headerLine) == 0 {
			break
		}

		key, value, ok := strings.Cut(headerLine, ": ")
		if !ok {
			return response, fmt.Errorf("bad header %q: no value", headerLine)
		}

		response.Headers.Add(key, value)
	}

	length := 0
	if value, ok := response.Headers.Get(headers.ContentLength); ok {
		if length, err = strconv.Atoi(value); err != nil {
			return response, fmt.Errorf("bad Content-Length: %w", err)
		}
	}

	if len(raw) != length {
		return response, fmt.Errorf("body length mismatch: Content-Length is %d, got %d bytes", length, len(raw))
	}

	response.Body = raw

	return response, nil
}
