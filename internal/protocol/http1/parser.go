package http1

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/protocol"
	"github.com/indigo-web/utils/uf"
)

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eHeaders
	eCompleted
)

const (
	headerKVSep       = ": "
	noBody      int64 = -1
)

var crlf = []byte("\r\n")

var _ protocol.Parser = new(Parser)

// Parser is a stream-based HTTP/1.1 requests parser. It consumes arbitrary pieces of the
// meta block (request line and headers), filling the request in-place. Lines are
// terminated by CRLF only, bare LF inside a line makes it malformed. Once the blank
// line is met, the parser returns protocol.HeadersCompleted, attaching all the bytes
// left as an extra. The body must be read separately, see Body.
type Parser struct {
	request       *http.Request
	line          []byte
	cfg           config.Headers
	space         int
	headersNumber int
	contentLength int64
	state         parserState
}

func NewParser(request *http.Request, cfg config.Headers) *Parser {
	return &Parser{
		request:       request,
		cfg:           cfg,
		contentLength: noBody,
		state:         eRequestLine,
	}
}

func (p *Parser) Parse(data []byte) (state protocol.RequestState, extra []byte, err error) {
	if p.state == eCompleted {
		return protocol.HeadersCompleted, data, nil
	}

	for len(data) > 0 {
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if p.space += len(data); p.space > p.cfg.MaxSpace {
				return protocol.Error, nil, status.ErrHeaderFieldsTooLarge
			}

			p.line = append(p.line, data...)
			return protocol.Pending, nil, nil
		}

		chunk := data[:lf+1]
		data = data[lf+1:]
		if p.space += len(chunk); p.space > p.cfg.MaxSpace {
			return protocol.Error, nil, status.ErrHeaderFieldsTooLarge
		}

		line := chunk
		if len(p.line) > 0 {
			p.line = append(p.line, chunk...)
			line = p.line
		}

		if !bytes.HasSuffix(line, crlf) {
			// bare LF is a part of the line, not its terminator
			if len(p.line) == 0 {
				p.line = append(p.line, chunk...)
			}

			continue
		}

		err = p.processLine(uf.B2S(line[:len(line)-len(crlf)]))
		p.line = p.line[:0]
		if err != nil {
			return protocol.Error, nil, err
		}

		if p.state == eCompleted {
			return protocol.HeadersCompleted, data, nil
		}
	}

	return protocol.Pending, nil, nil
}

// processLine may be called with a line pointing into the internal buffer, so
// everything stored must be copied
func (p *Parser) processLine(line string) error {
	switch p.state {
	case eRequestLine:
		if strings.IndexByte(line, '\n') != -1 {
			return status.ErrMalformedRequestLine
		}

		tokens := strings.Split(line, " ")
		if len(tokens) != 3 {
			return status.ErrMalformedRequestLine
		}

		p.request.Method = strings.Clone(tokens[0])
		p.request.Path = strings.Clone(tokens[1])
		p.request.Proto = strings.Clone(tokens[2])
		p.state = eHeaders
	case eHeaders:
		if len(line) == 0 {
			p.state = eCompleted
			return nil
		}

		key, value, found := strings.Cut(line, headerKVSep)
		if !found || strings.IndexByte(line, '\n') != -1 {
			return status.ErrMalformedHeader
		}

		if p.headersNumber++; p.headersNumber > p.cfg.MaxNumber {
			return status.ErrTooManyHeaders
		}

		key, value = strings.Clone(key), strings.Clone(value)
		p.request.Headers.Add(key, value)

		if p.contentLength == noBody && equalFold(key, headers.ContentLength) {
			length, err := strconv.ParseUint(value, 10, 63)
			if err != nil {
				return fmt.Errorf("%w: %q", status.ErrInvalidContentLength, value)
			}

			p.contentLength = int64(length)
		}
	default:
		panic(fmt.Sprintf("BUG: unexpected parser state: %d", p.state))
	}

	return nil
}

// ContentLength returns the value of the first Content-Length header, or 0 if there was
// none. Valid only after the headers are completed.
func (p *Parser) ContentLength() int64 {
	return max(p.contentLength, 0)
}
