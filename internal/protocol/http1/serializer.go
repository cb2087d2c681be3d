package http1

import (
	"strconv"

	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/protocol"
	"github.com/indigo-web/minihttp/internal/response"
)

const protocolToken = "HTTP/1.1 "

var _ protocol.Serializer = new(Serializer)

// Serializer renders responses into their wire representation. The buffer is re-used
// between calls, so the serializer must not be shared among connections.
type Serializer struct {
	buff []byte
}

func NewSerializer(buff []byte) *Serializer {
	return &Serializer{
		buff: buff[:0],
	}
}

// Write renders the response and writes it at once. A write failure is returned as is
// and must be considered terminal for the connection.
func (s *Serializer) Write(response *http.Response, writer protocol.Writer) error {
	return writer.Write(s.Render(response))
}

// Render returns the serialized response. The returned slice is valid until the next call.
func (s *Serializer) Render(response *http.Response) []byte {
	fields := response.Reveal()
	s.buff = s.buff[:0]
	s.renderResponseLine(fields)

	for _, header := range fields.Headers.Unwrap() {
		s.buff = append(s.buff, header.Key...)
		s.buff = append(s.buff, headerKVSep...)
		s.buff = append(s.buff, header.Value...)
		s.crlf()
	}

	s.crlf()
	s.buff = append(s.buff, fields.Body...)

	return s.buff
}

func (s *Serializer) renderResponseLine(fields *response.Fields) {
	s.buff = append(s.buff, protocolToken...)
	s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	s.buff = append(s.buff, ' ')

	if len(fields.Status) > 0 {
		s.buff = append(s.buff, fields.Status...)
	} else {
		s.buff = append(s.buff, status.Text(fields.Code)...)
	}

	s.crlf()
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}
