package http

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/internal/protocol"
	"github.com/indigo-web/minihttp/internal/protocol/http1"
	"github.com/indigo-web/minihttp/internal/server/tcp"
	"github.com/indigo-web/minihttp/router"
	"github.com/rs/zerolog"
)

// Server serves connections. Every connection carries exactly one request and is
// closed right after the response is written, successfully or not.
type Server struct {
	router  router.Router
	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Instruments
}

func NewServer(
	r router.Router, cfg *config.Config, log zerolog.Logger, instruments *metrics.Instruments,
) *Server {
	if instruments == nil {
		instruments = metrics.Nop()
	}

	return &Server{
		router:  r,
		cfg:     cfg,
		log:     log.With().Str("component", "http").Logger(),
		metrics: instruments,
	}
}

// HandleConn receives a request, routes it and writes the response back.
func (s *Server) HandleConn(client tcp.Client) {
	defer func() {
		_ = client.Close()
	}()

	request := http.NewRequest(headers.NewPrealloc(s.cfg.Headers.Prealloc), client.Remote())
	response := s.serve(client, request)
	if response == nil {
		s.log.Debug().
			Stringer("remote", client.Remote()).
			Msg("connection closed before sending anything")
		return
	}

	if err := http1.NewSerializer(nil).Write(response, client); err != nil {
		s.log.Error().
			Err(err).
			Stringer("remote", client.Remote()).
			Msg("failed to write the response")
		return
	}

	code := response.Reveal().Code
	s.metrics.Request(int(code))
	s.log.Debug().
		Str("method", request.Method).
		Str("path", request.Path).
		Int("code", int(code)).
		Msg("request handled")
}

// serve returns nil if the peer closed the connection without sending a single byte.
func (s *Server) serve(client tcp.Client, request *http.Request) *http.Response {
	parser := http1.NewParser(request, s.cfg.Headers)
	received := false

	for {
		data, readErr := client.Read()
		if len(data) > 0 {
			received = true
			state, extra, err := parser.Parse(data)
			switch state {
			case protocol.Pending:
			case protocol.HeadersCompleted:
				client.Unread(extra)
				request.Body, err = http1.NewBody(client, s.cfg.Body).Read(parser.ContentLength())
				if err != nil {
					s.logFailure(client, err)
					return s.onError(request, err)
				}

				return s.onRequest(request)
			case protocol.Error:
				s.logFailure(client, err)
				return s.onError(request, err)
			default:
				panic(fmt.Sprintf("BUG: got unexpected parser state: %s", state))
			}
		}

		if readErr != nil {
			if !received && errors.Is(readErr, io.EOF) {
				return nil
			}

			// the peer either has gone or is too slow
			s.logFailure(client, readErr)
			return s.onError(request, readErr)
		}
	}
}

// logFailure logs peer mistakes at debug level and transport failures as warnings.
func (s *Server) logFailure(client tcp.Client, err error) {
	event := s.log.Warn()
	msg := "failed to receive the request"
	if status.IsProtocolError(err) {
		event, msg = s.log.Debug(), "bad request"
	}

	event.
		Err(err).
		Stringer("remote", client.Remote()).
		Msg(msg)
}

func (s *Server) onRequest(request *http.Request) (response *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Str("method", request.Method).
				Str("path", request.Path).
				Msg("handler panicked")
			response = s.onError(request, status.ErrInternalServerError)
		}
	}()

	return notNil(request, s.router.OnRequest(request))
}

func (s *Server) onError(request *http.Request, err error) *http.Response {
	return notNil(request, s.router.OnError(request, err))
}

func notNil(req *http.Request, resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.Respond(req)
}
