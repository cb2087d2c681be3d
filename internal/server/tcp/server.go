package tcp

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/internal/workerpool"
	"github.com/rs/zerolog"
)

// OnConn is run by a worker for every accepted connection. It owns the connection and
// is responsible for closing it.
type OnConn func(net.Conn)

// Server accepts connections and submits each of them to the worker pool.
type Server struct {
	sock     net.Listener
	pool     *workerpool.Pool
	onConn   OnConn
	log      zerolog.Logger
	metrics  *metrics.Instruments
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	shutdown atomic.Bool
}

func NewServer(
	sock net.Listener, pool *workerpool.Pool, onConn OnConn,
	log zerolog.Logger, instruments *metrics.Instruments,
) *Server {
	if instruments == nil {
		instruments = metrics.Nop()
	}

	return &Server{
		sock:    sock,
		pool:    pool,
		onConn:  onConn,
		log:     log.With().Str("component", "tcp").Logger(),
		metrics: instruments,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start runs the accept loop. It returns status.ErrShutdown if the server was stopped,
// or the accept error otherwise. In both cases, the pool is left untouched.
func (s *Server) Start() error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return status.ErrShutdown
			}

			s.log.Error().Err(err).Msg("accept failed")
			return err
		}

		s.metrics.ConnAccepted()
		s.log.Debug().Stringer("remote", conn.RemoteAddr()).Msg("accepted connection")
		s.track(conn)
		if s.shutdown.Load() {
			// Stop might have already walked over the tracked connections
			s.untrack(conn)
			_ = conn.Close()
			return status.ErrShutdown
		}

		if err = s.pool.Submit(func() { s.handle(conn) }); err != nil {
			s.log.Error().Err(err).Msg("dropping the connection")
			s.untrack(conn)
			_ = conn.Close()
		}
	}
}

func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}

func (s *Server) stopListener() error {
	s.shutdown.Store(true)

	return s.sock.Close()
}

// Stop shuts listener and ALL the connections down
func (s *Server) Stop() error {
	if err := s.stopListener(); err != nil {
		return err
	}

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// GracefulShutdown stops a listener, but leaving all the connections free to end their
// lives peacefully
func (s *Server) GracefulShutdown() error {
	return s.stopListener()
}

func (s *Server) handle(conn net.Conn) {
	defer s.untrack(conn)
	s.onConn(conn)
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}
