package minihttp

import (
	"fmt"
	"net"
	"sync"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/handlers"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/address"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/internal/server/http"
	"github.com/indigo-web/minihttp/internal/server/tcp"
	"github.com/indigo-web/minihttp/internal/workerpool"
	"github.com/indigo-web/minihttp/router"
	"github.com/indigo-web/minihttp/router/inbuilt"
	"github.com/indigo-web/minihttp/storage"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// App binds the listener, the worker pool and the router together.
type App struct {
	addr     address.Address
	cfg      *config.Config
	log      zerolog.Logger
	provider metric.MeterProvider
	hooks    hooks

	mu      sync.Mutex
	server  *tcp.Server
	stopped bool
}

// New returns a new App instance. Panics if the address is malformed.
func New(addr string) *App {
	appAddr, err := address.Parse(addr)
	if err != nil {
		panic(fmt.Errorf("minihttp: listen: bad addr: %v", err))
	}

	return &App{
		addr: appAddr,
		cfg:  config.Default(),
		log:  zerolog.Nop(),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger sets the logger. By default, nothing is logged.
func (a *App) Logger(log zerolog.Logger) *App {
	a.log = log
	return a
}

// MeterProvider sets the provider metric instruments are created by. The global one
// is used by default.
func (a *App) MeterProvider(provider metric.MeterProvider) *App {
	a.provider = provider
	return a
}

// NotifyOnStart calls the callback once the listener is bound, so Addr is already
// known at the moment.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback once the server is down and every worker has exited.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve runs the server until it's stopped. If nil is passed instead of a router, the
// default endpoints are served, storing files under the configured root.
// status.ErrShutdown is returned after Stop or GracefulStop.
func (a *App) Serve(r router.Router) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if r == nil {
		store, err := storage.NewDir(a.cfg.Storage.Root)
		if err != nil {
			return err
		}

		r = handlers.Register(inbuilt.New(), store)
	}

	if err := r.OnStart(); err != nil {
		return err
	}

	instruments, err := metrics.New(a.provider)
	if err != nil {
		return err
	}

	pool, err := workerpool.New(
		a.cfg.Pool.Workers,
		workerpool.WithLogger(a.log.With().Str("component", "pool").Logger()),
		workerpool.WithMetrics(instruments),
	)
	if err != nil {
		return err
	}

	sock, err := net.Listen("tcp", a.addr.String())
	if err != nil {
		pool.Close()
		return err
	}

	defer func() {
		pool.Close()
		pool.Wait()
		a.log.Info().Msg("server stopped")
		callIfNotNil(a.hooks.OnStop)
	}()

	httpServer := http.NewServer(r, a.cfg, a.log, instruments)
	server := tcp.NewServer(sock, pool, a.newTCPCallback(httpServer), a.log, instruments)

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		_ = sock.Close()
		return status.ErrShutdown
	}
	a.server = server
	a.mu.Unlock()

	a.log.Info().
		Stringer("addr", sock.Addr()).
		Int("workers", pool.Size()).
		Msg("server started")
	callIfNotNil(a.hooks.OnStart)

	return server.Start()
}

// Addr returns the address the server listens on, or nil if it isn't started yet.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return nil
	}

	return a.server.Addr()
}

// GracefulStop stops accepting new connections. Already accepted ones are served
// till the end before Serve returns.
func (a *App) GracefulStop() error {
	return a.stop(func(server *tcp.Server) error {
		return server.GracefulShutdown()
	})
}

// Stop stops accepting new connections and closes the active ones.
func (a *App) Stop() error {
	return a.stop(func(server *tcp.Server) error {
		return server.Stop()
	})
}

func (a *App) stop(how func(server *tcp.Server) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	if a.server == nil {
		return nil
	}

	return how(a.server)
}

func (a *App) newTCPCallback(httpServer *http.Server) tcp.OnConn {
	return func(conn net.Conn) {
		client := tcp.NewClient(
			conn,
			a.cfg.NET.ReadTimeout,
			a.cfg.NET.WriteTimeout,
			make([]byte, a.cfg.NET.ReadBufferSize),
		)
		httpServer.HandleConn(client)
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
