package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/rs/cors"
	"github.com/w-h-a/wingman/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options  server.Options
	server   *http.Server
	listener net.Listener
	mtx      sync.Mutex
}

// Start listens on the configured address and serves until Stop.
func (s *httpServer) Start() error {
	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.listener = ln
	s.mtx.Unlock()

	slog.InfoContext(s.options.Context, "http server listening", "address", ln.Addr().String())

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.options.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Address is the bound address once Start has begun listening.
func (s *httpServer) Address() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.listener == nil {
		return s.options.Address
	}

	return s.listener.Addr().String()
}

func NewServer(handler http.Handler, opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	if handler == nil {
		panic("handler is required")
	}

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	if origins, ok := AllowedOriginsFrom(options.Context); ok && len(origins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(handler)
	}

	return &httpServer{
		options: options,
		server: &http.Server{
			Addr:    options.Address,
			Handler: otelhttp.NewHandler(handler, "wingman"),
		},
	}
}
