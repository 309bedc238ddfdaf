package mockapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

const DefaultAddr = "localhost:8000"

const DefaultShutdownTimeout = 5 * time.Second

// Server answers the endpoint table on a real socket. Each connection is
// served on its own goroutine; Stop waits for all of them.
type Server struct {
	table
	addr string
	log  logrus.FieldLogger
	// ShutdownTimeout bounds the graceful part of Stop before open
	// connections are closed hard.
	ShutdownTimeout time.Duration

	srv    *http.Server
	ln     net.Listener
	conns  sync.WaitGroup
	served chan struct{}

	stopOnce sync.Once
	stopErr  error
}

var _ Mock = (*Server)(nil)

func NewServer(addr string, log logrus.FieldLogger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:            addr,
		log:             logging.OrDiscard(log).WithField("mock", "server"),
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Start binds the listener and begins serving in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mock server listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second, ConnState: s.track}
	s.served = make(chan struct{})

	go func() {
		defer close(s.served)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("mock server stopped with error")
		}
	}()
	s.log.WithField("url", s.URL()).Info("mock HTTP server started")
	return nil
}

// URL is the base URL of the listener, or empty before Start.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// track counts connections from the serve loop, which reports StateNew before
// it can return, so every Add happens before Stop waits.
func (s *Server) track(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.conns.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.conns.Done()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	status, payload := s.answer(r.Method, r.URL.Path, r.URL.RawQuery, body)
	s.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).Debug("mock request")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (s *Server) Register(endpoints ...Endpoint) error { return s.register(endpoints...) }
func (s *Server) Endpoints() []Endpoint                { return s.snapshotEndpoints() }
func (s *Server) Requests() []Request                  { return s.snapshotRequests() }
func (s *Server) Reset()                               { s.reset() }

// Stop shuts the listener down gracefully, falling back to a hard close, and
// joins the serve loop and every connection.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		if s.srv == nil {
			return
		}
		s.log.Info("shutting down mock HTTP server")

		ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(ctx); err != nil {
			s.log.WithError(err).Warn("graceful shutdown timed out, closing connections")
			s.stopErr = s.srv.Close()
		}
		<-s.served
		s.conns.Wait()
		s.log.Info("mock HTTP server shut down")
	})
	return s.stopErr
}
