// Package server serves the file browser via HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"gamepanel.dev/fileview/site"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// Server serves the file index of a site and the files in it. The site can be replaced while
// serving, requests in flight finish with the site they started with.
type Server struct {
	http    *http.Server
	handler *handler
	addr    net.Addr
	errc    chan error
}

// Run listens on addr and serves s in a new goroutine.
func Run(addr string, s *site.Site) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %v", addr, err)
	}
	return Serve(l, s), nil
}

// Serve serves s on l in a new goroutine. The server closes l when it shuts down.
func Serve(l net.Listener, s *site.Site) *Server {
	h := &handler{}
	h.site.Store(s)

	srv := &Server{
		http: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
		handler: h,
		addr:    l.Addr(),
		errc:    make(chan error, 1),
	}
	go func() {
		if err := srv.http.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			srv.errc <- err
		}
	}()
	return srv
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string { return s.addr.String() }

// Site returns the site currently served.
func (s *Server) Site() *site.Site { return s.handler.site.Load() }

// ReplaceSite makes the server serve site for all requests that arrive from now on.
func (s *Server) ReplaceSite(site *site.Site) {
	s.handler.site.Store(site)
}

// Shutdown stops accepting requests and waits for the ones in flight, or until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %v", err)
	}
	return nil
}

// Error returns a channel that receives the error if serving fails. It doesn't receive
// anything after a shutdown.
func (s *Server) Error() <-chan error {
	return s.errc
}
