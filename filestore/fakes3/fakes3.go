// Package fakes3 runs an in-memory S3-compatible server. Tests start one per test
// and the CLI serves one for local experiments.
package fakes3

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/code19m/errx"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"

	"github.com/rise-and-shine/mediasniff/logger"
)

const (
	// Region is the region the fake server answers for.
	Region = "us-east-1"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is a running fake S3 endpoint backed by memory.
type Server struct {
	backend  *s3mem.Backend
	listener net.Listener
	srv      *http.Server
	done     chan error
	log      logger.Logger
}

// Start listens on addr ("127.0.0.1:0" picks a free port), creates buckets and
// starts serving in the background.
func Start(addr string, buckets ...string) (*Server, error) {
	backend := s3mem.New()
	for _, bucket := range buckets {
		if err := backend.CreateBucket(bucket); err != nil {
			return nil, errx.New("failed to create fake bucket", errx.WithDetails(errx.D{
				"bucket": bucket,
				"error":  err.Error(),
			}))
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errx.New("failed to listen", errx.WithDetails(errx.D{"addr": addr, "error": err.Error()}))
	}

	s := &Server{
		backend:  backend,
		listener: listener,
		srv: &http.Server{
			Handler:           gofakes3.New(backend).Server(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		done: make(chan error, 1),
		log:  logger.Named("fakes3"),
	}

	go func() {
		err := s.srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	s.log.With("addr", s.Addr()).Info("fake S3 server started")
	return s, nil
}

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// URL is the http base URL of the server.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// CreateBucket adds a bucket after start.
func (s *Server) CreateBucket(name string) error {
	if err := s.backend.CreateBucket(name); err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// Wait blocks until the server stops and returns its serve error.
func (s *Server) Wait() error {
	err := <-s.done
	s.done <- err
	return err
}

// Close shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return errx.Wrap(err)
	}
	return s.Wait()
}
