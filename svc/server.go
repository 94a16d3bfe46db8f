package svc

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/remind101/gamp/logger"
)

// NewServerOpt allows users to customize the http.Server used by RunServer.
type NewServerOpt func(*http.Server)

// ServerDefaults specifies default server options to use for RunServer.
var ServerDefaults = func(srv *http.Server) {
	srv.Addr = ":8080"
	// Leaves room for the synchronous tracking call after the handler.
	srv.WriteTimeout = 15 * time.Second
	srv.ReadHeaderTimeout = 5 * time.Second
	srv.IdleTimeout = 120 * time.Second
}

// WithPort sets the port for the server to run on.
func WithPort(port string) NewServerOpt {
	return func(srv *http.Server) {
		srv.Addr = ":" + port
	}
}

// NewServer offers some convenience and good defaults for creating an http.Server
func NewServer(h http.Handler, opts ...NewServerOpt) *http.Server {
	srv := &http.Server{Handler: h}

	// Prepend defaults to server options.
	opts = append([]NewServerOpt{ServerDefaults}, opts...)
	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// RunServer handles the boilerplate of starting an http server and handling
// signals gracefully. onShutdown funcs run after the server stopped
// accepting requests.
func RunServer(srv *http.Server, onShutdown ...func()) error {
	idleConnsClosed := make(chan struct{})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigCh
		logger.DefaultLogger.Info("Received signal, stopping.", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			logger.DefaultLogger.Error("HTTP server Shutdown", "error", err)
		}
		for _, fn := range onShutdown {
			fn()
		}
		close(idleConnsClosed)
	}()

	logger.DefaultLogger.Info("HTTP server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-idleConnsClosed
	return nil
}
