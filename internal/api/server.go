package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// ServerConfig captures the settings for serving the API.
type ServerConfig struct {
	Addr    string
	Handler http.Handler
	// Ready, when set, receives the bound address once the listener is open.
	Ready func(addr string)
}

// Serve listens on Addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg ServerConfig) error {
	if ctx == nil {
		return errors.New("api: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("api: addr is required")
	}
	if cfg.Handler == nil {
		return errors.New("api: handler is required")
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.Ready != nil {
		cfg.Ready(listener.Addr().String())
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
