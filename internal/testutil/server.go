package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ServerInstance represents a running HTTP test server.
type ServerInstance struct {
	BaseURL string
	Close   func()
}

// StartServer serves handler on a loopback port until the test ends.
func StartServer(t *testing.T, handler http.Handler) *ServerInstance {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &ServerInstance{BaseURL: srv.URL, Close: srv.Close}
}
