package httpserver

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"multisib/backend/services/collector-service/internal/http/handlers"
)

func TestServer_RunAndShutdown(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", NewRouter(Routes{Health: handlers.NewHealthHandler()}), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServer_PortInUse(t *testing.T) {
	first, err := NewServer("127.0.0.1:0", http.NewServeMux(), zap.NewNop())
	require.NoError(t, err)
	defer first.listener.Close()

	_, err = NewServer(first.Addr(), http.NewServeMux(), zap.NewNop())
	assert.Error(t, err)
}
