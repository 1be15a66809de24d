package api_test

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beantunes235/fantasyforge/internal/api"
	"github.com/beantunes235/fantasyforge/internal/testutil"
)

func TestServerRunStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	srv := api.NewServer(http.NotFoundHandler(), api.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ShutdownTimeout: time.Second,
	}, testutil.NopLogger())

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRunReportsListenError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	port := listener.Addr().(*net.TCPAddr).Port
	srv := api.NewServer(http.NotFoundHandler(), api.ServerConfig{
		Host:            "127.0.0.1",
		Port:            port,
		ShutdownTimeout: time.Second,
	}, testutil.NopLogger())

	assert.Equal(t, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), srv.Addr())
	assert.Error(t, srv.Run(t.Context()))
}
