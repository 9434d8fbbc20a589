package cmd

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workday-poller/internal/logging"
)

func TestServeUntilShutdown(t *testing.T) {
	t.Run("shuts down cleanly and logs termination on cancellation", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWithWriter(&buf, nil)

		srv := &http.Server{Addr: "127.0.0.1:0"}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := serveUntilShutdown(ctx, srv, logger)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Received signal to terminate. Exiting gracefully...")
	})

	t.Run("surfaces a listen failure", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWithWriter(&buf, nil)

		srv := &http.Server{Addr: "256.256.256.256:0"}

		err := serveUntilShutdown(context.Background(), srv, logger)
		require.Error(t, err)
		assert.NotContains(t, buf.String(), "Received signal to terminate")
	})
}
