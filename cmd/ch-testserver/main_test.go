package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--port", "9090",
		"--presenter-id", "P",
		"--authentication", "A",
		"--company-auth-code", "C",
		"--fail-auth",
		"--delay", "250ms",
	}))

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 9090, port)

	delay, err := cmd.Flags().GetDuration("delay")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, delay)

	failAuth, err := cmd.Flags().GetBool("fail-auth")
	require.NoError(t, err)
	assert.True(t, failAuth)
}

func TestRun(t *testing.T) {
	opts := &options{host: "127.0.0.1", port: 0, quiet: true}
	opts.config.PresenterID = "P"

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, &out, opts)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Contains(t, out.String(), "/v1-0/xmlgw/Gateway")
	assert.Contains(t, out.String(), "Presenter ID: P")
	assert.Contains(t, out.String(), "Shutting down")
}
