package main

import (
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"lostfound/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		Port:          strconv.Itoa(busy.Addr().(*net.TCPAddr).Port),
		SiteURL:       "http://localhost",
		DatabaseURL:   "sqlite:" + filepath.Join(dir, "lf.db"),
		SessionSecret: "test-secret",
		UploadDir:     filepath.Join(dir, "uploads"),
		MaxUploadMB:   1,
		ListCacheTTL:  time.Second,
	}
	core, logs := observer.New(zapcore.InfoLevel)

	done := make(chan error, 1)
	go func() { done <- run(cfg, zap.New(core).Sugar()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "serve")
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after the listen failure")
	}

	assert.Equal(t, 1, logs.FilterMessage("item store ready").Len())
	assert.Zero(t, logs.FilterMessage("failed to close item store").Len())
}
