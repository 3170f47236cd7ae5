package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/dispatch"
)

type testEnv struct {
	ts  *httptest.Server
	hub *dispatch.Hub
}

// startTestServer runs a hub and the full router. The hub is stopped and the
// server closed when the test ends.
func startTestServer(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.ServerName = "test"
	for _, m := range mutate {
		m(&cfg)
	}

	nop := zerolog.Nop()
	hub := dispatch.NewHub(&nop)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	ts := httptest.NewServer(NewServer(hub, cfg, &nop).Handler)
	t.Cleanup(func() {
		cancel()
		<-done
		ts.Close()
	})

	return &testEnv{ts: ts, hub: hub}
}
