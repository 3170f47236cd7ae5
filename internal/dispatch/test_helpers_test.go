package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/proto"
)

const testServer = "test"

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub, cancel
}

// join registers a new client and consumes its connected event.
func join(t *testing.T, hub *Hub) *Client {
	t.Helper()

	c := NewClient("session", 8)
	if err := hub.RegisterClient(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	ev := mustEvent(t, c)
	if ev.Broadcast == nil || ev.Broadcast.Kind != core.BroadcastConnected {
		t.Fatalf("expected connected event, got %+v", ev)
	}
	return c
}

func mustEvent(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case ev, ok := <-c.Events:
		if !ok {
			t.Fatalf("events closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
	}
	return Event{}
}

// mustLine waits for the next event and checks its wire rendering.
func mustLine(t *testing.T, c *Client, want string) {
	t.Helper()

	ev := mustEvent(t, c)
	var got string
	if ev.Err != nil {
		got = proto.EncodeProtocolError(testServer, ev.Recipient, ev.Err)
	} else {
		var err error
		got, err = proto.EncodeFor(ev.Broadcast, ev.Recipient, testServer)
		if err != nil {
			t.Fatalf("encode %s: %v", ev.Broadcast, err)
		}
	}
	if got != want {
		t.Fatalf("line = %q, wanted %q", got, want)
	}
}

func mustBeQuiet(t *testing.T, c *Client) {
	t.Helper()

	select {
	case ev := <-c.Events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
