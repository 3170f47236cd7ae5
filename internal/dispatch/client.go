package dispatch

import "github.com/vovakirdan/chanserv/internal/core"

// Event is something the hub delivers to one client: either a broadcast the
// client is a recipient of, or the error for a line it sent that could not
// be parsed.
type Event struct {
	Broadcast *core.Broadcast
	// Recipient is the client's nickname when the event was routed.
	Recipient string
	// Err is set instead of Broadcast for unparsable lines.
	Err error
}

// Client is one connection as seen by the hub.
//
// The transport writes raw lines to Lines and reads Events until the hub
// closes it.
type Client struct {
	// ID is assigned by the hub on registration. It is safe to read once the
	// connected event has been received from Events.
	ID      int
	Session string
	Lines   chan string
	Events  chan Event
}

// NewClient constructs a client with channels of the given capacity.
func NewClient(session string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 1
	}
	return &Client{
		ID:      -1,
		Session: session,
		Lines:   make(chan string, buffer),
		Events:  make(chan Event, buffer),
	}
}
