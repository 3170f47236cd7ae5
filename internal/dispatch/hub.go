// Package dispatch serialises every connection's lines through one goroutine
// that owns the chat model.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/proto"
)

// ErrStopped is returned once the hub's Run loop has exited.
var ErrStopped = errors.New("hub stopped")

// Snapshot is a read-only copy of the model taken on the hub goroutine.
type Snapshot struct {
	Users    []string
	Channels []core.ChannelInfo
	Clients  int
	Dropped  uint64
}

type inboundLine struct {
	client *Client
	line   string
}

// Hub owns a core.ServerModel and applies commands to it one at a time.
type Hub struct {
	log *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundLine
	snapshots  chan chan Snapshot
	done       chan struct{}

	// Owned by Run.
	model   *core.ServerModel
	clients map[int]*Client
	quit    map[int]chan struct{}
	nextID  int
	dropped uint64
}

// NewHub creates a hub with an empty model.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundLine),
		snapshots:  make(chan chan Snapshot),
		done:       make(chan struct{}),
		model:      core.NewServerModel(),
		clients:    make(map[int]*Client),
		quit:       make(map[int]chan struct{}),
	}
}

// Run processes registrations, lines and snapshot requests until ctx is
// done. On exit every remaining client's Events channel is closed.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.connect(c)
		case c := <-h.unregister:
			h.disconnect(c)
		case in := <-h.inbound:
			h.handleLine(in.client, in.line)
		case reply := <-h.snapshots:
			reply <- h.snapshot()
		}
	}
}

// RegisterClient adds c to the hub. c receives its nickname as the first
// event.
func (h *Hub) RegisterClient(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrStopped
	}
}

// UnregisterClient removes c and tells the users it shared channels with.
// Unregistering a client twice is harmless.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Snapshot returns a copy of the current users and channels.
func (h *Hub) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case h.snapshots <- reply:
	case <-h.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (h *Hub) connect(c *Client) {
	id := h.nextID
	h.nextID++

	c.ID = id
	h.clients[id] = c
	quit := make(chan struct{})
	h.quit[id] = quit
	go h.pump(c, quit)

	b := h.model.Connect(id)
	h.log.Info().Int("client_id", id).Str("session", c.Session).Str("nick", b.Nickname).Msg("client connected")
	h.deliver(c, Event{Broadcast: b, Recipient: b.Nickname})
}

func (h *Hub) disconnect(c *Client) {
	if !h.current(c) {
		return
	}
	id := c.ID
	delete(h.clients, id)
	close(h.quit[id])
	delete(h.quit, id)
	close(c.Events)

	b := h.model.Disconnect(id)
	if b == nil {
		return
	}
	h.log.Info().Int("client_id", id).Str("session", c.Session).Str("nick", b.Nickname).
		Strs("notified", b.Recipients).Msg("client disconnected")
	h.route(b)
}

func (h *Hub) handleLine(c *Client, line string) {
	if !h.current(c) {
		return
	}

	nick, _ := h.model.Nickname(c.ID)
	cmd, err := proto.ParseLine(c.ID, nick, line)
	if err != nil {
		h.log.Debug().Err(err).Int("client_id", c.ID).Str("line", line).Msg("rejected line")
		h.deliver(c, Event{Recipient: nick, Err: err})
		return
	}

	b := h.model.Apply(cmd)
	ev := h.log.Debug()
	if !b.Succeeded() {
		ev = ev.Str("error", string(b.Error))
	}
	ev.Int("client_id", c.ID).Str("cmd", cmd.String()).Str("result", b.Kind.String()).Msg("command applied")

	if b.Kind == core.BroadcastError {
		h.deliver(c, Event{Broadcast: b, Recipient: cmd.Sender()})
		return
	}
	h.route(b)
}

// route delivers b to every listed recipient that is still connected.
func (h *Hub) route(b *core.Broadcast) {
	for _, nick := range b.Recipients {
		id, ok := h.model.UserID(nick)
		if !ok {
			continue
		}
		if c, ok := h.clients[id]; ok {
			h.deliver(c, Event{Broadcast: b, Recipient: nick})
		}
	}
}

func (h *Hub) deliver(c *Client, ev Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
		h.dropped++
		h.log.Warn().Int("client_id", c.ID).Str("session", c.Session).Msg("client event queue full, dropping event")
	}
}

// pump forwards c's lines to the hub until c is unregistered or the hub
// stops. It runs on its own goroutine so that Run never waits on a client.
func (h *Hub) pump(c *Client, quit <-chan struct{}) {
	for {
		select {
		case line, ok := <-c.Lines:
			if !ok {
				return
			}
			select {
			case h.inbound <- inboundLine{client: c, line: line}:
			case <-quit:
				return
			case <-h.done:
				return
			}
		case <-quit:
			return
		case <-h.done:
			return
		}
	}
}

func (h *Hub) current(c *Client) bool {
	known, ok := h.clients[c.ID]
	return ok && known == c
}

func (h *Hub) snapshot() Snapshot {
	return Snapshot{
		Users:    h.model.RegisteredUsers(),
		Channels: h.model.ChannelInfos(),
		Clients:  len(h.clients),
		Dropped:  h.dropped,
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for id, c := range h.clients {
		close(c.Events)
		delete(h.clients, id)
	}
	h.quit = make(map[int]chan struct{})
}
