package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/dispatch"
	"github.com/vovakirdan/chanserv/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to dispatch.Client.
//
// Each text frame from the peer carries one or more newline-separated lines;
// each event for the peer is written as one text frame holding one line.
type WSHandler struct {
	hub *dispatch.Hub
	cfg config.Config
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *dispatch.Hub, cfg config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	conn.SetReadLimit(h.cfg.MaxMessageBytes)

	client := dispatch.NewClient(utils.NewSessionID(), h.cfg.ClientBuffer)
	logger := h.log.With().Str("session", client.Session).Str("remote", r.RemoteAddr).Logger()

	if err := h.hub.RegisterClient(client); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.hub.UnregisterClient(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, &logger)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client, &logger)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status, reason := closeStatus(err)
	if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
		logger.Warn().Err(err).Msg("ws connection closed with error")
	}
	conn.Close(status, reason)
}

// closeStatus picks the close frame for the error that ended a connection.
func closeStatus(err error) (websocket.StatusCode, string) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return websocket.StatusNormalClosure, "closing"
	}
	switch s := websocket.CloseStatus(err); s {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return s, "closing"
	case -1:
		return websocket.StatusInternalError, err.Error()
	default:
		return s, err.Error()
	}
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *dispatch.Client, logger *zerolog.Logger) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("read ws frame")
			return err
		}
		if typ != websocket.MessageText {
			return errors.New("binary frames are not supported")
		}

		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			select {
			case client.Lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *dispatch.Client, logger *zerolog.Logger) error {
	for {
		select {
		case ev, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := h.writeLine(ctx, conn, ev); err != nil {
				logger.Error().Err(err).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// writeLine encodes ev and sends it as one text frame.
func (h *WSHandler) writeLine(ctx context.Context, conn *websocket.Conn, ev dispatch.Event) error {
	line, err := eventToLine(ev, h.cfg.ServerName)
	if !sendable(err) {
		h.log.Error().Err(err).Msg("encode event")
		return nil
	}
	return conn.Write(ctx, websocket.MessageText, []byte(line))
}
