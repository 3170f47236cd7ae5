package http

import (
	"errors"

	"github.com/horgh/irc"

	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/dispatch"
	"github.com/vovakirdan/chanserv/internal/proto"
)

// unknownNick stands in for the recipient of replies sent before the hub
// knows who the connection is.
const unknownNick = "*"

// eventToLine renders the wire line for one hub event. A truncated line is
// returned with irc.ErrTruncated and should still be sent.
func eventToLine(ev dispatch.Event, serverName string) (string, error) {
	if ev.Err != nil {
		nick := ev.Recipient
		if nick == "" {
			nick = unknownNick
		}
		return proto.EncodeProtocolError(serverName, nick, ev.Err), nil
	}
	if ev.Broadcast == nil {
		return "", errors.New("event has neither broadcast nor error")
	}
	return proto.EncodeFor(ev.Broadcast, ev.Recipient, serverName)
}

// sendable reports whether a line produced alongside err may still go out.
func sendable(err error) bool {
	return err == nil || errors.Is(err, irc.ErrTruncated)
}

// channelResponse converts a model snapshot entry for the monitoring API.
func channelResponse(ch core.ChannelInfo) ChannelResponse {
	members := ch.Members
	if members == nil {
		members = []string{}
	}
	return ChannelResponse{
		Name:    ch.Name,
		Owner:   ch.Owner,
		Private: ch.Private,
		Members: members,
	}
}
