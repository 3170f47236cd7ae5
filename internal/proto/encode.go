package proto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/horgh/irc"

	"github.com/vovakirdan/chanserv/internal/core"
)

// Server-originated verbs.
const (
	VerbConnected = "CONNECTED"
	VerbQuit      = "QUIT"
	VerbNames     = "NAMES"
	VerbError     = "ERROR"
)

// EncodeFor renders the line recipient receives for b, without CRLF.
//
// Lines longer than irc.MaxLineLength are cut and returned together with
// irc.ErrTruncated; the shortened line is still usable.
func EncodeFor(b *core.Broadcast, recipient, serverName string) (string, error) {
	switch b.Kind {
	case core.BroadcastConnected:
		return encode(irc.Message{Prefix: serverName, Command: VerbConnected, Params: []string{b.Nickname}})
	case core.BroadcastDisconnected:
		return encode(irc.Message{Prefix: b.Nickname, Command: VerbQuit})
	case core.BroadcastOkay:
		return fit(b.Command.String())
	case core.BroadcastNames:
		if recipient != addedMember(b.Command) {
			return fit(b.Command.String())
		}
		return fit(fmt.Sprintf(":%s %s %s :%s", serverName, VerbNames, channelOf(b.Command), namesList(b.Recipients, b.Owner)))
	case core.BroadcastError:
		return fit(fmt.Sprintf(":%s %03d %s %s :%s", serverName, b.Error.Code(), b.Command.Sender(), b.Error, b.Command))
	default:
		return "", fmt.Errorf("unknown broadcast kind %s", b.Kind)
	}
}

// EncodeProtocolError renders the reply to a line that could not be parsed.
func EncodeProtocolError(serverName, nick string, err error) string {
	line, _ := fit(fmt.Sprintf(":%s %s %s :%s", serverName, VerbError, nick, err))
	return line
}

// addedMember is the user whose membership a Names broadcast reports.
func addedMember(cmd core.Command) string {
	if inv, ok := cmd.(*core.InviteCommand); ok {
		return inv.Target
	}
	return cmd.Sender()
}

func channelOf(cmd core.Command) string {
	switch c := cmd.(type) {
	case *core.JoinCommand:
		return c.Channel
	case *core.InviteCommand:
		return c.Channel
	default:
		return ""
	}
}

func namesList(members []string, owner string) string {
	out := make([]string, len(members))
	for i, m := range members {
		if m == owner {
			m = "@" + m
		}
		out[i] = m
	}
	return strings.Join(out, " ")
}

func encode(m irc.Message) (string, error) {
	s, err := m.Encode()
	return strings.TrimSuffix(s, "\r\n"), err
}

// fit cuts line so that it and its CRLF fit in irc.MaxLineLength bytes. The
// cut never splits a UTF-8 sequence.
func fit(line string) (string, error) {
	if len(line)+2 <= irc.MaxLineLength {
		return line, nil
	}
	cut := irc.MaxLineLength - 2
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut], irc.ErrTruncated
}
