// Package proto converts between wire lines and core commands and broadcasts.
//
// Lines follow IRC message framing: an optional ":prefix", a verb and up to
// fifteen parameters, the last of which may be a ":trailing" parameter.
package proto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/horgh/irc"

	"github.com/vovakirdan/chanserv/internal/core"
)

var (
	// ErrMalformed is returned for lines that are not valid IRC framing.
	ErrMalformed = errors.New("malformed line")
	// ErrPrefixNotAllowed is returned when a client line carries a prefix.
	ErrPrefixNotAllowed = errors.New("prefix not allowed")
	// ErrMissingPrefix is returned when a canonical line has no sender prefix.
	ErrMissingPrefix = errors.New("missing sender prefix")
	// ErrNeedMoreParams is returned when a verb has too few parameters.
	ErrNeedMoreParams = errors.New("not enough parameters")
	// ErrTooManyParams is returned when a fixed-arity verb has extra parameters.
	ErrTooManyParams = errors.New("too many parameters")
	// ErrUnknownCommand is returned for verbs the server does not handle.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadFlag is returned when a CREATE flag is neither 0 nor 1.
	ErrBadFlag = errors.New("invite-only flag must be 0 or 1")
)

// ParseLine parses a line typed by the client with connection id senderID,
// currently known as sender. Verbs are case-insensitive.
//
// MESG takes its text from every parameter after the channel, so the ':' in
// front of multi-word text is optional. Every other verb rejects extra
// parameters.
func ParseLine(senderID int, sender, line string) (core.Command, error) {
	msg, err := parse(line)
	if err != nil {
		return nil, err
	}
	if msg.Prefix != "" {
		return nil, ErrPrefixNotAllowed
	}
	return build(core.Origin{ID: senderID, Nick: sender}, msg)
}

// DecodeCanonical parses a canonical command rendering as produced by
// core.Command.String. The prefix becomes the sender's nickname.
func DecodeCanonical(senderID int, line string) (core.Command, error) {
	msg, err := parse(line)
	if err != nil {
		return nil, err
	}
	if msg.Prefix == "" {
		return nil, ErrMissingPrefix
	}
	return build(core.Origin{ID: senderID, Nick: msg.Prefix}, msg)
}

func parse(line string) (irc.Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return irc.Message{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	msg, err := irc.ParseMessage(line + "\r\n")
	if err != nil {
		if errors.Is(err, irc.ErrTruncated) {
			return irc.Message{}, fmt.Errorf("line longer than %d bytes: %w", irc.MaxLineLength, err)
		}
		return irc.Message{}, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	return msg, nil
}

func build(o core.Origin, msg irc.Message) (core.Command, error) {
	p := msg.Params
	need := func(n int) error {
		if len(p) < n {
			return fmt.Errorf("%s: %w", msg.Command, ErrNeedMoreParams)
		}
		return nil
	}
	exact := func(n int) error {
		if err := need(n); err != nil {
			return err
		}
		if len(p) > n {
			return fmt.Errorf("%s: %w", msg.Command, ErrTooManyParams)
		}
		return nil
	}

	switch core.Verb(msg.Command) {
	case core.VerbNick:
		if err := exact(1); err != nil {
			return nil, err
		}
		return &core.NicknameCommand{Origin: o, NewNickname: p[0]}, nil
	case core.VerbCreate:
		if err := exact(2); err != nil {
			return nil, err
		}
		var inviteOnly bool
		switch p[1] {
		case "1":
			inviteOnly = true
		case "0":
		default:
			return nil, fmt.Errorf("%s %q: %w", msg.Command, p[1], ErrBadFlag)
		}
		return &core.CreateCommand{Origin: o, Channel: p[0], InviteOnly: inviteOnly}, nil
	case core.VerbJoin:
		if err := exact(1); err != nil {
			return nil, err
		}
		return &core.JoinCommand{Origin: o, Channel: p[0]}, nil
	case core.VerbMesg:
		if err := need(2); err != nil {
			return nil, err
		}
		return &core.MessageCommand{Origin: o, Channel: p[0], Text: strings.Join(p[1:], " ")}, nil
	case core.VerbLeave:
		if err := exact(1); err != nil {
			return nil, err
		}
		return &core.LeaveCommand{Origin: o, Channel: p[0]}, nil
	case core.VerbInvite:
		if err := exact(2); err != nil {
			return nil, err
		}
		return &core.InviteCommand{Origin: o, Channel: p[0], Target: p[1]}, nil
	case core.VerbKick:
		if err := exact(2); err != nil {
			return nil, err
		}
		return &core.KickCommand{Origin: o, Channel: p[0], Target: p[1]}, nil
	default:
		return nil, fmt.Errorf("%s: %w", msg.Command, ErrUnknownCommand)
	}
}
