package core

import (
	"fmt"
	"strings"
)

// BroadcastKind tags the variant carried by a Broadcast.
type BroadcastKind int

const (
	// BroadcastConnected tells a new connection its assigned nickname.
	BroadcastConnected BroadcastKind = iota
	// BroadcastDisconnected tells everyone who shared a channel with the
	// departing user that they left.
	BroadcastDisconnected
	// BroadcastOkay reports a successful command to its recipients.
	BroadcastOkay
	// BroadcastNames reports a successful join or invite and carries the
	// channel owner.
	BroadcastNames
	// BroadcastError reports a rejected command to its sender.
	BroadcastError
)

func (k BroadcastKind) String() string {
	switch k {
	case BroadcastConnected:
		return "connected"
	case BroadcastDisconnected:
		return "disconnected"
	case BroadcastOkay:
		return "okay"
	case BroadcastNames:
		return "names"
	case BroadcastError:
		return "error"
	default:
		return fmt.Sprintf("BroadcastKind(%d)", int(k))
	}
}

// Broadcast is the outcome of a lifecycle event or command: what happened and
// which users must be told.
//
// Which fields are set depends on Kind:
//
//	Connected     Nickname
//	Disconnected  Nickname, Recipients
//	Okay          Command, Recipients
//	Names         Command, Recipients, Owner
//	Error         Command, Error
type Broadcast struct {
	Kind       BroadcastKind
	Nickname   string
	Command    Command
	Recipients []string
	Owner      string
	Error      ErrorKind
}

// Connected builds the broadcast sent to a freshly registered user.
func Connected(nickname string) *Broadcast {
	return &Broadcast{Kind: BroadcastConnected, Nickname: nickname}
}

// Disconnected builds the broadcast announcing that nickname left.
func Disconnected(nickname string, recipients []string) *Broadcast {
	return &Broadcast{Kind: BroadcastDisconnected, Nickname: nickname, Recipients: recipients}
}

// Okay builds a success broadcast for cmd.
func Okay(cmd Command, recipients []string) *Broadcast {
	return &Broadcast{Kind: BroadcastOkay, Command: cmd, Recipients: recipients}
}

// Names builds a success broadcast for a membership change that also
// carries the channel owner.
func Names(cmd Command, recipients []string, owner string) *Broadcast {
	return &Broadcast{Kind: BroadcastNames, Command: cmd, Recipients: recipients, Owner: owner}
}

// Failure builds an error broadcast for cmd.
func Failure(cmd Command, kind ErrorKind) *Broadcast {
	return &Broadcast{Kind: BroadcastError, Command: cmd, Error: kind}
}

// Succeeded reports whether the broadcast is anything other than an error.
func (b *Broadcast) Succeeded() bool {
	return b.Kind != BroadcastError
}

func (b *Broadcast) String() string {
	var sb strings.Builder
	sb.WriteString(b.Kind.String())
	if b.Command != nil {
		fmt.Fprintf(&sb, " %q", b.Command.String())
	}
	switch b.Kind {
	case BroadcastConnected:
		fmt.Fprintf(&sb, " nick=%s", b.Nickname)
	case BroadcastDisconnected:
		fmt.Fprintf(&sb, " nick=%s to=%v", b.Nickname, b.Recipients)
	case BroadcastOkay:
		fmt.Fprintf(&sb, " to=%v", b.Recipients)
	case BroadcastNames:
		fmt.Fprintf(&sb, " to=%v owner=%s", b.Recipients, b.Owner)
	case BroadcastError:
		fmt.Fprintf(&sb, " %s", b.Error)
	}
	return sb.String()
}
