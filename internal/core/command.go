package core

import "fmt"

// Verb names a client action in the canonical rendering.
type Verb string

// Verbs understood by the server.
const (
	VerbNick   Verb = "NICK"
	VerbCreate Verb = "CREATE"
	VerbJoin   Verb = "JOIN"
	VerbMesg   Verb = "MESG"
	VerbLeave  Verb = "LEAVE"
	VerbInvite Verb = "INVITE"
	VerbKick   Verb = "KICK"
)

// Command is an action requested by a connected user.
//
// The set of commands is closed: only the types in this file implement it.
type Command interface {
	// SenderID is the connection id of the user who issued the command.
	SenderID() int
	// Sender is the issuer's nickname at dispatch time.
	Sender() string
	// Verb identifies the command kind.
	Verb() Verb
	// String is the canonical rendering, ":<sender> <VERB> <args...>".
	String() string

	apply(m *ServerModel) *Broadcast
}

// Equal reports whether two commands have the same canonical rendering.
func Equal(a, b Command) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Origin identifies who issued a command. Every command embeds it.
type Origin struct {
	ID   int
	Nick string
}

// SenderID returns the issuer's connection id.
func (o Origin) SenderID() int { return o.ID }

// Sender returns the issuer's nickname.
func (o Origin) Sender() string { return o.Nick }

// NicknameCommand renames the sender.
type NicknameCommand struct {
	Origin
	NewNickname string
}

func (c *NicknameCommand) Verb() Verb { return VerbNick }

func (c *NicknameCommand) String() string {
	return fmt.Sprintf(":%s %s %s", c.Nick, VerbNick, c.NewNickname)
}

func (c *NicknameCommand) apply(m *ServerModel) *Broadcast {
	if !IsValidName(c.NewNickname) {
		return Failure(c, ErrInvalidName)
	}
	if m.users.registered(c.NewNickname) {
		return Failure(c, ErrNameAlreadyInUse)
	}
	m.users.rename(c.ID, c.NewNickname)
	return Okay(c, m.users.nicknames())
}

// CreateCommand creates a channel owned by the sender.
type CreateCommand struct {
	Origin
	Channel    string
	InviteOnly bool
}

func (c *CreateCommand) Verb() Verb { return VerbCreate }

func (c *CreateCommand) String() string {
	flag := 0
	if c.InviteOnly {
		flag = 1
	}
	return fmt.Sprintf(":%s %s %s %d", c.Nick, VerbCreate, c.Channel, flag)
}

func (c *CreateCommand) apply(m *ServerModel) *Broadcast {
	if m.channels.exists(c.Channel) {
		return Failure(c, ErrChannelAlreadyExists)
	}
	if !IsValidName(c.Channel) {
		return Failure(c, ErrInvalidName)
	}
	m.channels.create(c.Channel, m.sender(c), c.InviteOnly)
	return Okay(c, []string{c.Nick})
}

// JoinCommand adds the sender to a public channel.
type JoinCommand struct {
	Origin
	Channel string
}

func (c *JoinCommand) Verb() Verb { return VerbJoin }

func (c *JoinCommand) String() string {
	return fmt.Sprintf(":%s %s %s", c.Nick, VerbJoin, c.Channel)
}

func (c *JoinCommand) apply(m *ServerModel) *Broadcast {
	ch, ok := m.channels.get(c.Channel)
	if !ok {
		return Failure(c, ErrNoSuchChannel)
	}
	if ch.private {
		return Failure(c, ErrJoinPrivateChannel)
	}
	m.channels.addMember(m.sender(c), c.Channel)
	return Names(c, ch.nicknames(), ch.ownerName())
}

// MessageCommand posts text to every member of a channel.
type MessageCommand struct {
	Origin
	Channel string
	Text    string
}

func (c *MessageCommand) Verb() Verb { return VerbMesg }

func (c *MessageCommand) String() string {
	return fmt.Sprintf(":%s %s %s :%s", c.Nick, VerbMesg, c.Channel, c.Text)
}

func (c *MessageCommand) apply(m *ServerModel) *Broadcast {
	ch, ok := m.channels.get(c.Channel)
	if !ok {
		return Failure(c, ErrNoSuchChannel)
	}
	if !ch.has(m.sender(c)) {
		return Failure(c, ErrUserNotInChannel)
	}
	return Okay(c, ch.nicknames())
}

// LeaveCommand removes the sender from a channel. An owner leaving destroys
// the channel.
type LeaveCommand struct {
	Origin
	Channel string
}

func (c *LeaveCommand) Verb() Verb { return VerbLeave }

func (c *LeaveCommand) String() string {
	return fmt.Sprintf(":%s %s %s", c.Nick, VerbLeave, c.Channel)
}

func (c *LeaveCommand) apply(m *ServerModel) *Broadcast {
	ch, ok := m.channels.get(c.Channel)
	if !ok {
		return Failure(c, ErrNoSuchChannel)
	}
	if !ch.has(m.sender(c)) {
		return Failure(c, ErrUserNotInChannel)
	}
	before := ch.nicknames()
	m.channels.removeMember(m.sender(c), c.Channel)
	return Okay(c, before)
}

// InviteCommand adds a user to an invite-only channel owned by the sender.
type InviteCommand struct {
	Origin
	Channel string
	Target  string
}

func (c *InviteCommand) Verb() Verb { return VerbInvite }

func (c *InviteCommand) String() string {
	return fmt.Sprintf(":%s %s %s %s", c.Nick, VerbInvite, c.Channel, c.Target)
}

func (c *InviteCommand) apply(m *ServerModel) *Broadcast {
	ch, ok := m.channels.get(c.Channel)
	if !ok {
		return Failure(c, ErrNoSuchChannel)
	}
	target, ok := m.users.byNickname(c.Target)
	if !ok {
		return Failure(c, ErrNoSuchUser)
	}
	if !ch.private {
		return Failure(c, ErrInviteToPublicChannel)
	}
	if !ch.ownedBy(m.sender(c)) {
		return Failure(c, ErrUserNotOwner)
	}
	m.channels.addMember(target, c.Channel)
	return Names(c, ch.nicknames(), ch.ownerName())
}

// KickCommand removes a user from a channel owned by the sender. Kicking the
// owner destroys the channel.
type KickCommand struct {
	Origin
	Channel string
	Target  string
}

func (c *KickCommand) Verb() Verb { return VerbKick }

func (c *KickCommand) String() string {
	return fmt.Sprintf(":%s %s %s %s", c.Nick, VerbKick, c.Channel, c.Target)
}

func (c *KickCommand) apply(m *ServerModel) *Broadcast {
	ch, ok := m.channels.get(c.Channel)
	if !ok {
		return Failure(c, ErrNoSuchChannel)
	}
	target, ok := m.users.byNickname(c.Target)
	if !ok {
		return Failure(c, ErrNoSuchUser)
	}
	if !ch.ownedBy(m.sender(c)) {
		return Failure(c, ErrUserNotOwner)
	}
	if !ch.has(target) {
		return Failure(c, ErrUserNotInChannel)
	}
	before := ch.nicknames()
	m.channels.removeMember(target, c.Channel)
	return Okay(c, before)
}
