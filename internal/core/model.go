package core

// ServerModel owns every registered user and live channel.
//
// It does no locking. Callers must serialise access, normally by driving it
// from a single goroutine.
type ServerModel struct {
	users    *users
	channels *channels
}

// NewServerModel returns an empty model.
func NewServerModel() *ServerModel {
	return &ServerModel{
		users:    newUsers(),
		channels: newChannels(),
	}
}

// Connect registers connection id under a fresh default nickname.
func (m *ServerModel) Connect(id int) *Broadcast {
	u := m.users.register(id)
	return Connected(u.Nickname)
}

// Disconnect removes the user bound to id from the registry and from every
// channel it belongs to. Recipients are the remaining members of those
// channels, each listed once.
//
// Members are dropped directly: a channel owned by the departing user is not
// destroyed and keeps reporting that user's last nickname as its owner.
//
// Disconnect returns nil if id is not registered.
func (m *ServerModel) Disconnect(id int) *Broadcast {
	u := m.users.deregister(id)
	if u == nil {
		return nil
	}

	seen := make(map[string]struct{})
	recipients := []string{}
	for _, ch := range m.channels.sorted() {
		if !ch.remove(u) {
			continue
		}
		for _, nick := range ch.nicknames() {
			if _, dup := seen[nick]; dup {
				continue
			}
			seen[nick] = struct{}{}
			recipients = append(recipients, nick)
		}
	}
	return Disconnected(u.Nickname, recipients)
}

// Apply runs cmd against the model and reports the outcome. A command whose
// sender is not registered is rejected with ErrNoSuchUser and changes nothing.
func (m *ServerModel) Apply(cmd Command) *Broadcast {
	if m.sender(cmd) == nil {
		return Failure(cmd, ErrNoSuchUser)
	}
	return cmd.apply(m)
}

func (m *ServerModel) sender(cmd Command) *User {
	return m.users.byID[cmd.SenderID()]
}

// RegisteredUsers returns every registered nickname, sorted.
func (m *ServerModel) RegisteredUsers() []string {
	return m.users.nicknames()
}

// Channels returns every channel name, sorted.
func (m *ServerModel) Channels() []string {
	return m.channels.names()
}

// UsersInChannel returns the members of name in join order, or nil if there
// is no such channel.
func (m *ServerModel) UsersInChannel(name string) []string {
	return m.channels.membersOf(name)
}

// Owner returns the nickname of the owner of name.
func (m *ServerModel) Owner(name string) (string, bool) {
	return m.channels.ownerOf(name)
}

// IsPublic reports whether name is a public channel. ok is false if there is
// no such channel.
func (m *ServerModel) IsPublic(name string) (public, ok bool) {
	if !m.channels.exists(name) {
		return false, false
	}
	return m.channels.isPublic(name), true
}

// UserID returns the connection id currently using nick.
func (m *ServerModel) UserID(nick string) (int, bool) {
	return m.users.lookupID(nick)
}

// Nickname returns the nickname bound to connection id.
func (m *ServerModel) Nickname(id int) (string, bool) {
	return m.users.lookupNickname(id)
}

// ChannelInfo is a point-in-time copy of a channel's state.
type ChannelInfo struct {
	Name    string
	Owner   string
	Private bool
	Members []string
}

// ChannelInfos returns a copy of every channel, ordered by name.
func (m *ServerModel) ChannelInfos() []ChannelInfo {
	chans := m.channels.sorted()
	out := make([]ChannelInfo, 0, len(chans))
	for _, ch := range chans {
		out = append(out, ChannelInfo{
			Name:    ch.Name,
			Owner:   ch.ownerName(),
			Private: ch.private,
			Members: ch.nicknames(),
		})
	}
	return out
}
