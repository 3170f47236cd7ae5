package core

import "sort"

// channel is a named group of users with a single owner.
type channel struct {
	Name    string
	owner   *User
	private bool
	members []*User
}

// newChannel constructs a channel whose only member is its owner.
func newChannel(name string, owner *User, private bool) *channel {
	return &channel{
		Name:    name,
		owner:   owner,
		private: private,
		members: []*User{owner},
	}
}

func (c *channel) has(u *User) bool {
	return c.indexOf(u) >= 0
}

// add appends u to the member list and reports whether it was newly added.
func (c *channel) add(u *User) bool {
	if c.has(u) {
		return false
	}
	c.members = append(c.members, u)
	return true
}

// remove drops u from the member list and reports whether it was a member.
func (c *channel) remove(u *User) bool {
	i := c.indexOf(u)
	if i < 0 {
		return false
	}
	c.members = append(c.members[:i], c.members[i+1:]...)
	return true
}

// nicknames returns member nicknames in join order.
func (c *channel) nicknames() []string {
	out := make([]string, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m.Nickname)
	}
	return out
}

func (c *channel) ownerName() string {
	return c.owner.Nickname
}

func (c *channel) ownedBy(u *User) bool {
	return c.owner == u
}

func (c *channel) indexOf(u *User) int {
	for i, m := range c.members {
		if m == u {
			return i
		}
	}
	return -1
}

// channels is the registry of live channels keyed by name.
type channels struct {
	byName map[string]*channel
}

func newChannels() *channels {
	return &channels{byName: make(map[string]*channel)}
}

func (r *channels) get(name string) (*channel, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *channels) exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *channels) create(name string, owner *User, private bool) *channel {
	c := newChannel(name, owner, private)
	r.byName[name] = c
	return c
}

func (r *channels) addMember(u *User, name string) {
	if c, ok := r.byName[name]; ok {
		c.add(u)
	}
}

// removeMember drops u from the channel. Removing the owner deletes the
// channel regardless of who else is still a member.
func (r *channels) removeMember(u *User, name string) {
	c, ok := r.byName[name]
	if !ok {
		return
	}
	if c.ownedBy(u) {
		delete(r.byName, name)
		return
	}
	c.remove(u)
}

func (r *channels) isPublic(name string) bool {
	c, ok := r.byName[name]
	return ok && !c.private
}

func (r *channels) membersOf(name string) []string {
	c, ok := r.byName[name]
	if !ok {
		return nil
	}
	return c.nicknames()
}

func (r *channels) ownerOf(name string) (string, bool) {
	c, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return c.ownerName(), true
}

// sorted returns every channel ordered by name.
func (r *channels) sorted() []*channel {
	out := make([]*channel, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *channels) names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
