package core

import (
	"sort"
	"strconv"
	"unicode"
)

// defaultNickPrefix is prepended to the numeric suffix of generated nicknames.
const defaultNickPrefix = "User"

// User is a connected chat participant.
//
// Channels hold *User values, so a rename is visible in every channel the
// user belongs to without touching the channels.
type User struct {
	ID       int
	Nickname string
}

func (u *User) String() string {
	return u.Nickname
}

// IsValidName reports whether name may be used as a nickname or channel name:
// non-empty and made solely of letters and digits.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// users maps connection ids to users and keeps a nickname index so that
// uniqueness checks and lookups are constant time.
type users struct {
	byID   map[int]*User
	byNick map[string]*User
}

func newUsers() *users {
	return &users{
		byID:   make(map[int]*User),
		byNick: make(map[string]*User),
	}
}

// register binds the lowest free default nickname to id.
func (r *users) register(id int) *User {
	u := &User{ID: id, Nickname: r.defaultNickname()}
	r.byID[id] = u
	r.byNick[u.Nickname] = u
	return u
}

func (r *users) defaultNickname() string {
	for n := 0; ; n++ {
		nick := defaultNickPrefix + strconv.Itoa(n)
		if _, taken := r.byNick[nick]; !taken {
			return nick
		}
	}
}

// deregister removes the user bound to id. It returns nil if id is unknown.
func (r *users) deregister(id int) *User {
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	if r.byNick[u.Nickname] == u {
		delete(r.byNick, u.Nickname)
	}
	return u
}

// rename overwrites the nickname of id. Callers validate the new name first.
func (r *users) rename(id int, nick string) {
	u, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byNick, u.Nickname)
	u.Nickname = nick
	r.byNick[nick] = u
}

func (r *users) byNickname(nick string) (*User, bool) {
	u, ok := r.byNick[nick]
	return u, ok
}

func (r *users) lookupID(nick string) (int, bool) {
	u, ok := r.byNick[nick]
	if !ok {
		return 0, false
	}
	return u.ID, true
}

func (r *users) lookupNickname(id int) (string, bool) {
	u, ok := r.byID[id]
	if !ok {
		return "", false
	}
	return u.Nickname, true
}

func (r *users) registered(nick string) bool {
	_, ok := r.byNick[nick]
	return ok
}

// nicknames returns every registered nickname in sorted order.
func (r *users) nicknames() []string {
	out := make([]string, 0, len(r.byNick))
	for nick := range r.byNick {
		out = append(out, nick)
	}
	sort.Strings(out)
	return out
}
