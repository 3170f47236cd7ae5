package proto

import (
	"strings"
	"testing"

	"github.com/horgh/irc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chanserv/internal/core"
)

func TestParseLine(t *testing.T) {
	o := core.Origin{ID: 3, Nick: "alice"}
	tests := []struct {
		line string
		want core.Command
	}{
		{"NICK bob", &core.NicknameCommand{Origin: o, NewNickname: "bob"}},
		{"nick bob\r\n", &core.NicknameCommand{Origin: o, NewNickname: "bob"}},
		{"CREATE lounge 1", &core.CreateCommand{Origin: o, Channel: "lounge", InviteOnly: true}},
		{"CREATE lounge 0", &core.CreateCommand{Origin: o, Channel: "lounge"}},
		{"JOIN lounge", &core.JoinCommand{Origin: o, Channel: "lounge"}},
		{"MESG lounge :hello there", &core.MessageCommand{Origin: o, Channel: "lounge", Text: "hello there"}},
		{"MESG lounge hello there", &core.MessageCommand{Origin: o, Channel: "lounge", Text: "hello there"}},
		{"MESG lounge :", &core.MessageCommand{Origin: o, Channel: "lounge", Text: ""}},
		{"LEAVE lounge\n", &core.LeaveCommand{Origin: o, Channel: "lounge"}},
		{"INVITE lounge bob", &core.InviteCommand{Origin: o, Channel: "lounge", Target: "bob"}},
		{"Kick lounge bob", &core.KickCommand{Origin: o, Channel: "lounge", Target: "bob"}},
		{"NICK :bad name", &core.NicknameCommand{Origin: o, NewNickname: "bad name"}},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			got, err := ParseLine(o.ID, o.Nick, test.line)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"", ErrMalformed},
		{"\r\n", ErrMalformed},
		{"JOIN  lounge", ErrMalformed},
		{":alice JOIN lounge", ErrPrefixNotAllowed},
		{"JOIN", ErrNeedMoreParams},
		{"CREATE lounge", ErrNeedMoreParams},
		{"MESG lounge", ErrNeedMoreParams},
		{"INVITE lounge", ErrNeedMoreParams},
		{"KICK lounge", ErrNeedMoreParams},
		{"NICK", ErrNeedMoreParams},
		{"LEAVE", ErrNeedMoreParams},
		{"PRIVMSG lounge :hi", ErrUnknownCommand},
		{"CREATE lounge yes", ErrBadFlag},
		{"NICK bad name", ErrTooManyParams},
		{"CREATE lounge 0 extra", ErrTooManyParams},
		{"JOIN a b", ErrTooManyParams},
		{"LEAVE a b", ErrTooManyParams},
		{"INVITE lounge bob carol", ErrTooManyParams},
		{"KICK lounge bob :carol", ErrTooManyParams},
		{"MESG lounge :" + strings.Repeat("x", irc.MaxLineLength), irc.ErrTruncated},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			cmd, err := ParseLine(0, "alice", test.line)
			assert.Nil(t, cmd)
			assert.ErrorIs(t, err, test.want)
		})
	}
}

func TestDecodeCanonicalRoundTrip(t *testing.T) {
	o := core.Origin{ID: 9, Nick: "alice"}
	cmds := []core.Command{
		&core.NicknameCommand{Origin: o, NewNickname: "bob"},
		&core.CreateCommand{Origin: o, Channel: "lounge", InviteOnly: true},
		&core.CreateCommand{Origin: o, Channel: "lounge"},
		&core.JoinCommand{Origin: o, Channel: "lounge"},
		&core.MessageCommand{Origin: o, Channel: "lounge", Text: "hi"},
		&core.MessageCommand{Origin: o, Channel: "lounge", Text: "two  spaces"},
		&core.MessageCommand{Origin: o, Channel: "lounge", Text: ":) leading colon"},
		&core.MessageCommand{Origin: o, Channel: "lounge", Text: ""},
		&core.LeaveCommand{Origin: o, Channel: "lounge"},
		&core.InviteCommand{Origin: o, Channel: "lounge", Target: "bob"},
		&core.KickCommand{Origin: o, Channel: "lounge", Target: "bob"},
	}

	for _, cmd := range cmds {
		t.Run(cmd.String(), func(t *testing.T) {
			got, err := DecodeCanonical(o.ID, cmd.String())
			require.NoError(t, err)
			assert.Equal(t, cmd.String(), got.String())
			assert.True(t, core.Equal(cmd, got))
			assert.Equal(t, cmd, got)
		})
	}
}

func TestDecodeCanonicalNeedsPrefix(t *testing.T) {
	_, err := DecodeCanonical(0, "JOIN lounge")
	assert.ErrorIs(t, err, ErrMissingPrefix)
}
