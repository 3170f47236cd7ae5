package core

// ErrorKind identifies why a command was rejected.
type ErrorKind string

// Error kinds reported in Failure broadcasts.
const (
	ErrInvalidName           ErrorKind = "INVALID_NAME"
	ErrNameAlreadyInUse      ErrorKind = "NAME_ALREADY_IN_USE"
	ErrChannelAlreadyExists  ErrorKind = "CHANNEL_ALREADY_EXISTS"
	ErrNoSuchChannel         ErrorKind = "NO_SUCH_CHANNEL"
	ErrNoSuchUser            ErrorKind = "NO_SUCH_USER"
	ErrUserNotInChannel      ErrorKind = "USER_NOT_IN_CHANNEL"
	ErrUserNotOwner          ErrorKind = "USER_NOT_OWNER"
	ErrJoinPrivateChannel    ErrorKind = "JOIN_PRIVATE_CHANNEL"
	ErrInviteToPublicChannel ErrorKind = "INVITE_TO_PUBLIC_CHANNEL"
)

// Wire codes, grouped by class: 4xx lookup/permission, 5xx visibility,
// 6xx name collisions.
var errorCodes = map[ErrorKind]int{
	ErrInvalidName:           400,
	ErrNoSuchChannel:         401,
	ErrNoSuchUser:            402,
	ErrUserNotInChannel:      403,
	ErrUserNotOwner:          404,
	ErrJoinPrivateChannel:    500,
	ErrInviteToPublicChannel: 501,
	ErrNameAlreadyInUse:      600,
	ErrChannelAlreadyExists:  601,
}

func (k ErrorKind) Error() string {
	return string(k)
}

// Code returns the numeric wire code, or 0 for an unknown kind.
func (k ErrorKind) Code() int {
	return errorCodes[k]
}
