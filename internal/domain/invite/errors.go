package invite

import "errors"

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteNotPending    = errors.New("invite is no longer pending")
	ErrEmailMismatch       = errors.New("your email does not match the invite email")
	ErrPendingInviteExists = errors.New("email already has a pending invite in this company")
)
