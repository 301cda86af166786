package membership

import "errors"

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrNotCompanyAdmin    = errors.New("only a company admin can perform this action")
	ErrLastAdmin          = errors.New("cannot change role of or remove the last admin")
	ErrAlreadyMember      = errors.New("user is already a member of this company")
	ErrInvalidRole        = errors.New("invalid membership role")
)
