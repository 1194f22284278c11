package customdomain

import "errors"

var (
	ErrNotFound          = errors.New("domain not found")
	ErrDomainExists      = errors.New("domain already registered")
	ErrInvalidDomain     = errors.New("invalid domain")
	ErrInvalidType       = errors.New("invalid domain type")
	ErrInvalidStatus     = errors.New("invalid status filter")
	ErrNotVerified       = errors.New("domain must be verified before activation")
	ErrSuspended         = errors.New("domain is suspended")
	ErrInvalidTransition = errors.New("invalid status transition")
)
