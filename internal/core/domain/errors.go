package domain

import "errors"

var (
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUnknownEmail          = errors.New("no account with this email")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired recovery code")
	ErrWeakPassword          = errors.New("password must be at least 6 characters with a letter and a digit")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotAClient            = errors.New("account is not a client")
	ErrNoContract            = errors.New("client has no contract")
	ErrContractExists        = errors.New("client already has a contract")
	ErrConnectionNotApproved = errors.New("connection not approved yet")
	ErrInvalidServiceType    = errors.New("unknown service type")
	ErrForbidden             = errors.New("access forbidden")
)
