package credentials

import (
	"code.hvlink.org/golang/internal/utils"
)

// errorFlag is a private error type that allows declaring error constants.
type errorFlag string

const (
	// All package errors are wrapping Error
	Error = errorFlag("credentials: error")

	// ErrProtocol flags service responses that violate the token lifecycle,
	// eg an Unknown status received after a prior Success.
	ErrProtocol = errorFlag("credentials: protocol error")

	// ErrNotSignable flags signing attempts while the credential status does
	// not permit signing.
	ErrNotSignable = errorFlag("credentials: credential can not sign")

	// ErrNoSecret flags operations requiring a shared secret before one was
	// established.
	ErrNoSecret = errorFlag("credentials: no shared secret established")

	// ErrTicket flags invalid federated tickets.
	ErrTicket = errorFlag("credentials: invalid ticket")

	noError = errorFlag("")
)

// Error implements the error interface.
func (self errorFlag) Error() string {
	return string(self)
}

func (self errorFlag) Unwrap() error {
	if Error == self || noError == self {
		return nil
	} else {
		return Error
	}
}

// newError returns a utils.RaisedErr{} that contains file & line of where it was called.
func newError(msg string, args ...any) error {
	return utils.NewError(1, Error, msg, args...)
}

// newFlagError returns a utils.RaisedErr{} wrapping flag.
func newFlagError(flag error, msg string, args ...any) error {
	return utils.NewError(1, flag, msg, args...)
}

// wrapError returns a utils.RaisedErr{} that contains file & line of where it was called.
func wrapError(cause error, msg string, args ...any) error {
	return utils.WrapError(cause, 1, Error, msg, args...)
}

// wrapFlagError returns a utils.RaisedErr{} wrapping both flag and cause.
func wrapFlagError(cause error, flag error, msg string, args ...any) error {
	return utils.WrapError(cause, 1, flag, msg, args...)
}
