package certstore

import (
	"code.hvlink.org/golang/internal/utils"
)

// errorFlag is a private error type that allows declaring error constants.
type errorFlag string

const (
	// All package errors are wrapping Error
	Error = errorFlag("certstore: error")

	// ErrCrypto flags failures of key generation, self signing or key loading.
	// The cause chain carries the underlying crypto library error.
	ErrCrypto = errorFlag("certstore: cryptographic failure")

	// ErrNotFound flags lookups of application ids absent from the store.
	ErrNotFound = errorFlag("certstore: certificate not found")

	// ErrClosed flags usage of an ApplicationCertificate after Close.
	ErrClosed = errorFlag("certstore: certificate is closed")

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
