package services

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the directory, document and attestation services.
// Handlers match them with errors.Is and map them to HTTP statuses; the
// services themselves never format client-facing responses.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrForbidden           = errors.New("not allowed to perform this action")
	ErrIncorrectLogin      = errors.New("incorrect email or password")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUserNotFound        = errors.New("user not found")
	ErrProtectedRole       = errors.New("default user types cannot be modified")
	ErrRoleInUse           = errors.New("user type has users associated to it")
	ErrPaymentRequired     = errors.New("document has not been paid for")
	ErrAlreadyHasReference = errors.New("document already has a reference code")
	ErrAlreadyAttested     = errors.New("document has already been attested")
	ErrServer              = errors.New("internal server error")
)

// wrapStorage hides raw driver errors behind ErrServer while keeping the
// original message for logging.
func wrapStorage(err error) error {
	return fmt.Errorf("%w: %v", ErrServer, err)
}
