package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotAuthorized is returned when the acting principal may not perform an operation,
	// including a delivery verification code mismatch.
	ErrClientNotAuthorized = errors.New("client not authorized")

	// ErrBadCredentials is returned on a failed login. The message never says which part was wrong.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrInvalidToken is returned when a signed token fails its signature, salt or expiry check.
	ErrInvalidToken = errors.New("invalid token")

	// ErrBadRequest is returned when the caller supplies an unusable payload.
	ErrBadRequest = errors.New("bad request")
)

// ClientNotAuthorizedError names the action the principal was refused.
type ClientNotAuthorizedError struct {
	Action string
	Cause  error
}

// NewClientNotAuthorizedError creates a ClientNotAuthorizedError without a cause.
func NewClientNotAuthorizedError(action string) *ClientNotAuthorizedError {
	return &ClientNotAuthorizedError{Action: action}
}

// NewClientNotAuthorizedErrorWithCause creates a ClientNotAuthorizedError wrapping the underlying cause.
func NewClientNotAuthorizedErrorWithCause(action string, cause error) *ClientNotAuthorizedError {
	return &ClientNotAuthorizedError{
		Action: action,
		Cause:  cause,
	}
}

func (e *ClientNotAuthorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrClientNotAuthorized, e.Action, e.Cause)
	}

	return fmt.Sprintf("%s: %s", ErrClientNotAuthorized, e.Action)
}

func (e *ClientNotAuthorizedError) Unwrap() error {
	return ErrClientNotAuthorized
}

// InvalidTokenError carries the reason a token was rejected.
type InvalidTokenError struct {
	Cause error
}

// NewInvalidTokenError wraps the decoding failure.
func NewInvalidTokenError(cause error) *InvalidTokenError {
	return &InvalidTokenError{Cause: cause}
}

func (e *InvalidTokenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", ErrInvalidToken, e.Cause)
	}

	return ErrInvalidToken.Error()
}

func (e *InvalidTokenError) Unwrap() error {
	return ErrInvalidToken
}

// BadRequestError explains why a request payload was rejected.
type BadRequestError struct {
	Reason string
}

// NewBadRequestError creates a BadRequestError with the given reason.
func NewBadRequestError(reason string) *BadRequestError {
	return &BadRequestError{Reason: reason}
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBadRequest, e.Reason)
}

func (e *BadRequestError) Unwrap() error {
	return ErrBadRequest
}
