// Package validation rejects malformed or rule-breaking input before it reaches
// the dispatcher or the store.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"calc-service/internal/domain"
)

var (
	ErrInvalidOperationType = errors.New("invalid operation type")
	ErrDomainViolation      = errors.New("domain violation")
	ErrEmptyUpdate          = errors.New("empty update")
	ErrPasswordPolicy       = errors.New("password policy violation")
	ErrMissingField         = errors.New("missing field")
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

// Error carries a caller-facing message and unwraps to one of the kind sentinels above.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// CalculationInput is the raw create/update payload for a calculation.
type CalculationInput struct {
	A    float64
	B    float64
	Type string
}

// Calculation checks the operation name and the divisor, returning the parsed type.
func Calculation(in CalculationInput) (domain.OperationType, error) {
	op, err := domain.ParseOperationType(in.Type)
	if err != nil {
		return "", newError(ErrInvalidOperationType, "Invalid operation type: %s", in.Type)
	}
	if in.B == 0 {
		switch op {
		case domain.OperationDivide:
			return "", newError(ErrDomainViolation, "Division by zero is not allowed")
		case domain.OperationModulus:
			return "", newError(ErrDomainViolation, "Modulus by zero is not allowed")
		}
	}
	return op, nil
}

// ProfileUpdate requires at least one of email or username to be non-empty.
func ProfileUpdate(email, username string) error {
	if strings.TrimSpace(email) == "" && strings.TrimSpace(username) == "" {
		return newError(ErrEmptyUpdate, "At least one field (email or username) must be provided")
	}
	return nil
}

// PasswordChange enforces that the new password differs and is long enough.
func PasswordChange(current, next string) error {
	if current == next {
		return newError(ErrPasswordPolicy, "New password must be different from current password")
	}
	if len(next) < MinPasswordLength {
		return newError(ErrPasswordPolicy, "New password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

// Registration requires every field of a new account.
func Registration(email, username, password string) error {
	switch {
	case strings.TrimSpace(email) == "":
		return newError(ErrMissingField, "email is required")
	case strings.TrimSpace(username) == "":
		return newError(ErrMissingField, "username is required")
	case password == "":
		return newError(ErrMissingField, "password is required")
	}
	return nil
}
