// Package calc implements the arithmetic behind every calculation record.
package calc

import (
	"errors"
	"fmt"
	"math"

	"calc-service/internal/domain"
)

var (
	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrModulusByZero is returned by Mod when the divisor is zero.
	ErrModulusByZero = errors.New("modulus by zero")
	// ErrUnsupportedOperation is returned for operation values outside the known set.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrNonFiniteResult is returned when an operation overflows or has no real result.
	ErrNonFiniteResult = errors.New("result is not a finite number")
)

func Add(a, b float64) float64 { return a + b }

func Sub(a, b float64) float64 { return a - b }

func Mul(a, b float64) float64 { return a * b }

func Div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func Pow(a, b float64) float64 { return math.Pow(a, b) }

// Mod returns the floored remainder of a / b: a non-zero result has the sign of b,
// so Mod(-10, 3) is 2.
func Mod(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrModulusByZero
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

// Compute applies op to (a, b). Results that overflow to ±Inf or come out NaN
// are rejected with ErrNonFiniteResult.
func Compute(a, b float64, op domain.OperationType) (float64, error) {
	r, err := apply(a, b, op)
	if err != nil {
		return 0, err
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, fmt.Errorf("%w: %s(%g, %g)", ErrNonFiniteResult, op, a, b)
	}
	return r, nil
}

func apply(a, b float64, op domain.OperationType) (float64, error) {
	switch op {
	case domain.OperationAdd:
		return Add(a, b), nil
	case domain.OperationSub:
		return Sub(a, b), nil
	case domain.OperationMultiply:
		return Mul(a, b), nil
	case domain.OperationDivide:
		return Div(a, b)
	case domain.OperationPower:
		return Pow(a, b), nil
	case domain.OperationModulus:
		return Mod(a, b)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperation, string(op))
	}
}
