package domain

import (
	"fmt"
	"time"
)

// OperationType names one of the arithmetic operations a calculation can apply.
type OperationType string

const (
	OperationAdd      OperationType = "Add"
	OperationSub      OperationType = "Sub"
	OperationMultiply OperationType = "Multiply"
	OperationDivide   OperationType = "Divide"
	OperationPower    OperationType = "Power"
	OperationModulus  OperationType = "Modulus"
)

// OperationTypes lists every supported operation in display order.
var OperationTypes = []OperationType{
	OperationAdd,
	OperationSub,
	OperationMultiply,
	OperationDivide,
	OperationPower,
	OperationModulus,
}

// ParseOperationType converts raw input into an OperationType. Matching is exact.
func ParseOperationType(s string) (OperationType, error) {
	for _, op := range OperationTypes {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation type %q", s)
}

// Calculation is a persisted arithmetic record, optionally owned by a user.
type Calculation struct {
	ID        int64
	A         float64
	B         float64
	Type      OperationType
	Result    float64
	UserID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the calculation belongs to the given user.
func (c *Calculation) OwnedBy(userID int64) bool {
	return c.UserID != nil && *c.UserID == userID
}

// CalculationStats summarises a user's calculation history.
type CalculationStats struct {
	TotalCalculations   int
	OperationsBreakdown map[OperationType]int
	MostUsedOperation   *OperationType
	AverageResult       *float64
}
