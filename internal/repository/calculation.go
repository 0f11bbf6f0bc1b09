package repository

import (
	"context"

	"calc-service/internal/domain"
)

// CalculationRepository exposes persistence operations for Calculation records.
type CalculationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, calc *domain.Calculation) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Calculation, error)
	List(ctx context.Context, skip, limit int) ([]domain.Calculation, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Calculation, error)
	Update(ctx context.Context, calc *domain.Calculation) error
	Delete(ctx context.Context, id int64) (bool, error)
	StatsByOwner(ctx context.Context, ownerID int64) (*domain.CalculationStats, error)
}
