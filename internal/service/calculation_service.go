package service

import (
	"context"

	"calc-service/internal/calc"
	"calc-service/internal/domain"
	"calc-service/internal/repository"
	"calc-service/internal/validation"
)

// CalculationService coordinates calculation operations backed by repositories.
// It is the only writer of calculation results: every Create and Update runs
// validation and the dispatcher before anything reaches the repository.
type CalculationService interface {
	Create(ctx context.Context, in validation.CalculationInput, ownerID *int64) (*domain.Calculation, error)
	Get(ctx context.Context, id int64) (*domain.Calculation, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*domain.Calculation, error)
	List(ctx context.Context, skip, limit int) ([]domain.Calculation, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Calculation, error)
	Update(ctx context.Context, id int64, in validation.CalculationInput) (*domain.Calculation, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context, ownerID int64) (*domain.CalculationStats, error)
}

type calculationService struct {
	calcs repository.CalculationRepository
}

func NewCalculationService(calcs repository.CalculationRepository) CalculationService {
	return &calculationService{calcs: calcs}
}

func (s *calculationService) Create(ctx context.Context, in validation.CalculationInput, ownerID *int64) (*domain.Calculation, error) {
	op, result, err := evaluate(in)
	if err != nil {
		return nil, err
	}

	record := &domain.Calculation{
		A:      in.A,
		B:      in.B,
		Type:   op,
		Result: result,
		UserID: ownerID,
	}
	if _, err := s.calcs.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *calculationService) Get(ctx context.Context, id int64) (*domain.Calculation, error) {
	return s.calcs.Get(ctx, id)
}

// GetOwned returns domain.ErrNotFound both for missing records and for records
// owned by someone else.
func (s *calculationService) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Calculation, error) {
	record, err := s.calcs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.OwnedBy(ownerID) {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (s *calculationService) List(ctx context.Context, skip, limit int) ([]domain.Calculation, error) {
	skip, limit = normalizePage(skip, limit)
	return s.calcs.List(ctx, skip, limit)
}

func (s *calculationService) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Calculation, error) {
	skip, limit = normalizePage(skip, limit)
	return s.calcs.ListByOwner(ctx, ownerID, skip, limit)
}

func (s *calculationService) Update(ctx context.Context, id int64, in validation.CalculationInput) (*domain.Calculation, error) {
	op, result, err := evaluate(in)
	if err != nil {
		return nil, err
	}

	record, err := s.calcs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.A = in.A
	record.B = in.B
	record.Type = op
	record.Result = result

	if err := s.calcs.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *calculationService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.calcs.Delete(ctx, id)
}

func (s *calculationService) Stats(ctx context.Context, ownerID int64) (*domain.CalculationStats, error) {
	return s.calcs.StatsByOwner(ctx, ownerID)
}

func evaluate(in validation.CalculationInput) (domain.OperationType, float64, error) {
	op, err := validation.Calculation(in)
	if err != nil {
		return "", 0, err
	}
	result, err := calc.Compute(in.A, in.B, op)
	if err != nil {
		return "", 0, err
	}
	return op, result, nil
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}
