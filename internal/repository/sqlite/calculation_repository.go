package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"calc-service/internal/domain"
	"calc-service/internal/repository"
)

const createCalculationsTable = `
CREATE TABLE IF NOT EXISTS calculations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	a REAL NOT NULL,
	b REAL NOT NULL,
	type TEXT NOT NULL,
	result REAL NOT NULL,
	user_id INTEGER NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculations_user_id ON calculations(user_id);
`

const selectCalculation = `
SELECT id, a, b, type, result, user_id, created_at, updated_at
FROM calculations`

type calculationRow struct {
	ID        int64         `db:"id"`
	A         float64       `db:"a"`
	B         float64       `db:"b"`
	Type      string        `db:"type"`
	Result    float64       `db:"result"`
	UserID    sql.NullInt64 `db:"user_id"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (r calculationRow) toDomain() domain.Calculation {
	calc := domain.Calculation{
		ID:        r.ID,
		A:         r.A,
		B:         r.B,
		Type:      domain.OperationType(r.Type),
		Result:    r.Result,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.UserID.Valid {
		owner := r.UserID.Int64
		calc.UserID = &owner
	}
	return calc
}

type CalculationRepository struct {
	db *sqlx.DB
}

func NewCalculationRepository(db *sqlx.DB) repository.CalculationRepository {
	return &CalculationRepository{db: db}
}

func (r *CalculationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCalculationsTable); err != nil {
		return fmt.Errorf("create calculations table: %w", err)
	}
	return ensureColumns(ctx, r.db, "calculations", []columnDef{
		{name: "updated_at", definition: "DATETIME NOT NULL DEFAULT '1970-01-01 00:00:00'"},
	})
}

func (r *CalculationRepository) Create(ctx context.Context, calc *domain.Calculation) (int64, error) {
	now := time.Now().UTC()
	calc.CreatedAt = now
	calc.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO calculations (a, b, type, result, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		calc.A,
		calc.B,
		string(calc.Type),
		calc.Result,
		nullInt64(calc.UserID),
		calc.CreatedAt,
		calc.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("calculation last insert id: %w", err)
	}
	calc.ID = id
	return id, nil
}

func (r *CalculationRepository) Get(ctx context.Context, id int64) (*domain.Calculation, error) {
	var row calculationRow
	if err := r.db.GetContext(ctx, &row, selectCalculation+` WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("calculation %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get calculation: %w", err)
	}
	calc := row.toDomain()
	return &calc, nil
}

func (r *CalculationRepository) List(ctx context.Context, skip, limit int) ([]domain.Calculation, error) {
	var rows []calculationRow
	if err := r.db.SelectContext(ctx, &rows, selectCalculation+`
ORDER BY id ASC
LIMIT ? OFFSET ?`, limit, skip); err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	return toDomainCalculations(rows), nil
}

func (r *CalculationRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Calculation, error) {
	var rows []calculationRow
	if err := r.db.SelectContext(ctx, &rows, selectCalculation+`
WHERE user_id = ?
ORDER BY id ASC
LIMIT ? OFFSET ?`, ownerID, limit, skip); err != nil {
		return nil, fmt.Errorf("query calculations by owner: %w", err)
	}
	return toDomainCalculations(rows), nil
}

func (r *CalculationRepository) Update(ctx context.Context, calc *domain.Calculation) error {
	calc.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE calculations
SET a=?, b=?, type=?, result=?, updated_at=?
WHERE id=?`,
		calc.A,
		calc.B,
		string(calc.Type),
		calc.Result,
		calc.UpdatedAt,
		calc.ID,
	)
	if err != nil {
		return fmt.Errorf("update calculation: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("calculation update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("calculation %d: %w", calc.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *CalculationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calculations WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("delete calculation: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("calculation delete rows affected: %w", err)
	}
	return aff > 0, nil
}

type operationCount struct {
	Type  string  `db:"type"`
	Count int     `db:"count"`
	Sum   float64 `db:"total"`
}

func (r *CalculationRepository) StatsByOwner(ctx context.Context, ownerID int64) (*domain.CalculationStats, error) {
	var counts []operationCount
	if err := r.db.SelectContext(ctx, &counts, `
SELECT type, COUNT(*) AS count, COALESCE(SUM(result), 0) AS total
FROM calculations
WHERE user_id = ?
GROUP BY type`, ownerID); err != nil {
		return nil, fmt.Errorf("query calculation stats: %w", err)
	}
	return buildStats(counts), nil
}

func buildStats(counts []operationCount) *domain.CalculationStats {
	stats := &domain.CalculationStats{
		OperationsBreakdown: make(map[domain.OperationType]int, len(counts)),
	}
	if len(counts) == 0 {
		return stats
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Type < counts[j].Type
	})

	var sum float64
	for _, c := range counts {
		stats.OperationsBreakdown[domain.OperationType(c.Type)] = c.Count
		stats.TotalCalculations += c.Count
		sum += c.Sum
	}

	mostUsed := domain.OperationType(counts[0].Type)
	stats.MostUsedOperation = &mostUsed
	avg := sum / float64(stats.TotalCalculations)
	stats.AverageResult = &avg
	return stats
}

func toDomainCalculations(rows []calculationRow) []domain.Calculation {
	calcs := make([]domain.Calculation, 0, len(rows))
	for _, row := range rows {
		calcs = append(calcs, row.toDomain())
	}
	return calcs
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
