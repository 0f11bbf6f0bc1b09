package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calc-service/internal/domain"
)

func TestCalculationRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db).(*UserRepository)
	repo := NewCalculationRepository(db)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com", "owner")
	calc := &domain.Calculation{A: 20, B: 4, Type: domain.OperationDivide, Result: 5, UserID: &owner.ID}

	id, err := repo.Create(ctx, calc)
	require.NoError(t, err)
	assert.Equal(t, id, calc.ID)
	assert.NotZero(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)

	if diff := cmp.Diff(*calc, *got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("stored calculation mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculationRepositoryAnonymous(t *testing.T) {
	db := openTestDB(t)
	repo := NewCalculationRepository(db)
	ctx := context.Background()

	calc := &domain.Calculation{A: 2, B: 3, Type: domain.OperationAdd, Result: 5}
	id, err := repo.Create(ctx, calc)
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)
}

func TestCalculationRepositoryGetMissing(t *testing.T) {
	repo := NewCalculationRepository(openTestDB(t))

	_, err := repo.Get(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculationRepositoryListPagination(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db).(*UserRepository)
	repo := NewCalculationRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com", "alice")
	bob := createUser(t, users, "bob@example.com", "bob")

	for i := 0; i < 5; i++ {
		owner := &alice.ID
		if i%2 == 1 {
			owner = &bob.ID
		}
		_, err := repo.Create(ctx, &domain.Calculation{A: float64(i), B: 1, Type: domain.OperationAdd, Result: float64(i + 1), UserID: owner})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1].ID, page[0].ID)
	assert.Equal(t, all[2].ID, page[1].ID)

	empty, err := repo.List(ctx, 1000, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	aliceCalcs, err := repo.ListByOwner(ctx, alice.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, aliceCalcs, 3)
	for _, c := range aliceCalcs {
		assert.True(t, c.OwnedBy(alice.ID))
	}

	bobCalcs, err := repo.ListByOwner(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, bobCalcs, 1)
}

func TestCalculationRepositoryUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewCalculationRepository(db)
	ctx := context.Background()

	calc := &domain.Calculation{A: 10, B: 5, Type: domain.OperationAdd, Result: 15}
	_, err := repo.Create(ctx, calc)
	require.NoError(t, err)

	calc.Type = domain.OperationMultiply
	calc.Result = 50
	require.NoError(t, repo.Update(ctx, calc))

	got, err := repo.Get(ctx, calc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OperationMultiply, got.Type)
	assert.Equal(t, 50.0, got.Result)

	missing := &domain.Calculation{ID: 4242, A: 1, B: 1, Type: domain.OperationAdd, Result: 2}
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrNotFound)
}

func TestCalculationRepositoryDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewCalculationRepository(db)
	ctx := context.Background()

	calc := &domain.Calculation{A: 8, B: 2, Type: domain.OperationDivide, Result: 4}
	_, err := repo.Create(ctx, calc)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, calc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for i := 0; i < 2; i++ {
		deleted, err = repo.Delete(ctx, calc.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	}
}

func TestCalculationRepositoryStats(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db).(*UserRepository)
	repo := NewCalculationRepository(db)
	ctx := context.Background()

	user := createUser(t, users, "stats@example.com", "stats")

	stats, err := repo.StatsByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCalculations)
	assert.Empty(t, stats.OperationsBreakdown)
	assert.Nil(t, stats.MostUsedOperation)
	assert.Nil(t, stats.AverageResult)

	for _, c := range []domain.Calculation{
		{A: 10, B: 5, Type: domain.OperationAdd, Result: 15},
		{A: 20, B: 10, Type: domain.OperationAdd, Result: 30},
		{A: 8, B: 2, Type: domain.OperationMultiply, Result: 16},
	} {
		c := c
		c.UserID = &user.ID
		_, err := repo.Create(ctx, &c)
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, &domain.Calculation{A: 1, B: 1, Type: domain.OperationSub, Result: 0})
	require.NoError(t, err)

	stats, err = repo.StatsByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCalculations)
	assert.Equal(t, map[domain.OperationType]int{domain.OperationAdd: 2, domain.OperationMultiply: 1}, stats.OperationsBreakdown)
	require.NotNil(t, stats.MostUsedOperation)
	assert.Equal(t, domain.OperationAdd, *stats.MostUsedOperation)
	require.NotNil(t, stats.AverageResult)
	assert.InDelta(t, (15.0+30.0+16.0)/3, *stats.AverageResult, 1e-9)
}

func TestBuildStatsTieBreaksAlphabetically(t *testing.T) {
	stats := buildStats([]operationCount{
		{Type: "Sub", Count: 2, Sum: 4},
		{Type: "Divide", Count: 2, Sum: 2},
		{Type: "Add", Count: 1, Sum: 3},
	})

	require.NotNil(t, stats.MostUsedOperation)
	assert.Equal(t, domain.OperationDivide, *stats.MostUsedOperation)
	assert.Equal(t, 5, stats.TotalCalculations)
	assert.InDelta(t, 9.0/5, *stats.AverageResult, 1e-9)
}

func newMockRepo(t *testing.T) (*CalculationRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &CalculationRepository{db: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func TestCalculationRepositoryPropagatesDriverErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	t.Run("create", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("INSERT INTO calculations").WillReturnError(boom)

		_, err := repo.Create(ctx, &domain.Calculation{A: 1, B: 2, Type: domain.OperationAdd, Result: 3})
		require.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM calculations").WillReturnError(boom)

		_, err := repo.Get(ctx, 1)
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("DELETE FROM calculations").WithArgs(int64(7)).WillReturnError(boom)

		deleted, err := repo.Delete(ctx, 7)
		require.ErrorIs(t, err, boom)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update rows affected", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE calculations").WillReturnResult(sqlmock.NewErrorResult(boom))

		err := repo.Update(ctx, &domain.Calculation{ID: 1, A: 1, B: 2, Type: domain.OperationAdd, Result: 3})
		require.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCalculationRepositoryScansRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "a", "b", "type", "result", "user_id", "created_at", "updated_at"}).
		AddRow(int64(1), 2.0, 3.0, "Add", 5.0, int64(9), now, now).
		AddRow(int64(2), 9.0, 3.0, "Divide", 3.0, nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM calculations").WithArgs(10, 0).WillReturnRows(rows)

	calcs, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, calcs, 2)
	require.NotNil(t, calcs[0].UserID)
	assert.Equal(t, int64(9), *calcs[0].UserID)
	assert.Nil(t, calcs[1].UserID)
	assert.Equal(t, domain.OperationDivide, calcs[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
