package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"calc-service/internal/auth"
	"calc-service/internal/repository"
	"calc-service/internal/repository/sqlite"
)

type fixture struct {
	calcs    CalculationService
	users    UserService
	userRepo repository.UserRepository
	hook     *test.Hook
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	calcRepo := sqlite.NewCalculationRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, calcRepo.Init(ctx))

	logger, hook := test.NewNullLogger()
	return fixture{
		calcs:    NewCalculationService(calcRepo),
		users:    NewUserService(userRepo, auth.NewHasher(bcrypt.MinCost), logger),
		userRepo: userRepo,
		hook:     hook,
	}
}
