package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"calc-service/internal/domain"
	"calc-service/internal/repository"
	"calc-service/internal/validation"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("incorrect username/email or password")
	// ErrInactiveUser is returned when a deactivated account tries to sign in.
	ErrInactiveUser = errors.New("user account is inactive")
	// ErrIncorrectPassword is returned by ChangePassword when the current password does not match.
	ErrIncorrectPassword = errors.New("current password is incorrect")
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, email, username string) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, current, next string) error
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	log    logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, log logrus.FieldLogger) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		log:    log,
	}
}

func (s *userService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if err := validation.Registration(email, username, password); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, 0, email, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return sanitizeUser(user), nil
}

// Authenticate looks the account up by email first, then by username.
func (s *userService) Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.User, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)
	if usernameOrEmail == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, usernameOrEmail)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.users.GetByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, email, username string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if err := validation.ProfileUpdate(email, username); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, id, email, username); err != nil {
		s.log.WithField("user_id", id).Warnf("profile update rejected: %v", err)
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, id, email, username)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", id).Info("profile updated")
	return sanitizeUser(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	if err := validation.PasswordChange(current, next); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		s.log.WithField("user_id", id).Warn("password change rejected: incorrect current password")
		return ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.log.WithField("user_id", id).Info("password changed")
	return nil
}

// ensureAvailable fails when email or username belongs to a user other than selfID.
// Empty values are skipped.
func (s *userService) ensureAvailable(ctx context.Context, selfID int64, email, username string) error {
	if email != "" {
		taken, err := takenBy(s.users.GetByEmail(ctx, email))
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if taken != 0 && taken != selfID {
			return domain.ErrEmailTaken
		}
	}
	if username != "" {
		taken, err := takenBy(s.users.GetByUsername(ctx, username))
		if err != nil {
			return fmt.Errorf("lookup username: %w", err)
		}
		if taken != 0 && taken != selfID {
			return domain.ErrUsernameTaken
		}
	}
	return nil
}

func takenBy(user *domain.User, err error) (int64, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
