package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	"blog-platform/internal/lib/logger/sl"
	"blog-platform/internal/storage"
)

var (
	ErrUserExists         = errors.New("user name already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type Storage interface {
	CreateUser(ctx context.Context, username, email string, passHash []byte) (models.User, error)
	UserByName(ctx context.Context, username string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (models.User, error)
	UpdatePassHash(ctx context.Context, id int64, passHash []byte) error
}

type Service struct {
	log       *slog.Logger
	storage   Storage
	tokenizer *auth.Tokenizer
}

func New(log *slog.Logger, storage Storage, tokenizer *auth.Tokenizer) *Service {
	return &Service{
		log:       log,
		storage:   storage,
		tokenizer: tokenizer,
	}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (models.User, error) {
	const op = "service.user.Register"

	log := s.log.With(slog.String("op", op))

	passHash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to generate hash from password", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.CreateUser(ctx, username, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("failed to register user", sl.Error(ErrUserExists))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to register user", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// Login checks the credentials and mints a bearer token for the user.
// Unknown user and wrong password collapse to the same error.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	const op = "service.user.Login"

	log := s.log.With(slog.String("op", op))

	user, err := s.storage.UserByName(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("failed to get user by name", sl.Error(err))
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !auth.VerifyPassword(password, user.PassHash) {
		log.Warn("incorrect password", slog.String("username", username))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokenizer.Issue(user.Username)
	if err != nil {
		log.Error("failed to create new token", sl.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func (s *Service) UserByName(ctx context.Context, username string) (models.User, error) {
	const op = "service.user.UserByName"

	log := s.log.With(slog.String("op", op))

	user, err := s.storage.UserByName(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfile applies a partial profile update; nil fields stay as they are.
func (s *Service) UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (models.User, error) {
	const op = "service.user.UpdateProfile"

	log := s.log.With(slog.String("op", op))

	user, err := s.storage.UpdateProfile(ctx, id, firstName, lastName)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to update profile", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ChangePassword verifies the current password before replacing the stored
// hash. The plaintext never leaves this call.
func (s *Service) ChangePassword(ctx context.Context, user models.User, current, next string) error {
	const op = "service.user.ChangePassword"

	log := s.log.With(slog.String("op", op))

	if !auth.VerifyPassword(current, user.PassHash) {
		log.Warn("current password mismatch", slog.Int64("user_id", user.ID))
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	passHash, err := auth.HashPassword(next)
	if err != nil {
		log.Error("failed to generate hash from password", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdatePassHash(ctx, user.ID, passHash); err != nil {
		log.Error("failed to update password", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
