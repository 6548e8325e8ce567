package auth

import (
	"context"
	"fmt"
	"log/slog"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/lib/logger/sl"
)

type UserProvider interface {
	UserByName(ctx context.Context, username string) (models.User, error)
}

// Resolver maps a verified token to a persisted user. Every failure mode
// (bad signature, expired token, unknown subject) collapses to
// ErrUnauthenticated so callers cannot tell which case occurred; the log
// keeps the specific cause.
type Resolver struct {
	log       *slog.Logger
	tokenizer *Tokenizer
	users     UserProvider
}

func NewResolver(log *slog.Logger, tokenizer *Tokenizer, users UserProvider) *Resolver {
	return &Resolver{
		log:       log,
		tokenizer: tokenizer,
		users:     users,
	}
}

// Resolve verifies the raw token and loads the user named by its subject.
func (r *Resolver) Resolve(ctx context.Context, tokenString string) (models.User, error) {
	const op = "auth.Resolve"

	log := r.log.With(slog.String("op", op))

	claims, err := r.tokenizer.Verify(tokenString)
	if err != nil {
		log.Warn("token verification failed", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return r.ResolveSubject(ctx, claims.Subject)
}

// ResolveSubject loads the user for an already verified subject.
func (r *Resolver) ResolveSubject(ctx context.Context, subject string) (models.User, error) {
	const op = "auth.ResolveSubject"

	log := r.log.With(slog.String("op", op))

	user, err := r.users.UserByName(ctx, subject)
	if err != nil {
		log.Warn("unknown token subject", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return user, nil
}
