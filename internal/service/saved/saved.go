package saved

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/lib/logger/sl"
	"blog-platform/internal/storage"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrAlreadySaved    = errors.New("article already saved")
	ErrNotSaved        = errors.New("saved article not found")
)

type Storage interface {
	ArticleByID(ctx context.Context, id int64) (models.Article, error)
	SaveArticle(ctx context.Context, userID, articleID int64) error
	UnsaveArticle(ctx context.Context, userID, articleID int64) error
	SavedArticles(ctx context.Context, userID int64) ([]models.SavedArticle, error)
	IsSaved(ctx context.Context, userID, articleID int64) (bool, error)
}

// Service manages per-user bookmarks. Every operation is scoped to the
// acting user's own rows; there is no cross-user access to guard.
type Service struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Service {
	return &Service{
		log:     log,
		storage: storage,
	}
}

func (s *Service) Save(ctx context.Context, userID, articleID int64) error {
	const op = "service.saved.Save"

	log := s.log.With(slog.String("op", op))

	if _, err := s.storage.ArticleByID(ctx, articleID); err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		log.Error("failed to get article", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveArticle(ctx, userID, articleID); err != nil {
		if errors.Is(err, storage.ErrAlreadySaved) {
			return fmt.Errorf("%s: %w", op, ErrAlreadySaved)
		}
		log.Error("failed to save article", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) Unsave(ctx context.Context, userID, articleID int64) error {
	const op = "service.saved.Unsave"

	log := s.log.With(slog.String("op", op))

	if err := s.storage.UnsaveArticle(ctx, userID, articleID); err != nil {
		if errors.Is(err, storage.ErrSavedNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotSaved)
		}
		log.Error("failed to unsave article", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]models.SavedArticle, error) {
	const op = "service.saved.List"

	log := s.log.With(slog.String("op", op))

	arts, err := s.storage.SavedArticles(ctx, userID)
	if err != nil {
		log.Error("failed to list saved articles", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

func (s *Service) IsSaved(ctx context.Context, userID, articleID int64) (bool, error) {
	const op = "service.saved.IsSaved"

	log := s.log.With(slog.String("op", op))

	saved, err := s.storage.IsSaved(ctx, userID, articleID)
	if err != nil {
		log.Error("failed to check saved article", sl.Error(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}
