package category

import (
	"context"
	"fmt"
	"log/slog"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/lib/logger/sl"
)

type Storage interface {
	CreateCategory(ctx context.Context, name, description string) (models.Category, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

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

func (s *Service) Create(ctx context.Context, name, description string) (models.Category, error) {
	const op = "service.category.Create"

	log := s.log.With(slog.String("op", op))

	cat, err := s.storage.CreateCategory(ctx, name, description)
	if err != nil {
		log.Error("failed to create category", sl.Error(err))
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	return cat, nil
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	const op = "service.category.List"

	log := s.log.With(slog.String("op", op))

	cats, err := s.storage.Categories(ctx)
	if err != nil {
		log.Error("failed to list categories", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cats, nil
}
