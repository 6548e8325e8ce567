package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/storage"
)

const (
	createCategoryQuery = `INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`
	categoriesQuery     = `SELECT id, name, description, created_at FROM categories ORDER BY name`
	categoryByIDQuery   = `SELECT id, name, description, created_at FROM categories WHERE id = ?`
)

func (s *Storage) CreateCategory(ctx context.Context, name, description string) (models.Category, error) {
	const op = "storage.sqlite.CreateCategory"

	stmt, err := s.db.PrepareContext(ctx, createCategoryQuery)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	now := time.Now()

	res, err := stmt.ExecContext(ctx, name, description, now)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Category{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   &now,
	}, nil
}

func (s *Storage) Categories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.sqlite.Categories"

	stmt, err := s.db.PrepareContext(ctx, categoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cats, nil
}

func (s *Storage) CategoryByID(ctx context.Context, id int64) (models.Category, error) {
	const op = "storage.sqlite.CategoryByID"

	stmt, err := s.db.PrepareContext(ctx, categoryByIDQuery)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var cat models.Category
	err = stmt.QueryRowContext(ctx, id).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, fmt.Errorf("%s: %w", op, storage.ErrCategoryNotFound)
		}
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	return cat, nil
}
