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
	createArticleQuery = `INSERT INTO articles (title, content, category_id, author_id, created_at) VALUES (?, ?, ?, ?, ?)`
	articleByIDQuery   = `SELECT id, title, content, category_id, author_id, created_at, updated_at FROM articles WHERE id = ?`
	articlesByAuthorQuery     = `SELECT id, title, content, category_id, author_id, created_at, updated_at FROM articles WHERE author_id = ? ORDER BY created_at DESC`
	articlesExceptAuthorQuery = `SELECT id, title, content, category_id, author_id, created_at, updated_at FROM articles WHERE author_id != ? ORDER BY created_at DESC`
	updateArticleQuery = `UPDATE articles SET title = COALESCE(?, title), content = COALESCE(?, content), category_id = COALESCE(?, category_id), updated_at = ? WHERE id = ?`
	deleteArticleQuery = `DELETE FROM articles WHERE id = ?`
)

func (s *Storage) CreateArticle(ctx context.Context, title, content string, categoryID, authorID int64) (models.Article, error) {
	const op = "storage.sqlite.CreateArticle"

	stmt, err := s.db.PrepareContext(ctx, createArticleQuery)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	now := time.Now()

	res, err := stmt.ExecContext(ctx, title, content, categoryID, authorID, now)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Article{
		ID:         id,
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
		AuthorID:   authorID,
		CreatedAt:  &now,
	}, nil
}

func (s *Storage) ArticleByID(ctx context.Context, id int64) (models.Article, error) {
	const op = "storage.sqlite.ArticleByID"

	stmt, err := s.db.PrepareContext(ctx, articleByIDQuery)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var art models.Article
	err = stmt.QueryRowContext(ctx, id).Scan(
		&art.ID, &art.Title, &art.Content, &art.CategoryID,
		&art.AuthorID, &art.CreatedAt, &art.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

func (s *Storage) ArticlesByAuthor(ctx context.Context, authorID int64) ([]models.Article, error) {
	const op = "storage.sqlite.ArticlesByAuthor"

	return s.queryArticles(ctx, op, articlesByAuthorQuery, authorID)
}

// ArticlesExceptAuthor returns the feed: everyone's articles but the given
// author's own.
func (s *Storage) ArticlesExceptAuthor(ctx context.Context, authorID int64) ([]models.Article, error) {
	const op = "storage.sqlite.ArticlesExceptAuthor"

	return s.queryArticles(ctx, op, articlesExceptAuthorQuery, authorID)
}

func (s *Storage) queryArticles(ctx context.Context, op, query string, args ...any) ([]models.Article, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var arts []models.Article
	for rows.Next() {
		var art models.Article
		err = rows.Scan(
			&art.ID, &art.Title, &art.Content, &art.CategoryID,
			&art.AuthorID, &art.CreatedAt, &art.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		arts = append(arts, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

// UpdateArticle applies a partial update: nil fields keep their current
// value. Ownership is checked by the service layer before the call.
func (s *Storage) UpdateArticle(ctx context.Context, id int64, upd models.ArticleUpdate) (models.Article, error) {
	const op = "storage.sqlite.UpdateArticle"

	stmt, err := s.db.PrepareContext(ctx, updateArticleQuery)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, upd.Title, upd.Content, upd.CategoryID, time.Now(), id)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.Article{}, fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
	}

	return s.ArticleByID(ctx, id)
}

func (s *Storage) DeleteArticle(ctx context.Context, id int64) error {
	const op = "storage.sqlite.DeleteArticle"

	stmt, err := s.db.PrepareContext(ctx, deleteArticleQuery)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
	}

	return nil
}
