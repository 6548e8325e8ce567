package sqlite

import (
	"context"
	"errors"
	"fmt"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/storage"

	"github.com/mattn/go-sqlite3"
)

const (
	saveArticleQuery   = `INSERT INTO saved_articles (user_id, article_id) VALUES (?, ?)`
	unsaveArticleQuery = `DELETE FROM saved_articles WHERE user_id = ? AND article_id = ?`
	savedArticlesQuery = `
		SELECT a.id, a.title, a.content, a.category_id, a.author_id, a.created_at, a.updated_at,
		       u.id, u.username, u.email
		FROM saved_articles s
		JOIN articles a ON a.id = s.article_id
		JOIN users u ON u.id = a.author_id
		WHERE s.user_id = ?
		ORDER BY s.id DESC`
	isSavedQuery = `SELECT COUNT(1) FROM saved_articles WHERE user_id = ? AND article_id = ?`
)

func (s *Storage) SaveArticle(ctx context.Context, userID, articleID int64) error {
	const op = "storage.sqlite.SaveArticle"

	stmt, err := s.db.PrepareContext(ctx, saveArticleQuery)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, userID, articleID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadySaved)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UnsaveArticle(ctx context.Context, userID, articleID int64) error {
	const op = "storage.sqlite.UnsaveArticle"

	stmt, err := s.db.PrepareContext(ctx, unsaveArticleQuery)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, userID, articleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrSavedNotFound)
	}

	return nil
}

func (s *Storage) SavedArticles(ctx context.Context, userID int64) ([]models.SavedArticle, error) {
	const op = "storage.sqlite.SavedArticles"

	stmt, err := s.db.PrepareContext(ctx, savedArticlesQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var saved []models.SavedArticle
	for rows.Next() {
		var sa models.SavedArticle
		err = rows.Scan(
			&sa.ID, &sa.Title, &sa.Content, &sa.CategoryID,
			&sa.AuthorID, &sa.CreatedAt, &sa.UpdatedAt,
			&sa.Author.ID, &sa.Author.Username, &sa.Author.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		saved = append(saved, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (s *Storage) IsSaved(ctx context.Context, userID, articleID int64) (bool, error) {
	const op = "storage.sqlite.IsSaved"

	stmt, err := s.db.PrepareContext(ctx, isSavedQuery)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var count int
	if err := stmt.QueryRowContext(ctx, userID, articleID).Scan(&count); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return count > 0, nil
}
