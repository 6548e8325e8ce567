package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/storage"

	"github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			pass_hash BLOB NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category_id INTEGER REFERENCES categories(id),
			author_id INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL,
			updated_at DATETIME
		);

		CREATE TABLE IF NOT EXISTS saved_articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			article_id INTEGER NOT NULL REFERENCES articles(id),
			UNIQUE(user_id, article_id)
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an existing database handle; used by tests.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

const (
	createUserQuery     = `INSERT INTO users (username, email, pass_hash, created_at) VALUES (?, ?, ?, ?)`
	userByNameQuery     = `SELECT id, username, email, first_name, last_name, pass_hash, created_at FROM users WHERE username = ?`
	userByIDQuery       = `SELECT id, username, email, first_name, last_name, pass_hash, created_at FROM users WHERE id = ?`
	updateProfileQuery  = `UPDATE users SET first_name = COALESCE(?, first_name), last_name = COALESCE(?, last_name) WHERE id = ?`
	updatePassHashQuery = `UPDATE users SET pass_hash = ? WHERE id = ?`
)

func (s *Storage) CreateUser(ctx context.Context, username, email string, passHash []byte) (models.User, error) {
	const op = "storage.sqlite.CreateUser"

	stmt, err := s.db.PrepareContext(ctx, createUserQuery)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	now := time.Now()

	res, err := stmt.ExecContext(ctx, username, email, passHash, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		PassHash:  passHash,
		CreatedAt: &now,
	}, nil
}

func (s *Storage) UserByName(ctx context.Context, username string) (models.User, error) {
	const op = "storage.sqlite.UserByName"

	return s.scanUser(ctx, op, userByNameQuery, username)
}

func (s *Storage) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.sqlite.UserByID"

	return s.scanUser(ctx, op, userByIDQuery, id)
}

func (s *Storage) scanUser(ctx context.Context, op, query string, arg any) (models.User, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var user models.User
	err = stmt.QueryRowContext(ctx, arg).Scan(
		&user.ID, &user.Username, &user.Email,
		&user.FirstName, &user.LastName, &user.PassHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfile applies a partial profile update: nil fields keep their
// current value.
func (s *Storage) UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (models.User, error) {
	const op = "storage.sqlite.UpdateProfile"

	stmt, err := s.db.PrepareContext(ctx, updateProfileQuery)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, firstName, lastName, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return s.UserByID(ctx, id)
}

func (s *Storage) UpdatePassHash(ctx context.Context, id int64, passHash []byte) error {
	const op = "storage.sqlite.UpdatePassHash"

	stmt, err := s.db.PrepareContext(ctx, updatePassHashQuery)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, passHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}
