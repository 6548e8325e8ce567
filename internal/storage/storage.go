package storage

import "errors"

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	ErrArticleNotFound  = errors.New("article not found")
	ErrCategoryNotFound = errors.New("category not found")

	ErrAlreadySaved  = errors.New("article already saved")
	ErrSavedNotFound = errors.New("saved article not found")
)
