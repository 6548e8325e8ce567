package models

import "time"

type Article struct {
	ID         int64      `json:"id,omitempty"`
	Title      string     `json:"title,omitempty"`
	Content    string     `json:"content,omitempty"`
	CategoryID int64      `json:"category_id,omitempty"`
	AuthorID   int64      `json:"author_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// ArticleUpdate carries a partial update: nil fields are left untouched.
type ArticleUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
}

// SavedArticle is an article joined with its author, as returned by the
// saved-articles listing.
type SavedArticle struct {
	Article
	Author User `json:"author"`
}
