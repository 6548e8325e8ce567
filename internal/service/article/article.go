package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	"blog-platform/internal/lib/logger/sl"
	"blog-platform/internal/lib/pdf"
	"blog-platform/internal/storage"
)

var (
	// ErrArticleNotFound covers both a missing article and a mutation
	// attempted by a non-owner; callers cannot tell the cases apart.
	ErrArticleNotFound = errors.New("article not found or not allowed")

	ErrUnsupportedFile = errors.New("only PDF and TXT files are allowed")
	ErrBadDraft        = errors.New("generated draft is not valid JSON")
)

type Storage interface {
	CreateArticle(ctx context.Context, title, content string, categoryID, authorID int64) (models.Article, error)
	ArticleByID(ctx context.Context, id int64) (models.Article, error)
	ArticlesByAuthor(ctx context.Context, authorID int64) ([]models.Article, error)
	ArticlesExceptAuthor(ctx context.Context, authorID int64) ([]models.Article, error)
	UpdateArticle(ctx context.Context, id int64, upd models.ArticleUpdate) (models.Article, error)
	DeleteArticle(ctx context.Context, id int64) error
	CategoryByID(ctx context.Context, id int64) (models.Category, error)
}

// FileArchive keeps the raw uploaded source files.
type FileArchive interface {
	Upload(ctx context.Context, owner models.User, filename, contentType string, data []byte) (string, error)
}

// ChatClient is the external chat-completion API.
type ChatClient interface {
	ChatWithArticle(ctx context.Context, title, category, content, message string) (string, error)
	GenerateArticle(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	log     *slog.Logger
	storage Storage
	archive FileArchive
	chat    ChatClient
}

func New(log *slog.Logger, storage Storage, archive FileArchive, chat ChatClient) *Service {
	return &Service{
		log:     log,
		storage: storage,
		archive: archive,
		chat:    chat,
	}
}

func (s *Service) Create(ctx context.Context, title, content string, categoryID, authorID int64) (models.Article, error) {
	const op = "service.article.Create"

	log := s.log.With(slog.String("op", op))

	art, err := s.storage.CreateArticle(ctx, title, content, categoryID, authorID)
	if err != nil {
		log.Error("failed to create article", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

func (s *Service) ByID(ctx context.Context, id int64) (models.Article, error) {
	const op = "service.article.ByID"

	log := s.log.With(slog.String("op", op))

	art, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		log.Error("failed to get article", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

func (s *Service) ByAuthor(ctx context.Context, authorID int64) ([]models.Article, error) {
	const op = "service.article.ByAuthor"

	log := s.log.With(slog.String("op", op))

	arts, err := s.storage.ArticlesByAuthor(ctx, authorID)
	if err != nil {
		log.Error("failed to get articles", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

// Feed returns everyone's articles except the acting user's own.
func (s *Service) Feed(ctx context.Context, userID int64) ([]models.Article, error) {
	const op = "service.article.Feed"

	log := s.log.With(slog.String("op", op))

	arts, err := s.storage.ArticlesExceptAuthor(ctx, userID)
	if err != nil {
		log.Error("failed to get feed", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

// Update applies a partial update if the actor owns the article. A denial
// and a missing article return the same ErrArticleNotFound.
func (s *Service) Update(ctx context.Context, id, actorID int64, upd models.ArticleUpdate) (models.Article, error) {
	const op = "service.article.Update"

	log := s.log.With(slog.String("op", op))

	art, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		log.Error("failed to get article", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	if !auth.CanModify(actorID, art.AuthorID) {
		log.Warn("update denied", slog.Int64("article_id", id), slog.Int64("actor_id", actorID))
		return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
	}

	updated, err := s.storage.UpdateArticle(ctx, id, upd)
	if err != nil {
		log.Error("failed to update article", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	const op = "service.article.Delete"

	log := s.log.With(slog.String("op", op))

	art, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		log.Error("failed to get article", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if !auth.CanModify(actorID, art.AuthorID) {
		log.Warn("delete denied", slog.Int64("article_id", id), slog.Int64("actor_id", actorID))
		return fmt.Errorf("%s: %w", op, ErrArticleNotFound)
	}

	if err := s.storage.DeleteArticle(ctx, id); err != nil {
		log.Error("failed to delete article", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateFromFile ingests an uploaded TXT or PDF file as a new article and
// archives the raw file. A plain-text body becomes the article content; for
// a PDF the archived object stays the source of record and the content
// starts empty.
func (s *Service) CreateFromFile(ctx context.Context, title string, categoryID int64, filename, contentType string, data []byte, author models.User) (models.Article, error) {
	const op = "service.article.CreateFromFile"

	log := s.log.With(slog.String("op", op))

	var content string
	switch contentType {
	case "text/plain":
		content = string(data)
	case "application/pdf":
		content = ""
	default:
		return models.Article{}, fmt.Errorf("%s: %w", op, ErrUnsupportedFile)
	}

	art, err := s.storage.CreateArticle(ctx, title, content, categoryID, author.ID)
	if err != nil {
		log.Error("failed to create article from file", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.archive != nil {
		url, err := s.archive.Upload(ctx, author, filename, contentType, data)
		if err != nil {
			// The article row is already committed; the archive copy is
			// best effort, matching the original upload flow.
			log.Error("failed to archive uploaded file", sl.Error(err))
		} else {
			log.Info("uploaded file archived", slog.String("url", url))
		}
	}

	return art, nil
}

// ChatAbout answers a question about an article via the chat-completion API.
func (s *Service) ChatAbout(ctx context.Context, articleID int64, message string) (string, error) {
	const op = "service.article.ChatAbout"

	log := s.log.With(slog.String("op", op))

	art, err := s.ByID(ctx, articleID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	categoryName := "uncategorized"
	if cat, err := s.storage.CategoryByID(ctx, art.CategoryID); err == nil {
		categoryName = cat.Name
	}

	answer, err := s.chat.ChatWithArticle(ctx, art.Title, categoryName, art.Content, message)
	if err != nil {
		log.Error("chat completion failed", sl.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return answer, nil
}

// GenerateDraft asks the chat-completion API for an article draft and
// returns the raw JSON document it produced.
func (s *Service) GenerateDraft(ctx context.Context, prompt string) (json.RawMessage, error) {
	const op = "service.article.GenerateDraft"

	log := s.log.With(slog.String("op", op))

	draft, err := s.chat.GenerateArticle(ctx, prompt)
	if err != nil {
		log.Error("draft generation failed", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !json.Valid([]byte(draft)) {
		log.Error("draft is not valid JSON")
		return nil, fmt.Errorf("%s: %w", op, ErrBadDraft)
	}

	return json.RawMessage(draft), nil
}

// ExportPDF renders an article as a PDF document.
func (s *Service) ExportPDF(ctx context.Context, id int64) ([]byte, error) {
	const op = "service.article.ExportPDF"

	log := s.log.With(slog.String("op", op))

	art, err := s.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := pdf.RenderArticle(art.Title, art.Content)
	if err != nil {
		log.Error("failed to render pdf", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc, nil
}
