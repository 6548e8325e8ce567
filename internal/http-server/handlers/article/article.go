package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	"blog-platform/internal/http-server/middleware/identity"
	req "blog-platform/internal/lib/api/request"
	resp "blog-platform/internal/lib/api/response"
	"blog-platform/internal/lib/logger/sl"
	articleservice "blog-platform/internal/service/article"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const maxUploadBytes = 10 << 20

type Service interface {
	Create(ctx context.Context, title, content string, categoryID, authorID int64) (models.Article, error)
	ByID(ctx context.Context, id int64) (models.Article, error)
	ByAuthor(ctx context.Context, authorID int64) ([]models.Article, error)
	Feed(ctx context.Context, userID int64) ([]models.Article, error)
	Update(ctx context.Context, id, actorID int64, upd models.ArticleUpdate) (models.Article, error)
	Delete(ctx context.Context, id, actorID int64) error
	CreateFromFile(ctx context.Context, title string, categoryID int64, filename, contentType string, data []byte, author models.User) (models.Article, error)
	ChatAbout(ctx context.Context, articleID int64, message string) (string, error)
	GenerateDraft(ctx context.Context, prompt string) (json.RawMessage, error)
	ExportPDF(ctx context.Context, id int64) ([]byte, error)
}

type Article struct {
	log       *slog.Logger
	service   Service
	tokenAuth *jwtauth.JWTAuth
	resolver  *auth.Resolver
	validate  *validator.Validate
}

func New(log *slog.Logger, service Service, tokenAuth *jwtauth.JWTAuth, resolver *auth.Resolver) *Article {
	return &Article{
		log:       log,
		service:   service,
		tokenAuth: tokenAuth,
		resolver:  resolver,
		validate:  validator.New(),
	}
}

func (a *Article) Register() func(r chi.Router) {
	return func(r chi.Router) {
		// Public routes
		r.Get("/{id}", a.getByID)
		r.Get("/{id}/pdf", a.exportPDF)
		r.Post("/{id}/chat", a.chat)
		r.Post("/generate", a.generate)

		// Require auth
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(a.tokenAuth))
			r.Use(jwtauth.Authenticator(a.tokenAuth))
			r.Use(identity.Middleware(a.resolver))

			r.Post("/", a.create)
			r.Get("/my-articles", a.myArticles)
			r.Get("/feed", a.feed)
			r.Put("/{id}", a.update)
			r.Delete("/{id}", a.remove)
			r.Post("/upload", a.upload)
		})
	}
}

func (a *Article) create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.create"

	log := a.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	var body req.ArticleCreate
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := a.validate.Struct(body); err != nil {
		log.Debug("invalid article payload", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	art, err := a.service.Create(r.Context(), body.Title, body.Content, body.CategoryID, user.ID)
	if err != nil {
		log.Error("failed to create article", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, art)
}

func (a *Article) getByID(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.getByID"

	log := a.log.With(slog.String("op", op))

	id, err := urlID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid article id"))
		return
	}

	art, err := a.service.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, articleservice.ErrArticleNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("article not found"))
			return
		}
		log.Error("failed to get article", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, art)
}

func (a *Article) myArticles(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.myArticles"

	log := a.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	arts, err := a.service.ByAuthor(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to get articles", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, arts)
}

func (a *Article) feed(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.feed"

	log := a.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	arts, err := a.service.Feed(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to get feed", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, arts)
}

func (a *Article) update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.update"

	log := a.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	id, err := urlID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid article id"))
		return
	}

	var body req.ArticleUpdate
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	art, err := a.service.Update(r.Context(), id, user.ID, models.ArticleUpdate{
		Title:      body.Title,
		Content:    body.Content,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		if errors.Is(err, articleservice.ErrArticleNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("article not found or not allowed"))
			return
		}
		log.Error("failed to update article", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, art)
}

func (a *Article) remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.remove"

	log := a.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	id, err := urlID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid article id"))
		return
	}

	if err := a.service.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, articleservice.ErrArticleNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("article not found or not allowed"))
			return
		}
		log.Error("failed to delete article", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, resp.OK())
}

func (a *Article) upload(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.upload"

	log := a.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Debug("failed to parse multipart form", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid upload"))
		return
	}

	title := r.FormValue("title")
	categoryID, err := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	if title == "" || err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("title and category_id are required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Debug("missing upload file", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		log.Error("failed to read upload", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	art, err := a.service.CreateFromFile(
		r.Context(), title, categoryID,
		header.Filename, header.Header.Get("Content-Type"), data, user,
	)
	if err != nil {
		if errors.Is(err, articleservice.ErrUnsupportedFile) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Err("only PDF and TXT files are allowed"))
			return
		}
		log.Error("failed to create article from file", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, art)
}

func (a *Article) chat(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.chat"

	log := a.log.With(slog.String("op", op))

	id, err := urlID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid article id"))
		return
	}

	var body req.ChatMessage
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := a.validate.Struct(body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("message is required"))
		return
	}

	answer, err := a.service.ChatAbout(r.Context(), id, body.Message)
	if err != nil {
		if errors.Is(err, articleservice.ErrArticleNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("article not found"))
			return
		}
		log.Error("chat failed", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, answer)
}

func (a *Article) generate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.generate"

	log := a.log.With(slog.String("op", op))

	var body req.GeneratePrompt
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := a.validate.Struct(body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("text is required"))
		return
	}

	draft, err := a.service.GenerateDraft(r.Context(), body.Text)
	if err != nil {
		log.Error("failed to generate draft", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(draft)
}

func (a *Article) exportPDF(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.exportPDF"

	log := a.log.With(slog.String("op", op))

	id, err := urlID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid article id"))
		return
	}

	doc, err := a.service.ExportPDF(r.Context(), id)
	if err != nil {
		if errors.Is(err, articleservice.ErrArticleNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("article not found"))
			return
		}
		log.Error("failed to export pdf", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("article_%d.pdf", id)))
	w.Write(doc)
}

func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
