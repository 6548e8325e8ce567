package saved

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	"blog-platform/internal/http-server/middleware/identity"
	resp "blog-platform/internal/lib/api/response"
	"blog-platform/internal/lib/logger/sl"
	savedservice "blog-platform/internal/service/saved"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

type Service interface {
	Save(ctx context.Context, userID, articleID int64) error
	Unsave(ctx context.Context, userID, articleID int64) error
	List(ctx context.Context, userID int64) ([]models.SavedArticle, error)
	IsSaved(ctx context.Context, userID, articleID int64) (bool, error)
}

type Saved struct {
	log       *slog.Logger
	service   Service
	tokenAuth *jwtauth.JWTAuth
	resolver  *auth.Resolver
}

func New(log *slog.Logger, service Service, tokenAuth *jwtauth.JWTAuth, resolver *auth.Resolver) *Saved {
	return &Saved{
		log:       log,
		service:   service,
		tokenAuth: tokenAuth,
		resolver:  resolver,
	}
}

func (s *Saved) Register() func(r chi.Router) {
	return func(r chi.Router) {
		// Everything here acts on the current user's own bookmarks.
		r.Use(jwtauth.Verifier(s.tokenAuth))
		r.Use(jwtauth.Authenticator(s.tokenAuth))
		r.Use(identity.Middleware(s.resolver))

		r.Get("/", s.list)
		r.Post("/{id}", s.save)
		r.Delete("/{id}", s.unsave)
		r.Get("/{id}/is-saved", s.isSaved)
	}
}

func (s *Saved) save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.saved.save"

	log := s.log.With(slog.String("op", op))

	user, id, ok := s.userAndID(w, r)
	if !ok {
		return
	}

	if err := s.service.Save(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, savedservice.ErrArticleNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("article not found"))
		case errors.Is(err, savedservice.ErrAlreadySaved):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Err("article already saved"))
		default:
			log.Error("failed to save article", sl.Error(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Err("internal error"))
		}
		return
	}

	render.JSON(w, r, resp.OK())
}

func (s *Saved) unsave(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.saved.unsave"

	log := s.log.With(slog.String("op", op))

	user, id, ok := s.userAndID(w, r)
	if !ok {
		return
	}

	if err := s.service.Unsave(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, savedservice.ErrNotSaved) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Err("saved article not found"))
			return
		}
		log.Error("failed to unsave article", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, resp.OK())
}

func (s *Saved) list(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.saved.list"

	log := s.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	arts, err := s.service.List(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list saved articles", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, arts)
}

func (s *Saved) isSaved(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.saved.isSaved"

	log := s.log.With(slog.String("op", op))

	user, id, ok := s.userAndID(w, r)
	if !ok {
		return
	}

	isSaved, err := s.service.IsSaved(r.Context(), user.ID, id)
	if err != nil {
		log.Error("failed to check saved article", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, map[string]bool{"is_saved": isSaved})
}

func (s *Saved) userAndID(w http.ResponseWriter, r *http.Request) (models.User, int64, bool) {
	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return models.User{}, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid article id"))
		return models.User{}, 0, false
	}

	return user, id, true
}
