package category

import (
	"context"
	"log/slog"
	"net/http"

	"blog-platform/internal/domain/models"
	req "blog-platform/internal/lib/api/request"
	resp "blog-platform/internal/lib/api/response"
	"blog-platform/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Service interface {
	Create(ctx context.Context, name, description string) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type Category struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Category {
	return &Category{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (c *Category) Register() func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/", c.create)
		r.Get("/", c.list)
	}
}

func (c *Category) create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.create"

	log := c.log.With(slog.String("op", op))

	var body req.CategoryCreate
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := c.validate.Struct(body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("name is required"))
		return
	}

	cat, err := c.service.Create(r.Context(), body.Name, body.Description)
	if err != nil {
		log.Error("failed to create category", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, cat)
}

func (c *Category) list(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"

	log := c.log.With(slog.String("op", op))

	cats, err := c.service.List(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, cats)
}
