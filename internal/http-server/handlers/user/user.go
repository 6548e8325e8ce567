package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	"blog-platform/internal/http-server/middleware/identity"
	req "blog-platform/internal/lib/api/request"
	resp "blog-platform/internal/lib/api/response"
	"blog-platform/internal/lib/logger/sl"
	userservice "blog-platform/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Service interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (models.User, error)
	ChangePassword(ctx context.Context, user models.User, current, next string) error
}

type User struct {
	log       *slog.Logger
	service   Service
	tokenAuth *jwtauth.JWTAuth
	resolver  *auth.Resolver
	validate  *validator.Validate
}

func New(log *slog.Logger, service Service, tokenAuth *jwtauth.JWTAuth, resolver *auth.Resolver) *User {
	return &User{
		log:       log,
		service:   service,
		tokenAuth: tokenAuth,
		resolver:  resolver,
		validate:  validator.New(),
	}
}

func (u *User) Register() func(r chi.Router) {
	return func(r chi.Router) {
		// Public routes
		r.Post("/register", u.register)
		r.Post("/login", u.login)

		// Require auth
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(u.tokenAuth))
			r.Use(jwtauth.Authenticator(u.tokenAuth))
			r.Use(identity.Middleware(u.resolver))

			r.Get("/me", u.me)
			r.Put("/me", u.updateProfile)
			r.Put("/password", u.changePassword)
		})
	}
}

func (u *User) register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.register"

	log := u.log.With(slog.String("op", op))

	var cred req.Register
	if err := render.DecodeJSON(r.Body, &cred); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := u.validate.Struct(cred); err != nil {
		log.Debug("invalid credentials", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid credentials"))
		return
	}

	user, err := u.service.Register(r.Context(), cred.Username, cred.Email, cred.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrUserExists) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Err("username already taken"))
			return
		}
		log.Error("failed to register user", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

func (u *User) login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.login"

	log := u.log.With(slog.String("op", op))

	var cred req.Login
	if err := render.DecodeJSON(r.Body, &cred); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := u.validate.Struct(cred); err != nil {
		log.Debug("invalid credentials", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid credentials"))
		return
	}

	token, err := u.service.Login(r.Context(), cred.Username, cred.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidCredentials) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Err("invalid username or password"))
			return
		}
		log.Error("failed to login", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, resp.Response{
		Status: resp.StatusOk,
		Token:  token,
	})
}

func (u *User) me(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	render.JSON(w, r, user)
}

func (u *User) updateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updateProfile"

	log := u.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	var upd req.ProfileUpdate
	if err := render.DecodeJSON(r.Body, &upd); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	updated, err := u.service.UpdateProfile(r.Context(), user.ID, upd.FirstName, upd.LastName)
	if err != nil {
		log.Error("failed to update profile", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, updated)
}

func (u *User) changePassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.changePassword"

	log := u.log.With(slog.String("op", op))

	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Err("unauthenticated"))
		return
	}

	var change req.PasswordChange
	if err := render.DecodeJSON(r.Body, &change); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	if err := u.validate.Struct(change); err != nil {
		log.Debug("invalid password change request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request"))
		return
	}

	err := u.service.ChangePassword(r.Context(), user, change.CurrentPassword, change.NewPassword)
	if err != nil {
		if errors.Is(err, userservice.ErrWrongPassword) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Err("current password is incorrect"))
			return
		}
		log.Error("failed to change password", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, resp.OK())
}
