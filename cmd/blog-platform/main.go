package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blog-platform/internal/auth"
	"blog-platform/internal/clients/blob"
	"blog-platform/internal/clients/gpt"
	"blog-platform/internal/config"
	articlehandler "blog-platform/internal/http-server/handlers/article"
	categoryhandler "blog-platform/internal/http-server/handlers/category"
	savedhandler "blog-platform/internal/http-server/handlers/saved"
	userhandler "blog-platform/internal/http-server/handlers/user"
	"blog-platform/internal/http-server/middleware/metrics"
	"blog-platform/internal/lib/logger"
	"blog-platform/internal/lib/logger/sl"
	articleservice "blog-platform/internal/service/article"
	categoryservice "blog-platform/internal/service/category"
	savedservice "blog-platform/internal/service/saved"
	userservice "blog-platform/internal/service/user"
	"blog-platform/internal/storage/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env, cfg.LogPath)

	log.Debug("initializing server...", slog.String("addr", cfg.Address))

	// Init storage
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("error opening storage", sl.Error(err))
		return
	}

	// Auth core: the signing secret is loaded once here and handed to the
	// components that need it; nothing reads it from ambient state.
	tokenizer, err := auth.NewTokenizer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("error initializing auth", sl.Error(err))
		return
	}

	tokenAuth := jwtauth.New("HS256", tokenizer.Secret(), nil)
	resolver := auth.NewResolver(log, tokenizer, storage)

	// External collaborators
	var archive articleservice.FileArchive
	if cfg.Blob.Bucket != "" {
		archive, err = blob.New(context.Background(), cfg.Blob)
		if err != nil {
			log.Error("error initializing blob storage", sl.Error(err))
			return
		}
	}

	chat := gpt.New(cfg.GPT.Endpoint, cfg.GPT.APIKey, cfg.GPT.Model)

	// Init service layer
	usrService := userservice.New(log, storage, tokenizer)
	artService := articleservice.New(log, storage, archive, chat)
	catService := categoryservice.New(log, storage)
	savService := savedservice.New(log, storage)

	// Handlers and middleware
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Init handlers
	usr := userhandler.New(log, usrService, tokenAuth, resolver)
	art := articlehandler.New(log, artService, tokenAuth, resolver)
	cat := categoryhandler.New(log, catService)
	sav := savedhandler.New(log, savService, tokenAuth, resolver)

	r.Route("/users", usr.Register())
	r.Route("/articles", art.Register())
	r.Route("/categories", cat.Register())
	r.Route("/saved-articles", sav.Register())
	r.Handle("/metrics", metrics.Handler())

	srv := http.Server{
		Handler:      r,
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Debug("server initialized")
	log.Info("server is running...")

	// Gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("error starting server", sl.Error(err))
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	srv.Shutdown(ctx)
	storage.Close()

	log.Info("server stopped")
}
