package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devconnector/backend/internal/config"
	"github.com/devconnector/backend/internal/handlers"
	appMiddleware "github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	var (
		users    services.UserService
		profiles services.ProfileService
		accounts services.AccountService
	)

	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		mongoUsers, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect user store")
		}
		mongoProfiles, err := services.NewMongoProfileService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect profile store")
		}
		mongoAccounts, err := services.NewMongoAccountService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect account store")
		}

		users = mongoUsers
		profiles = mongoProfiles
		accounts = mongoAccounts
		log.Info().Str("db", cfg.MongoDB).Msg("using MongoDB store")
	} else {
		store, err := storage.NewJSONStore(cfg.DataDir, "profiles.json")
		if err != nil {
			log.Fatal().Err(err).Msg("open data dir")
		}

		memUsers := services.NewMemoryUserService()
		memPosts := services.NewMemoryPostService()
		memProfiles := services.NewMemoryProfileService(memUsers, store)

		users = memUsers
		profiles = memProfiles
		accounts = services.NewMemoryAccountService(memPosts, memProfiles, memUsers)
		log.Info().Str("dir", cfg.DataDir).Msg("using in-memory store")
	}

	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profiles, accounts)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", authHandler.Register)
		r.Post("/auth", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
			r.Get("/auth", authHandler.CurrentUser)
		})

		r.Route("/profile", func(r chi.Router) {
			// Public reads
			r.Get("/", profileHandler.ListProfiles)
			r.Get("/user/{userID}", profileHandler.GetProfileByUser)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

				r.Get("/me", profileHandler.GetMyProfile)
				r.Post("/", profileHandler.UpsertProfile)
				r.Delete("/", profileHandler.DeleteAccount)

				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{expID}", profileHandler.DeleteExperience)

				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{eduID}", profileHandler.DeleteEducation)
			})
		})
	})

	log.Info().Str("addr", cfg.ServerAddress).Msg("API server starting")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
