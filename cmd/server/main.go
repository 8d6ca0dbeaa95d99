package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcastillo/fittrack/internal/api"
	"github.com/jcastillo/fittrack/internal/auth"
	"github.com/jcastillo/fittrack/internal/config"
	"github.com/jcastillo/fittrack/internal/exercise"
	"github.com/jcastillo/fittrack/internal/middleware"
	"github.com/jcastillo/fittrack/internal/store"
	"github.com/jcastillo/fittrack/internal/workout"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	users := store.NewUserStore(db)
	exercises := store.NewExerciseStore(db)
	workouts := store.NewWorkoutStore(db)
	workoutExercises := store.NewWorkoutExerciseStore(db)

	// ── MinIO ────────────────────────────────────────────────
	media, err := store.NewMediaStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	dev := !cfg.Production()
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authHandler := auth.NewHandler(users, tokens, dev)
	exerciseHandler := exercise.NewHandler(exercises, media, dev)
	workoutHandler := workout.NewHandler(workouts, workoutExercises, exercises, dev)

	requireAuth := middleware.RequireAuth(tokens, users)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.TokenHeader},
		ExposedHeaders:   []string{middleware.TokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "API is running",
			"apiUrl": fmt.Sprintf("%s://%s/api", scheme, r.Host),
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/protected", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", authHandler.Me)
		r.Put("/profile", authHandler.UpdateProfile)
		r.Put("/password", authHandler.ChangePassword)
	})

	r.Route("/api/exercises", func(r chi.Router) {
		r.Get("/", exerciseHandler.List)
		r.Get("/{id}", exerciseHandler.Get)
		r.Get("/{id}/media/{kind}", exerciseHandler.StreamMedia)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireAdmin)
			r.Post("/", exerciseHandler.Create)
			r.Put("/{id}", exerciseHandler.Update)
			r.Delete("/{id}", exerciseHandler.Delete)
			r.Post("/{id}/media", exerciseHandler.UploadMedia)
		})
	})

	r.Route("/api/workouts", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", workoutHandler.List)
		r.Post("/", workoutHandler.Create)
		r.Get("/{id}", workoutHandler.Get)
		r.Put("/{id}", workoutHandler.Update)
		r.Delete("/{id}", workoutHandler.Delete)
	})

	r.Route("/api/workout-exercises", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/workout/{workoutId}", workoutHandler.ListExercises)
		r.Get("/workout/{workoutId}/day/{dayNumber}", workoutHandler.ListExercises)
		r.Delete("/workout/{workoutId}", workoutHandler.DeleteExercisesByWorkout)
		r.Post("/", workoutHandler.CreateExercise)
		r.Put("/{id}", workoutHandler.UpdateExercise)
		r.Delete("/{id}", workoutHandler.DeleteExercise)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
