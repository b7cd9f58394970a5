package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/todozero/todozero-go/internal/config"
	"github.com/todozero/todozero-go/internal/handler"
	"github.com/todozero/todozero-go/internal/middleware"
	"github.com/todozero/todozero-go/internal/repository"
	"github.com/todozero/todozero-go/internal/service"
	"github.com/todozero/todozero-go/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(context.Background(), db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	tokens, err := token.NewService(token.Config{
		Secret:    cfg.SecretKey,
		Algorithm: cfg.Algorithm,
		TTL:       cfg.AccessTokenTTL(),
	})
	if err != nil {
		slog.Error("token service setup failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo, tokens))
	userHandler := handler.NewUserHandler(service.NewUserService(userRepo))
	todoHandler := handler.NewTodoHandler(service.NewTodoService(todoRepo))

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/auth/token", authHandler.HandleToken)

	r.Post("/users", userHandler.HandleCreateUser)
	r.Get("/users", userHandler.HandleListUsers)
	r.Get("/users/{user_id}", userHandler.HandleGetUser)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens, userRepo))

		r.Post("/auth/refresh_token", authHandler.HandleRefreshToken)

		r.Put("/users/{user_id}", userHandler.HandleUpdateUser)
		r.Delete("/users/{user_id}", userHandler.HandleDeleteUser)

		r.Post("/todos", todoHandler.HandleCreateTodo)
		r.Get("/todos", todoHandler.HandleListTodos)
		r.Patch("/todos/{todo_id}", todoHandler.HandlePatchTodo)
		r.Delete("/todos/{todo_id}", todoHandler.HandleDeleteTodo)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
