package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DevNiNi18/flowtrack/internal/config"
	"github.com/DevNiNi18/flowtrack/internal/database"
	"github.com/DevNiNi18/flowtrack/internal/logger"
	"github.com/DevNiNi18/flowtrack/internal/middleware"
	"github.com/DevNiNi18/flowtrack/internal/repository"
	"github.com/DevNiNi18/flowtrack/internal/server"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type repositories struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
}

func main() {
	// .env is optional; real environment variables take precedence
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	gin.SetMode(cfg.GinMode)

	repos, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("session_store", cfg.SessionStore).Msg("failed to create session store")
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	authLimit, err := middleware.NewIPRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.AuthRateLimit).Msg("invalid AUTH_RATE_LIMIT")
	}

	// Task suggestions are optional
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, task suggestions disabled")
	}

	router, err := server.NewRouter(server.RouterConfig{
		Logger:         log,
		SessionStore:   store,
		Secure:         middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())),
		AuthRateLimit:  authLimit,
		Metrics:        true,
		TrustedProxies: cfg.TrustedProxies,
	}, server.Services{
		Auth:     services.NewAuthService(repos.users),
		Projects: services.NewProjectService(repos.projects, repos.tasks),
		Tasks:    services.NewTaskService(repos.tasks, repos.projects, aiService),
	})
	if err != nil {
		log.Fatal().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("invalid TRUSTED_PROXIES")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}

func openRepositories(cfg *config.Config, log zerolog.Logger) (repositories, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		return repositories{
			users:    mem.Users(),
			projects: mem.Projects(),
			tasks:    mem.Tasks(),
		}, nil
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return repositories{}, err
	}
	if err := database.Migrate(db, log); err != nil {
		return repositories{}, err
	}

	return repositories{
		users:    repository.NewUserRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
	}, nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	switch cfg.SessionStore {
	case "cookie":
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	case "redis":
		return redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			cfg.RedisHost+":"+cfg.RedisPort,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
	default:
		return nil, errors.New("SESSION_STORE must be redis or cookie")
	}
}
