// backend/internal/server/app.go
package server

import (
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"quiz-portal/internal/attempt"
	"quiz-portal/internal/auth"
	"quiz-portal/internal/config"
	"quiz-portal/internal/generate"
	"quiz-portal/internal/quiz"
	"quiz-portal/internal/resource"
	"quiz-portal/pkg/cache"
	"quiz-portal/pkg/database"
	"quiz-portal/pkg/textgen"
	"quiz-portal/pkg/websocket"
)

// App is the wired application shared by the HTTP server and the Lambda entry point.
type App struct {
	Handler  http.Handler
	Hub      *websocket.Hub
	Attempts *attempt.Repository
}

// New wires repositories, services and handlers. When live is false no websocket
// hub is created and events are dropped.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, live bool) *App {
	redisCache := cache.NewRedisCache(rdb)
	tickets := auth.NewTicketIssuer(cfg.JWTSecret)

	var hub *websocket.Hub
	if live {
		hub = websocket.NewHub(tickets, cfg.CORSOrigins)
	}

	authRepo := auth.NewRepository(rdb)
	quizRepo := quiz.NewRepository(db)
	attemptRepo := attempt.NewRepository(db)
	resourceRepo := resource.NewRepository(db)

	authService := auth.NewService(authRepo, cfg.AdminAccounts)
	quizService := quiz.NewService(quizRepo, redisCache)
	resourceService := resource.NewService(resourceRepo, quizService)

	var generator textgen.Generator
	if cfg.TextGenAPIKey != "" {
		generator = textgen.NewOpenAIGenerator(textgen.Config{
			APIKey:  cfg.TextGenAPIKey,
			BaseURL: cfg.TextGenBaseURL,
			Model:   cfg.TextGenModel,
		})
	}

	var attemptService *attempt.Service
	var generateService *generate.Service
	if hub != nil {
		attemptService = attempt.NewService(attemptRepo, quizService, redisCache, hub)
		generateService = generate.NewService(generator, quizService, hub)
	} else {
		attemptService = attempt.NewService(attemptRepo, quizService, redisCache, nil)
		generateService = generate.NewService(generator, quizService, nil)
	}

	handler := NewRouter(Deps{
		Validator:   auth.NewValidator(authRepo),
		Auth:        auth.NewHandler(authService, tickets, quizService),
		Quiz:        quiz.NewHandler(quizService),
		Attempts:    attempt.NewHandler(attemptService),
		Resources:   resource.NewHandler(resourceService),
		Generate:    generate.NewHandler(generateService),
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
	})

	return &App{Handler: handler, Hub: hub, Attempts: attemptRepo}
}

// OpenDatabase connects to the configured driver and migrates the schema.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = database.NewPostgresDB(&database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
		})
	case "sqlite":
		db, err = database.NewSQLiteDB(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
