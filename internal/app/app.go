package app

import (
	"errors"
	"time"

	"songvault/internal/audio"
	"songvault/internal/config"
	"songvault/internal/handlers"
	"songvault/internal/middleware"
	"songvault/internal/repositories"
	"songvault/internal/services"
	"songvault/internal/storage"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// multipartOverhead is the request body allowance on top of the file size
// limit, so an oversized file still reaches the handler and gets a 400.
const multipartOverhead = 1 << 20

// Dependencies are the collaborators the HTTP application is built from.
type Dependencies struct {
	Users repositories.UserRepository
	Songs repositories.SongRepository
	Files storage.ObjectStore

	// Optional.
	Publisher services.EventPublisher
	JokeCache services.JokeCache
}

// New builds the Fiber application with every route registered.
func New(cfg *config.Config, deps Dependencies, log *zap.Logger) (*fiber.App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Users == nil || deps.Songs == nil || deps.Files == nil {
		return nil, errors.New("users, songs and files stores are required")
	}

	// --- Services ---
	tokens, err := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, log)
	if err != nil {
		return nil, err
	}
	hasher := services.NewPasswordHasher(services.DefaultArgon2Params)
	authService := services.NewAuthService(deps.Users, hasher, tokens, log)
	userService := services.NewUserService(deps.Users)
	songService := services.NewSongService(deps.Songs, deps.Publisher, log)
	fileService := services.NewFileService(deps.Files, audio.NewProber(cfg.FFprobePath), int64(cfg.UploadLimitBytes), deps.Publisher, log)
	jokeService := services.NewJokeService(cfg.Joke.URL, cfg.Joke.Timeout, deps.JokeCache, cfg.Joke.CacheTTL, log)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth.TokenTTL, log)
	userHandler := handlers.NewUserHandler(userService, log)
	resourceHandler := handlers.NewResourceHandler(userService, songService, fileService, jokeService, log)

	fiberCfg := fiber.Config{
		BodyLimit:    cfg.UploadLimitBytes + multipartOverhead,
		ErrorHandler: handlers.ErrorHandler(log),
	}
	if cfg.TrustProxy {
		fiberCfg.ProxyHeader = fiber.HeaderXForwardedFor
	}
	app := fiber.New(fiberCfg)

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// --- Static files ---
	app.Static("/static", cfg.PublicDir)
	if disk, ok := deps.Files.(*storage.DiskStore); ok {
		app.Static("/resources", disk.Dir())
	} else {
		app.Get("/resources/:filename", resourceHandler.HandleServeFile)
	}

	// --- API Routes ---
	api := app.Group("/api", middleware.Authenticate(authService, log))
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	resourceHandler.RegisterRoutes(api)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": deps.Publisher != nil,
		})
	})

	return app, nil
}
