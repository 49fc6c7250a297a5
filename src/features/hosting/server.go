package hosting

import (
	"fmt"
	"strings"
	"time"

	"github.com/contre95/songbase/src/features/config"
	"github.com/contre95/songbase/src/features/importing"
	"github.com/contre95/songbase/src/features/metrics"
	"github.com/contre95/songbase/src/features/songs"
	"github.com/contre95/songbase/src/features/stats"
	"github.com/contre95/songbase/src/features/ui"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services groups the feature services exposed over HTTP. Importing and Metrics may be nil.
type Services struct {
	Songs     *songs.Service
	Stats     *stats.Service
	Importing *importing.Service
	Metrics   *metrics.Collector
}

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, services Services) *Server {
	conf := cfg.Get()

	bodyLimit := conf.Server.BodyLimitMB * 1024 * 1024
	if bodyLimit == 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		Views:                 ui.NewEngine(conf.Logger.Level == "debug"),
		ErrorHandler:          ErrorHandler(conf.IsDevelopment()),
		AppName:               "Songbase",
		DisableStartupMessage: true,
		EnablePrintRoutes:     conf.Server.PrintRoutes,
		BodyLimit:             bodyLimit,
		ReadTimeout:           30 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: conf.IsDevelopment()}))
	app.Use(helmet.New())
	app.Use(cors.New(corsConfig(conf.Server.CORSOrigins)))
	if services.Metrics != nil {
		app.Use(services.Metrics.Middleware())
	}
	app.Use(LogAllRequestsMiddleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Songbase API is running 🚀"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	// Stats first, /api/songs/:id would otherwise match it.
	stats.RegisterRoutes(app, services.Stats)
	songs.RegisterRoutes(app, services.Songs)
	if services.Importing != nil {
		importing.RegisterRoutes(app, services.Importing)
	}
	config.RegisterRoutes(app, cfg)
	ui.RegisterRoutes(app, ui.NewHandler(services.Stats))
	if services.Metrics != nil && conf.Metrics.Enabled {
		metrics.RegisterRoutes(app, services.Metrics, conf.Metrics.Path)
	}

	app.Use(NotFoundHandler)

	return &Server{app: app, port: conf.Server.Port}
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		return cors.Config{AllowOrigins: "*"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
	}
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}
