package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"medcollab/internal/config"
	"medcollab/internal/fabric"
	"medcollab/internal/handler"
	"medcollab/internal/middleware"
	"medcollab/internal/pkg/i18n"
	"medcollab/internal/realtime"
	"medcollab/internal/repository"
	"medcollab/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := i18n.LoadTranslations(cfg.LocalePath); err != nil {
		log.Printf("Warning: failed to load locales from %s: %v (message keys will be served raw)", cfg.LocalePath, err)
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (media upload will not work)", err)
	}

	fabricClient := fabric.NewClient(cfg)
	hub := realtime.NewHub()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, fabricClient, hub, cfg)
	handlers := handler.NewHandlers(services, hub)

	// Route inbound socket events to their services for the lifetime of
	// the process.
	defer services.Thread.BindRealtime(hub)()
	defer services.Notification.BindRealtime(hub)()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, services *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use("/ws", h.WS.Upgrade)
	app.Get("/ws", h.WS.Serve())

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/logout", h.Auth.Logout)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Get("/verify-email", h.Auth.VerifyEmail)
	auth.Post("/resend-verification", h.Auth.ResendVerificationEmail)

	protected := v1.Group("", middleware.AuthRequired(services.Auth))

	users := protected.Group("/users")
	users.Get("/me", h.User.GetMe)
	users.Put("/me", h.User.UpdateMe)
	users.Get("/doctors", h.User.ListDoctors)
	users.Get("/patients", middleware.RequireRole("doctor"), h.User.ListPatients)
	users.Get("/:userId/profile", h.User.GetProfile)

	records := protected.Group("/records")
	records.Get("/", h.Record.List)
	records.Get("/:recordId", h.Record.Get)
	records.Post("/request-access", middleware.RequireRole("doctor"), h.Record.RequestAccess)
	records.Post("/grant-access", middleware.RequireRole("patient"), h.Record.GrantAccess)
	records.Post("/revoke-access", middleware.RequireRole("patient"), h.Record.RevokeAccess)

	cases := protected.Group("/cases")
	cases.Post("/", middleware.RequireRole("doctor"), h.Case.Create)
	cases.Get("/", h.Case.List)
	cases.Get("/:caseId", h.Case.Get)
	cases.Post("/:caseId/collaborators", middleware.RequireRole("doctor"), h.Case.AddCollaborator)
	cases.Post("/:caseId/close", middleware.RequireRole("doctor"), h.Case.Close)

	threads := protected.Group("/threads/rooms/:roomId")
	threads.Get("/comments", h.Thread.List)
	threads.Post("/comments", h.Thread.AddComment)
	threads.Post("/comments/:commentId/replies", h.Thread.AddReply)
	threads.Post("/comments/:commentId/like", h.Thread.ToggleLike)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Post("/:id/resolve", middleware.RequireRole("patient"), h.Notification.Resolve)

	media := protected.Group("/media")
	media.Post("/", h.Media.Upload)
	media.Get("/", h.Media.List)
	media.Get("/:mediaId", h.Media.Get)
	media.Delete("/:mediaId", h.Media.Delete)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", h.Dashboard.GetStats)

	audit := protected.Group("/audit")
	audit.Get("/recent", h.Audit.GetRecentActivity)
	audit.Get("/:entityType/:entityId", h.Audit.ListByEntity)
}
