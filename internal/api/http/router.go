package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theetaz/complaint-service/internal/api/http/handlers"
	"github.com/theetaz/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Users      *handlers.UsersHandler
	Complaints *handlers.ComplaintsHandler
	Gate       *auth.CredentialGate
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/token/refresh", cfg.Auth.Refresh)
	authGroup.Post("/sso", cfg.Auth.LoginSSO)
	authGroup.Post("/reset-password-email", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Get("/me", cfg.Gate.Handle, cfg.Auth.Me)

	users := api.Group("/users", cfg.Gate.Handle)
	users.Get("/profile", cfg.Users.Get)
	users.Patch("/profile", cfg.Users.Update)
	users.Delete("/profile", cfg.Users.Delete)
	users.Post("/password/change", cfg.Users.ChangePassword)

	complaints := api.Group("/complaints", cfg.Gate.Handle)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Patch("/:id", cfg.Complaints.Update)
	complaints.Delete("/:id", cfg.Complaints.Delete)
	complaints.Post("/:id/images", cfg.Complaints.UploadImage)
}
