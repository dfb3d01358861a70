package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	LeaveRequests  *handlers.LeaveRequestsHandler
	Calendar       *handlers.CalendarHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/signin", cfg.Auth.SignIn)

	authed := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireActor())
	authed.Get("/profile", cfg.Auth.Profile)
	authed.Post("/logout", cfg.Auth.SignOut)
	authed.Post("/password/change", cfg.Auth.ChangePassword)

	leaves := app.Group("/leave-requests", cfg.AuthMiddleware.Handle, auth.RequireActor())
	leaves.Get("/", cfg.LeaveRequests.List)
	leaves.Post("/", cfg.LeaveRequests.Create)
	leaves.Get("/export", auth.RequireReviewer(), cfg.LeaveRequests.Export)
	leaves.Get("/:id", cfg.LeaveRequests.Get)
	leaves.Get("/:id/history", cfg.LeaveRequests.History)
	leaves.Post("/:id/review", cfg.LeaveRequests.Review)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireActor())
	users.Get("/", cfg.Users.List)
	users.Patch("/me/section", cfg.Users.UpdateSection)

	calendar := app.Group("/academic-calendar", cfg.AuthMiddleware.Handle, auth.RequireActor())
	calendar.Get("/", cfg.Calendar.List)
	calendar.Get("/export.ics", cfg.Calendar.Export)
	calendar.Post("/", auth.RequireReviewer(), cfg.Calendar.Create)
	calendar.Post("/import", auth.RequireReviewer(), cfg.Calendar.Import)
	calendar.Delete("/:id", auth.RequireReviewer(), cfg.Calendar.Delete)
}
