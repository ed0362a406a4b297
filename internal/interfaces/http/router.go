package http

import (
	"github.com/gofiber/fiber/v2"

	appetax "github.com/jhoicas/etax-pipeline/internal/application/etax"
	"github.com/jhoicas/etax-pipeline/internal/domain/repository"
)

// RouterDeps carries the router's dependencies.
type RouterDeps struct {
	ProcessUC    *appetax.ProcessUseCase
	Orchestrator *appetax.Orchestrator
	Journal      repository.SubmissionRepository
	MasterDir    string
	JWTSecret    string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// All e-tax routes need a Bearer token; submission additionally needs the
	// operator or admin role.
	protected := api.Group("/etax", AuthMiddleware(deps.JWTSecret))

	handler := NewETaxHandler(deps.ProcessUC, deps.Orchestrator, deps.Journal, deps.MasterDir)
	protected.Post("/process", handler.Process)
	protected.Post("/preview", handler.Preview)
	protected.Post("/submit", RequireRole("admin", "operator"), handler.Submit)
	protected.Post("/status", handler.Status)
	protected.Get("/submissions", handler.ListSubmissions)
	protected.Get("/submissions/:doc", handler.GetSubmission)
}
