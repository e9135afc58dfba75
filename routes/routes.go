package routes

import (
	"forecastapp/handlers"
	"forecastapp/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)

	// --- Forecast Evaluation Routes ---
	fc := api.Group("/forecast", middleware.Authenticate, middleware.AnalystRequired)
	fc.Post("/estimate", handlers.HandleEstimateFinancialResults)
	fc.Post("/series", handlers.HandleGetForecastSeries)
	fc.Post("/insights", handlers.HandleGenerateForecastInsights)
	fc.Get("/evaluations", handlers.HandleListEvaluations)
	fc.Get("/evaluations/:evaluationId", handlers.HandleGetEvaluationByID)
}
