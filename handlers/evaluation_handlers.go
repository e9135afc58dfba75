package handlers

import (
	"context"
	"encoding/json"
	"log"

	"forecastapp/database"
	"forecastapp/models"
	"forecastapp/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleListEvaluations lists persisted evaluation runs, newest first.
// GET /api/v1/forecast/evaluations
func HandleListEvaluations(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	query := `
		SELECT id, granularity, period_days, observation_count, results, requested_by, created_at
		FROM forecast_evaluations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Query(ctx, query, pageSize, offset)
	if err != nil {
		log.Printf("❌ [EVALUATION HANDLER] Error listing evaluations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve evaluations"})
	}
	defer rows.Close()

	runs := make([]models.EvaluationRun, 0)
	for rows.Next() {
		var run models.EvaluationRun
		var resultsJSON []byte
		if err := rows.Scan(&run.ID, &run.Granularity, &run.PeriodDays, &run.ObservationCount, &resultsJSON, &run.RequestedBy, &run.CreatedAt); err != nil {
			log.Printf("⚠️ [EVALUATION HANDLER] Error scanning evaluation: %v", err)
			continue
		}
		if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
			log.Printf("⚠️ [EVALUATION HANDLER] Error decoding results for evaluation %s: %v", run.ID, err)
			continue
		}
		runs = append(runs, run)
	}

	var totalItems int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM forecast_evaluations").Scan(&totalItems); err != nil {
		log.Printf("❌ [EVALUATION HANDLER] Error counting evaluations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count evaluations"})
	}

	response := models.PaginatedEvaluationsResponse{
		Items:      runs,
		Pagination: *utils.CreatePagination(totalItems, page, pageSize),
	}

	return c.JSON(fiber.Map{"status": "success", "data": response})
}

// HandleGetEvaluationByID retrieves a single evaluation run.
// GET /api/v1/forecast/evaluations/:evaluationId
func HandleGetEvaluationByID(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	evaluationID := c.Params("evaluationId")

	query := `
		SELECT id, granularity, period_days, observation_count, results, requested_by, created_at
		FROM forecast_evaluations
		WHERE id = $1
	`
	var run models.EvaluationRun
	var resultsJSON []byte
	if err := db.QueryRow(ctx, query, evaluationID).Scan(
		&run.ID, &run.Granularity, &run.PeriodDays, &run.ObservationCount, &resultsJSON, &run.RequestedBy, &run.CreatedAt,
	); err != nil {
		log.Printf("Error getting evaluation by ID: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Evaluation not found"})
	}

	if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
		log.Printf("❌ [EVALUATION HANDLER] Error decoding results for evaluation %s: %v", run.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to decode evaluation results"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": run})
}
