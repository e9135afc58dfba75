package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"forecastapp/config"
	"forecastapp/database"
	"forecastapp/forecast"
	"forecastapp/middleware"
	"forecastapp/models"

	"github.com/gofiber/fiber/v2"
)

// parseDate tries the date formats commonly seen in exported model output.
func parseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// buildDataset splits row-wise observation records into the aligned slices
// the estimator contract takes.
func buildDataset(records []models.ObservationInput) ([]forecast.Observation, []float64, []float64, error) {
	data := make([]forecast.Observation, len(records))
	yTrue := make([]float64, len(records))
	yPred := make([]float64, len(records))
	for i, rec := range records {
		date, err := parseDate(rec.Date)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("observation %d: invalid date %q", i, rec.Date)
		}
		data[i] = forecast.Observation{Date: date, Store: rec.Store, Item: rec.Item}
		yTrue[i] = rec.Actual
		yPred[i] = rec.Predicted
	}
	return data, yTrue, yPred, nil
}

// estimatorConfig applies per-request overrides on top of the server-wide
// forecast configuration.
func estimatorConfig(req models.EstimateRequest) forecast.Config {
	cfg := config.AppConfig.Forecast
	if cfg.PeriodDays <= 0 {
		cfg = forecast.DefaultConfig()
	}
	if req.PeriodDays > 0 {
		cfg.PeriodDays = req.PeriodDays
	}
	if req.Stores > 0 {
		cfg.Stores = req.Stores
	}
	return cfg
}

// HandleEstimateFinancialResults runs the financial estimator over a posted
// dataset and persists the run.
// POST /api/v1/forecast/estimate
func HandleEstimateFinancialResults(c *fiber.Ctx) error {
	var req models.EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if len(req.Observations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "At least one observation is required"})
	}

	data, yTrue, yPred, err := buildDataset(req.Observations)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	cfg := estimatorConfig(req)
	granularity := forecast.Granularity(req.Granularity)

	log.Printf("📊 [FORECAST HANDLER] Estimate request - granularity: %s, observations: %d, period: %d days",
		granularity, len(data), cfg.PeriodDays)

	results, err := forecast.Estimate(data, yTrue, yPred, granularity, cfg)
	if err != nil {
		log.Printf("❌ [FORECAST HANDLER] Estimation failed: %v", err)
		if errors.Is(err, forecast.ErrUnknownGranularity) ||
			errors.Is(err, forecast.ErrLengthMismatch) ||
			errors.Is(err, forecast.ErrEmptyDataset) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to estimate financial results"})
	}

	evaluationID := persistEvaluation(c, string(granularity), cfg, len(data), results)

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{
		"evaluationId": evaluationID,
		"granularity":  granularity,
		"periodDays":   cfg.PeriodDays,
		"results":      results,
	}})
}

// persistEvaluation stores a finished run. Persistence is best-effort: the
// estimate is still returned when the insert fails or no pool is connected.
func persistEvaluation(c *fiber.Ctx, granularity string, cfg forecast.Config, observationCount int, results []forecast.Result) string {
	db := database.GetDB()
	if db == nil {
		return ""
	}

	requestedBy := ""
	if claims, err := middleware.ExtractClaims(c); err == nil {
		requestedBy = claims.UserID
	}

	payload, err := json.Marshal(results)
	if err != nil {
		log.Printf("⚠️ [FORECAST HANDLER] Could not encode results for storage: %v", err)
		return ""
	}

	query := `
		INSERT INTO forecast_evaluations (granularity, period_days, observation_count, results, requested_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id string
	if err := db.QueryRow(context.Background(), query, granularity, cfg.PeriodDays, observationCount, payload, requestedBy).Scan(&id); err != nil {
		log.Printf("⚠️ [FORECAST HANDLER] Could not store evaluation run: %v", err)
		return ""
	}

	log.Printf("✅ [FORECAST HANDLER] Stored evaluation %s (%d result rows)", id, len(results))
	return id
}

// HandleGetForecastSeries returns an item's daily actual/predicted sales
// per store, ready for charting.
// POST /api/v1/forecast/series
func HandleGetForecastSeries(c *fiber.Ctx) error {
	var req models.SeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Item <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "A positive item id is required"})
	}
	if len(req.Observations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "At least one observation is required"})
	}

	data, yTrue, yPred, err := buildDataset(req.Observations)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	series, err := forecast.ItemSeries(data, yTrue, yPred, req.Item)
	if err != nil {
		if errors.Is(err, forecast.ErrEmptySeries) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": err.Error()})
		}
		log.Printf("❌ [FORECAST HANDLER] Series computation failed: %v", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	if req.Store > 0 {
		points, ok := series[req.Store]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": fmt.Sprintf("Item %d has no sales in store %d", req.Item, req.Store)})
		}
		series = map[int][]forecast.Point{req.Store: points}
	}

	stores := make([]int, 0, len(series))
	for store := range series {
		stores = append(stores, store)
	}
	sort.Ints(stores)

	lines := make([]models.StoreSeries, 0, len(stores))
	for _, store := range stores {
		lines = append(lines, models.StoreSeries{Store: store, Points: series[store]})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"item": req.Item, "series": lines}})
}
