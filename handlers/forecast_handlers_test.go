package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"forecastapp/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp registers the forecast handlers behind a stub auth middleware
// so they see the locals the real Authenticate middleware would set.
func newTestApp() *fiber.App {
	app := fiber.New()
	stubAuth := func(c *fiber.Ctx) error {
		c.Locals("userID", "analyst-1")
		c.Locals("userRole", "analyst")
		return c.Next()
	}
	fc := app.Group("/api/v1/forecast", stubAuth)
	fc.Post("/estimate", HandleEstimateFinancialResults)
	fc.Post("/series", HandleGetForecastSeries)
	return app
}

func doPost(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if s, ok := body.(string); ok {
		reader = strings.NewReader(s)
	} else {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest("POST", path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestHandleEstimateInvalidBody(t *testing.T) {
	app := newTestApp()
	status, body := doPost(t, app, "/api/v1/forecast/estimate", "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", body["status"])
}

func TestHandleEstimateMissingObservations(t *testing.T) {
	app := newTestApp()
	status, _ := doPost(t, app, "/api/v1/forecast/estimate", models.EstimateRequest{Granularity: "overall"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleEstimateUnknownGranularity(t *testing.T) {
	app := newTestApp()
	req := models.EstimateRequest{
		Granularity: "weekly",
		Observations: []models.ObservationInput{
			{Date: "2018-01-01", Store: 1, Item: 1, Actual: 0, Predicted: 0.5},
		},
	}
	status, body := doPost(t, app, "/api/v1/forecast/estimate", req)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["message"], "granularity")
}

func TestHandleEstimateInvalidDate(t *testing.T) {
	app := newTestApp()
	req := models.EstimateRequest{
		Granularity: "overall",
		Observations: []models.ObservationInput{
			{Date: "yesterday", Store: 1, Item: 1, Actual: 0, Predicted: 0.5},
		},
	}
	status, _ := doPost(t, app, "/api/v1/forecast/estimate", req)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleEstimateOverall(t *testing.T) {
	app := newTestApp()
	req := models.EstimateRequest{
		Granularity: "overall",
		Observations: []models.ObservationInput{
			{Date: "2018-01-01", Store: 1, Item: 1, Actual: 0, Predicted: math.Log(2)},
			{Date: "2018-01-02", Store: 1, Item: 1, Actual: 0, Predicted: math.Log(2)},
		},
	}
	status, body := doPost(t, app, "/api/v1/forecast/estimate", req)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "overall", data["granularity"])
	assert.Equal(t, float64(93), data["periodDays"])

	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	row := results[0].(map[string]interface{})
	assert.Equal(t, float64(2), row["totalPredictedSales"])
	assert.Equal(t, float64(1), row["dailyMae"])
}

func TestHandleEstimatePeriodOverride(t *testing.T) {
	app := newTestApp()
	req := models.EstimateRequest{
		Granularity: "overall",
		PeriodDays:  2,
		Observations: []models.ObservationInput{
			{Date: "2018-01-01", Store: 1, Item: 1, Actual: math.Log1p(5), Predicted: math.Log1p(5)},
			{Date: "2018-01-02", Store: 1, Item: 1, Actual: math.Log1p(5), Predicted: math.Log1p(5)},
		},
	}
	status, body := doPost(t, app, "/api/v1/forecast/estimate", req)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["periodDays"])
	row := data["results"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(5), row["avgDailyPredictedSales"])
}

func TestHandleSeriesUnknownItem(t *testing.T) {
	app := newTestApp()
	req := models.SeriesRequest{
		Item: 42,
		Observations: []models.ObservationInput{
			{Date: "2018-01-01", Store: 1, Item: 1, Actual: 0, Predicted: 0.5},
		},
	}
	status, _ := doPost(t, app, "/api/v1/forecast/series", req)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleSeriesPerStoreLines(t *testing.T) {
	app := newTestApp()
	req := models.SeriesRequest{
		Item: 7,
		Observations: []models.ObservationInput{
			{Date: "2018-01-02", Store: 1, Item: 7, Actual: math.Log1p(3), Predicted: math.Log1p(2)},
			{Date: "2018-01-01", Store: 1, Item: 7, Actual: math.Log1p(1), Predicted: math.Log1p(1)},
			{Date: "2018-01-01", Store: 2, Item: 7, Actual: math.Log1p(4), Predicted: math.Log1p(5)},
		},
	}
	status, body := doPost(t, app, "/api/v1/forecast/series", req)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["item"])

	lines := data["series"].([]interface{})
	require.Len(t, lines, 2)
	first := lines[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["store"])
	points := first["points"].([]interface{})
	require.Len(t, points, 2)
}

func TestHandleSeriesStoreFilter(t *testing.T) {
	app := newTestApp()
	req := models.SeriesRequest{
		Item:  7,
		Store: 2,
		Observations: []models.ObservationInput{
			{Date: "2018-01-01", Store: 1, Item: 7, Actual: 0, Predicted: 0.5},
			{Date: "2018-01-01", Store: 2, Item: 7, Actual: 0, Predicted: 0.5},
		},
	}
	status, body := doPost(t, app, "/api/v1/forecast/series", req)
	require.Equal(t, fiber.StatusOK, status)

	lines := body["data"].(map[string]interface{})["series"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, float64(2), lines[0].(map[string]interface{})["store"])

	req.Store = 9
	status, _ = doPost(t, app, "/api/v1/forecast/series", req)
	assert.Equal(t, fiber.StatusNotFound, status)
}
