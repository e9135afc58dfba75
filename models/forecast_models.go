package models

import (
	"time"

	"forecastapp/forecast"
	"forecastapp/utils"
)

// ObservationInput is one dataset row as posted by a client. Actual and
// predicted sales arrive log1p-transformed, exactly as the model emits them.
// Carrying the values on the row itself (instead of separate positional
// arrays) rules out silent misalignment between the dataset and the
// prediction series.
type ObservationInput struct {
	Date      string  `json:"date"`
	Store     int     `json:"store"`
	Item      int     `json:"item"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// EstimateRequest is the body of POST /api/v1/forecast/estimate.
// PeriodDays and Stores override the server-wide defaults when positive.
type EstimateRequest struct {
	Granularity  string             `json:"granularity"`
	PeriodDays   int                `json:"periodDays,omitempty"`
	Stores       int                `json:"stores,omitempty"`
	Observations []ObservationInput `json:"observations"`
}

// SeriesRequest is the body of POST /api/v1/forecast/series. Store zero
// means every store carrying the item.
type SeriesRequest struct {
	Item         int                `json:"item"`
	Store        int                `json:"store,omitempty"`
	Observations []ObservationInput `json:"observations"`
}

// StoreSeries is one chart line: an item's daily actual/predicted sales in
// a single store.
type StoreSeries struct {
	Store  int              `json:"store"`
	Points []forecast.Point `json:"points"`
}

// EvaluationRun is a persisted forecast evaluation.
type EvaluationRun struct {
	ID               string            `json:"id"`
	Granularity      string            `json:"granularity"`
	PeriodDays       int               `json:"periodDays"`
	ObservationCount int               `json:"observationCount"`
	Results          []forecast.Result `json:"results"`
	RequestedBy      string            `json:"requestedBy"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// PaginatedEvaluationsResponse wraps a page of evaluation runs.
type PaginatedEvaluationsResponse struct {
	Items      []EvaluationRun  `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
}

// InsightsRequest is the body of POST /api/v1/forecast/insights.
type InsightsRequest struct {
	Granularity string            `json:"granularity"`
	Results     []forecast.Result `json:"results"`
}

// AiAnalysis contains the qualitative insights from the Gemini model.
type AiAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}
