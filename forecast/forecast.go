// Package forecast turns a forecasting model's log-space outputs into
// financial estimates: total and average predicted sales, daily MAE, and
// worst/best sales scenarios, at the requested reporting granularity.
package forecast

import "time"

// Granularity selects the grouping level of the financial results.
type Granularity string

const (
	GranularityOverall      Granularity = "overall"
	GranularityPerStore     Granularity = "per_store"
	GranularityPerStoreItem Granularity = "per_store_item"
)

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityOverall, GranularityPerStore, GranularityPerStoreItem:
		return true
	}
	return false
}

// Config holds the dataset shape parameters. These used to be fixed to the
// Kaggle store-item demand dataset (10 stores, 50 items, 93-day test period)
// and are now configurable.
type Config struct {
	Stores     int `json:"stores"`
	Items      int `json:"items"`
	PeriodDays int `json:"periodDays"`
}

// DefaultConfig returns the shape of the original store-item demand dataset.
func DefaultConfig() Config {
	return Config{Stores: 10, Items: 50, PeriodDays: 93}
}

// withDefaults fills any zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Stores <= 0 {
		c.Stores = def.Stores
	}
	if c.Items <= 0 {
		c.Items = def.Items
	}
	if c.PeriodDays <= 0 {
		c.PeriodDays = def.PeriodDays
	}
	return c
}

// Observation is the (date, store, item) projection of one dataset row.
// The matching true and predicted values travel in separate slices aligned
// by position, mirroring how model outputs are produced.
type Observation struct {
	Date  time.Time `json:"date"`
	Store int       `json:"store"`
	Item  int       `json:"item"`
}

// Result is one row of the financial estimate. Store and Item are set
// depending on granularity: neither for overall, Store for per_store, both
// for per_store_item. Every numeric field is rounded half-to-even.
type Result struct {
	Store                  *int    `json:"store,omitempty"`
	Item                   *int    `json:"item,omitempty"`
	TotalPredictedSales    float64 `json:"totalPredictedSales"`
	AvgDailyPredictedSales float64 `json:"avgDailyPredictedSales"`
	DailyMAE               float64 `json:"dailyMae"`
	WorstAvgScenario       float64 `json:"worstAvgScenario"`
	BestAvgScenario        float64 `json:"bestAvgScenario"`
	WorstTotalScenario     float64 `json:"worstTotalScenario"`
	BestTotalScenario      float64 `json:"bestTotalScenario"`
}
