package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// row pairs one observation with its inverse-transformed sales values.
type row struct {
	obs   Observation
	sales float64
	pred  float64
}

// Estimate computes the financial results for a forecast run.
//
// data carries the (date, store, item) keys; yTrue and yPred carry the
// log1p-transformed actual and predicted sales, aligned by position with
// data. Both slices must have exactly one value per observation.
//
// The daily MAE is always computed on a date-aggregated series: sales and
// predictions are summed per date within the grouping key first, and the
// MAE is taken between those two daily series. Computing it on raw per-row
// residuals would overstate the error from intra-day dispersion.
//
// Stores with no observations are omitted from per_store results rather
// than reported as zero rows. All numeric outputs are rounded half-to-even.
func Estimate(data []Observation, yTrue, yPred []float64, g Granularity, cfg Config) ([]Result, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%q: %w", g, ErrUnknownGranularity)
	}
	if len(yTrue) != len(data) || len(yPred) != len(data) {
		return nil, fmt.Errorf("dataset has %d rows but got %d true and %d predicted values: %w",
			len(data), len(yTrue), len(yPred), ErrLengthMismatch)
	}
	if len(data) == 0 {
		return nil, ErrEmptyDataset
	}
	cfg = cfg.withDefaults()

	sales := expm1Slice(yTrue)
	preds := expm1Slice(yPred)
	rows := make([]row, len(data))
	for i, obs := range data {
		rows[i] = row{obs: obs, sales: sales[i], pred: preds[i]}
	}

	switch g {
	case GranularityOverall:
		return estimateOverall(rows, cfg)
	case GranularityPerStore:
		return estimatePerStore(rows, cfg)
	default:
		return estimatePerStoreItem(rows, cfg)
	}
}

func estimateOverall(rows []row, cfg Config) ([]Result, error) {
	total := totalPredictions(rows)
	avg := total / float64(cfg.PeriodDays)
	mae, err := dailyMAE(rows)
	if err != nil {
		return nil, err
	}
	return []Result{buildResult(nil, nil, total, avg, mae, cfg.PeriodDays)}, nil
}

func estimatePerStore(rows []row, cfg Config) ([]Result, error) {
	results := make([]Result, 0, cfg.Stores)
	for storeID := 1; storeID <= cfg.Stores; storeID++ {
		storeRows := filterRows(rows, func(r row) bool { return r.obs.Store == storeID })
		if len(storeRows) == 0 {
			// A store absent from the dataset contributes no row.
			continue
		}
		total := totalPredictions(storeRows)
		avg := total / float64(cfg.PeriodDays)
		mae, err := dailyMAE(storeRows)
		if err != nil {
			return nil, fmt.Errorf("store %d: %w", storeID, err)
		}
		id := storeID
		results = append(results, buildResult(&id, nil, total, avg, mae, cfg.PeriodDays))
	}
	return results, nil
}

func estimatePerStoreItem(rows []row, cfg Config) ([]Result, error) {
	type pair struct{ store, item int }
	groups := make(map[pair][]row)
	for _, r := range rows {
		key := pair{r.obs.Store, r.obs.Item}
		groups[key] = append(groups[key], r)
	}

	keys := make([]pair, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].store != keys[j].store {
			return keys[i].store < keys[j].store
		}
		return keys[i].item < keys[j].item
	})

	results := make([]Result, 0, len(keys))
	for _, key := range keys {
		groupRows := groups[key]
		total := totalPredictions(groupRows)
		// One observation per date within a (store, item) pair, so the
		// per-row mean is the daily average.
		avg := total / float64(len(groupRows))
		mae, err := dailyMAE(groupRows)
		if err != nil {
			return nil, fmt.Errorf("store %d item %d: %w", key.store, key.item, err)
		}
		store, item := key.store, key.item
		results = append(results, buildResult(&store, &item, total, avg, mae, cfg.PeriodDays))
	}
	return results, nil
}

// buildResult derives the scenario bounds and rounds every numeric output.
// The worst/best scenarios subtract/add the daily MAE from the daily
// average and the period-scaled MAE from the total.
func buildResult(store, item *int, total, avg, mae float64, periodDays int) Result {
	period := float64(periodDays)
	return Result{
		Store:                  store,
		Item:                   item,
		TotalPredictedSales:    math.RoundToEven(total),
		AvgDailyPredictedSales: math.RoundToEven(avg),
		DailyMAE:               math.RoundToEven(mae),
		WorstAvgScenario:       math.RoundToEven(avg - mae),
		BestAvgScenario:        math.RoundToEven(avg + mae),
		WorstTotalScenario:     math.RoundToEven(total - mae*period),
		BestTotalScenario:      math.RoundToEven(total + mae*period),
	}
}

// dailyMAE sums sales and predictions per date, then takes the MAE between
// the two daily series.
func dailyMAE(rows []row) (float64, error) {
	type daily struct{ sales, pred float64 }
	byDate := make(map[time.Time]*daily)
	for _, r := range rows {
		key := dateKey(r.obs.Date)
		d, ok := byDate[key]
		if !ok {
			d = &daily{}
			byDate[key] = d
		}
		d.sales += r.sales
		d.pred += r.pred
	}

	actual := make([]float64, 0, len(byDate))
	predicted := make([]float64, 0, len(byDate))
	for _, d := range byDate {
		actual = append(actual, d.sales)
		predicted = append(predicted, d.pred)
	}
	return MeanAbsoluteError(actual, predicted)
}

// dateKey truncates a timestamp to its calendar date so observations on the
// same day group together regardless of time-of-day or zone offset noise.
func dateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func totalPredictions(rows []row) float64 {
	var total float64
	for _, r := range rows {
		total += r.pred
	}
	return total
}

func filterRows(rows []row, keep func(row) bool) []row {
	var out []row
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
