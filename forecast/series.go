package forecast

import (
	"fmt"
	"sort"
	"time"
)

// Point is one day of actual versus predicted sales, both already
// inverse-transformed out of log space.
type Point struct {
	Date      time.Time `json:"date"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}

// ItemSeries returns the daily actual/predicted sales series of one item,
// keyed by store. Each series is summed per date and sorted ascending by
// date, ready for a dashboard chart with one line per store.
func ItemSeries(data []Observation, yTrue, yPred []float64, item int) (map[int][]Point, error) {
	if len(yTrue) != len(data) || len(yPred) != len(data) {
		return nil, fmt.Errorf("dataset has %d rows but got %d true and %d predicted values: %w",
			len(data), len(yTrue), len(yPred), ErrLengthMismatch)
	}

	type key struct {
		store int
		date  time.Time
	}
	points := make(map[key]*Point)
	for i, obs := range data {
		if obs.Item != item {
			continue
		}
		k := key{obs.Store, dateKey(obs.Date)}
		p, ok := points[k]
		if !ok {
			p = &Point{Date: k.date}
			points[k] = p
		}
		p.Actual += Expm1(yTrue[i])
		p.Predicted += Expm1(yPred[i])
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("item %d: %w", item, ErrEmptySeries)
	}

	series := make(map[int][]Point)
	for k, p := range points {
		series[k.store] = append(series[k.store], *p)
	}
	for store := range series {
		sort.Slice(series[store], func(i, j int) bool {
			return series[store][i].Date.Before(series[store][j].Date)
		})
	}
	return series, nil
}
