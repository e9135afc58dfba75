package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemSeriesGroupsByStoreAndSortsByDate(t *testing.T) {
	// Dates deliberately out of order; item 7 sold in stores 1 and 2.
	data := []Observation{
		obs(day(1), 1, 7),
		obs(day(0), 1, 7),
		obs(day(0), 2, 7),
		obs(day(0), 1, 9), // different item, must be excluded
	}
	yTrue := []float64{math.Log1p(3), math.Log1p(1), math.Log1p(4), math.Log1p(100)}
	yPred := []float64{math.Log1p(2), math.Log1p(1), math.Log1p(5), math.Log1p(100)}

	series, err := ItemSeries(data, yTrue, yPred, 7)
	require.NoError(t, err)
	require.Len(t, series, 2)

	store1 := series[1]
	require.Len(t, store1, 2)
	assert.True(t, store1[0].Date.Before(store1[1].Date))
	assert.InDelta(t, 1.0, store1[0].Actual, 1e-9)
	assert.InDelta(t, 3.0, store1[1].Actual, 1e-9)
	assert.InDelta(t, 2.0, store1[1].Predicted, 1e-9)

	store2 := series[2]
	require.Len(t, store2, 1)
	assert.InDelta(t, 4.0, store2[0].Actual, 1e-9)
	assert.InDelta(t, 5.0, store2[0].Predicted, 1e-9)
}

func TestItemSeriesUnknownItem(t *testing.T) {
	data := []Observation{obs(day(0), 1, 1)}
	values := []float64{0.5}

	_, err := ItemSeries(data, values, values, 42)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestItemSeriesLengthMismatch(t *testing.T) {
	data := []Observation{obs(day(0), 1, 1)}

	_, err := ItemSeries(data, []float64{0.5, 0.6}, []float64{0.5}, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
