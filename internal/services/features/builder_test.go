package features

import (
	"errors"
	"testing"
	"time"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeepsSchemaOrder(t *testing.T) {
	fv := Build(time.Now(), 55.5, -1.25, 1_000_000)

	assert.Equal(t, models.FeatureVector{RSI: 55.5, ROC: -1.25, Volume: 1_000_000}, fv)
	assert.Equal(t, []float64{55.5, -1.25, 1_000_000}, fv.Values())
}

func TestBuildIgnoresDate(t *testing.T) {
	a := Build(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 10, 1, 5)
	b := Build(time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC), 10, 1, 5)
	assert.Equal(t, a, b)
}

func TestBuildTextMatchesBuild(t *testing.T) {
	d := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)
	got, err := BuildText(d, "50.0", "0", "1000000")
	require.NoError(t, err)
	assert.Equal(t, Build(d, 50.0, 0, 1e6), got)
}

func TestBuildTextRejectsGarbage(t *testing.T) {
	_, err := BuildText(time.Now(), "50", "fast", "10")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domsvc.ErrInvalidInput))
	assert.Contains(t, err.Error(), "ROC")
}

// A stub handle that sums its input must see RSI+ROC+Volume exactly.
func TestValuesFeedSumStub(t *testing.T) {
	fv := Build(time.Now(), 42, 3.5, 900)
	sum := 0.0
	for _, v := range fv.Values() {
		sum += v
	}
	assert.Equal(t, 42+3.5+900.0, sum)
}
