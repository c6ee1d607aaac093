package projection

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2025, 2, 9, 10, 44, 55, 0, time.UTC)

const day = 24 * time.Hour

func prices(t *testing.T, base, ret float64, n int) []float64 {
	t.Helper()
	pts := Project(base, ret, n, day, anchor)
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Price
	}
	return out
}

func TestProjectCompounds(t *testing.T) {
	got := prices(t, 100, 0.05, 3)
	want := []float64{100, 105, 110.25}
	require.Len(t, got, 3)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 0.005)
	}
}

func TestProjectZeroReturnIsFlat(t *testing.T) {
	got := prices(t, 87.5, 0, 10)
	require.Len(t, got, 10)
	for _, p := range got {
		assert.Equal(t, 87.5, p)
	}
}

func TestProjectNegativeReturnShrinks(t *testing.T) {
	got := prices(t, 100, -0.1, 4)
	assert.InDelta(t, 72.9, got[3], 1e-9)
}

func TestProjectNoClamping(t *testing.T) {
	got := prices(t, 1, 1, 40)
	assert.InDelta(t, math.Pow(2, 39), got[39], 1)
}

func TestProjectDatesAdvanceByStep(t *testing.T) {
	pts := Project(100, 0.01, 10, day, anchor)
	require.Len(t, pts, 10)
	assert.True(t, pts[0].Date.Equal(anchor))
	for i := 1; i < len(pts); i++ {
		assert.Equal(t, day, pts[i].Date.Sub(pts[i-1].Date))
	}
}

func TestProjectNonPositiveHorizon(t *testing.T) {
	assert.Empty(t, Project(100, 0.05, 0, day, anchor))
	assert.Empty(t, Project(100, 0.05, -3, day, anchor))
}

func TestProjectWithReference(t *testing.T) {
	tr := ProjectWithReference(120, 0.02, 10, day, anchor)
	require.Len(t, tr.Predicted, 10)
	require.Len(t, tr.Reference, 10)
	for i := range tr.Reference {
		assert.Equal(t, 120.0, tr.Reference[i].Price)
		assert.True(t, tr.Reference[i].Date.Equal(tr.Predicted[i].Date))
	}
	assert.Greater(t, tr.Predicted[9].Price, tr.Reference[9].Price)
}
