package inference

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearYAML = `
kind: linear
features: [RSI, ROC, Volume]
intercept: 0.001
coefficients: [0.0001, 0.01, 0.0]
`

func TestDecodeLinearYAML(t *testing.T) {
	h, desc, err := NewDecoder(time.Second)([]byte(linearYAML))
	require.NoError(t, err)
	assert.Equal(t, KindLinear, desc.Kind)
	assert.Equal(t, []string{"RSI", "ROC", "Volume"}, desc.Features)

	out, err := h.Predict(context.Background(), []float64{50, 2, 1e6})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.001+0.005+0.02, out[0], 1e-12)
}

func TestDecodeLinearJSON(t *testing.T) {
	data := []byte(`{"kind":"linear","features":["RSI","ROC","Volume"],"intercept":1,"coefficients":[1,1,1]}`)
	h, _, err := NewDecoder(time.Second)(data)
	require.NoError(t, err)

	out, err := h.Predict(context.Background(), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, out)
}

func TestDecodeRejectsBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"garbage":          "\x00\x01not yaml: [",
		"missing kind":     "features: [RSI, ROC, Volume]\ncoefficients: [1, 1, 1]\n",
		"unknown kind":     "kind: forest\nfeatures: [RSI, ROC, Volume]\n",
		"reordered schema": "kind: linear\nfeatures: [ROC, RSI, Volume]\ncoefficients: [1, 1, 1]\n",
		"renamed feature":  "kind: linear\nfeatures: [RSI, ROC, Vol]\ncoefficients: [1, 1, 1]\n",
		"extra feature":    "kind: linear\nfeatures: [RSI, ROC, Volume, Price]\ncoefficients: [1, 1, 1, 1]\n",
		"coef count":       "kind: linear\nfeatures: [RSI, ROC, Volume]\ncoefficients: [1, 1]\n",
		"unknown field":    "kind: linear\nfeatures: [RSI, ROC, Volume]\ncoefficients: [1, 1, 1]\nweights: [1]\n",
		"remote no url":    "kind: remote\nfeatures: [RSI, ROC, Volume]\n",
	}
	dec := NewDecoder(time.Second)
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			h, _, err := dec([]byte(doc))
			assert.Error(t, err)
			assert.Nil(t, h)
		})
	}
}

func TestLinearModelRejectsWrongWidth(t *testing.T) {
	m := NewLinearModel(0, []float64{1, 2, 3})
	_, err := m.Predict(context.Background(), []float64{1, 2})
	assert.Error(t, err)
}
