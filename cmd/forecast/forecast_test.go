package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearArtifact = "kind: linear\nfeatures: [RSI, ROC, Volume]\nintercept: 0.05\ncoefficients: [0, 0, 0]\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithConfig(t, filepath.Join(t.TempDir(), "missing.yaml"), args...)
}

func runWithConfig(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func withModel(t *testing.T, body string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "model")
	if body != "" {
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stock_model.yaml"), []byte(body), 0o644))
	}
	t.Setenv("MODEL_DIR", dir)
	t.Setenv("MODEL_FILE", "stock_model.yaml")
	return dir
}

func TestPredictTable(t *testing.T) {
	withModel(t, linearArtifact)

	out, err := run(t, "predict", "--rsi", "50", "--roc", "1.5", "--volume", "1000", "--price", "100", "--date", "2025-02-07")
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted return: 0.0500")
	assert.Contains(t, out, "110.25")
	assert.Contains(t, out, "2025-02-07")
	assert.Contains(t, strings.ToUpper(out), "REFERENCE")
}

func TestPredictJSON(t *testing.T) {
	withModel(t, linearArtifact)

	out, err := run(t, "predict", "--rsi", "50", "--roc", "0", "--volume", "1", "--format", "json")
	require.NoError(t, err)

	var fc models.Forecast
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	assert.InDelta(t, 0.05, fc.PredictedReturn, 1e-12)
	assert.Equal(t, 100.0, fc.BasePrice)
	assert.Len(t, fc.Trajectory.Predicted, 10)
}

func TestPredictRejectsOutOfRangeRSI(t *testing.T) {
	withModel(t, linearArtifact)

	_, err := run(t, "predict", "--rsi", "150", "--roc", "0", "--volume", "1")
	assert.True(t, errors.Is(err, domsvc.ErrInvalidInput))
}

func TestPredictRejectsNonFinitePrice(t *testing.T) {
	withModel(t, linearArtifact)

	for _, p := range []string{"Inf", "-Inf", "NaN"} {
		out, err := run(t, "predict", "--rsi", "50", "--roc", "0", "--volume", "1", "--price", p)
		assert.True(t, errors.Is(err, domsvc.ErrInvalidInput), "price %s: %v", p, err)
		assert.Empty(t, out)
	}
}

func TestPredictWithoutModel(t *testing.T) {
	dir := withModel(t, "")

	_, err := run(t, "predict", "--rsi", "50", "--roc", "0", "--volume", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domsvc.ErrModelUnavailable))
	assert.Contains(t, err.Error(), filepath.Join(dir, "stock_model.yaml"))
}

func TestModelCommand(t *testing.T) {
	withModel(t, linearArtifact)

	out, err := run(t, "model")
	require.NoError(t, err)
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "linear")
}

func TestModelCommandAbsent(t *testing.T) {
	withModel(t, "")

	out, err := run(t, "model")
	assert.True(t, errors.Is(err, domsvc.ErrModelUnavailable))
	assert.Contains(t, out, "absent")
}

func TestPredictUsesConfiguredProjection(t *testing.T) {
	withModel(t, linearArtifact)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"projection:\n  horizon: 4\n  base_price: 250\n  anchor: fixed\n  anchor_date: \"2025-02-09 10:44:55\"\n"), 0o644))

	out, err := runWithConfig(t, cfgPath, "predict", "--rsi", "50", "--roc", "0", "--volume", "1", "--date", "2025-02-07", "--format", "json")
	require.NoError(t, err)

	var fc models.Forecast
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	assert.Equal(t, 250.0, fc.BasePrice)
	require.Len(t, fc.Trajectory.Predicted, 4)
	assert.Equal(t, time.Date(2025, 2, 9, 10, 44, 55, 0, time.UTC), fc.Trajectory.Predicted[0].Date)
}
