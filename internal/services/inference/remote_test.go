package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteModelPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req remoteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Instances) != 1 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		sum := 0.0
		for _, v := range req.Instances[0] {
			sum += v
		}
		_ = json.NewEncoder(w).Encode(remoteResp{Predictions: []float64{sum}})
	}))
	defer srv.Close()

	m := NewRemoteModel(srv.URL, time.Second, 1)
	out, err := m.Predict(context.Background(), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, out)
}

func TestRemoteModelRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(remoteResp{Predictions: []float64{0.01}})
	}))
	defer srv.Close()

	m := NewRemoteModel(srv.URL, time.Second, 2)
	out, err := m.Predict(context.Background(), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.01}, out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRemoteModelBreakerOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewRemoteModel(srv.URL, time.Second, 1)
	for i := 0; i < 3; i++ {
		_, err := m.Predict(context.Background(), []float64{1, 2, 3})
		require.Error(t, err)
	}
	assert.Equal(t, "open", m.State())

	_, err := m.Predict(context.Background(), []float64{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inference service unavailable")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDecodeRemoteArtifact(t *testing.T) {
	doc := "kind: remote\nfeatures: [RSI, ROC, Volume]\nendpoint: http://127.0.0.1:1/predict\ntimeout: 250ms\nretries: 2\n"
	h, desc, err := NewDecoder(time.Second)([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, KindRemote, desc.Kind)

	rm, ok := h.(*RemoteModel)
	require.True(t, ok)
	assert.Equal(t, 3, rm.attempts)
}
