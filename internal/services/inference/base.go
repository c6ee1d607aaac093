package inference

import (
	"context"
	"fmt"
	"time"

	xhttp "StockPredict/pkg/http"
)

// HTTPServiceBase wraps JSON POSTs against a model-serving endpoint.
type HTTPServiceBase struct {
	url    string
	client *xhttp.Client
}

func NewHTTPServiceBase(url string, timeout time.Duration) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPServiceBase{
		url:    url,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// PostJSON posts payload to the endpoint and decodes the JSON reply into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, payload interface{}, dest interface{}) error {
	if b.client == nil || b.url == "" {
		return fmt.Errorf("inference http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.url,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", b.url, err)
	}
	return nil
}

// PostJSONWithRetry retries PostJSON up to attempts times with linear backoff.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, payload, dest)
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
