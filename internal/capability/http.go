package capability

// ===== SHARED HTTP TRANSPORT =====
// Provider clients share one request helper: bounded by the caller's context,
// at most one retry on a transport-level failure or 5xx, no retry on 4xx.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"aura/internal/logging"
)

const maxBodyBytes = 4 << 20 // 4 MiB cap on provider responses

// doJSON performs a GET or POST against a provider endpoint and decodes the
// JSON response into out. One retry on transport error or 5xx status.
func doJSON(ctx context.Context, client *http.Client, provider, method, url string, body io.Reader, headers map[string]string, out interface{}) error {
	var lastErr error

	var payload []byte
	if body != nil {
		var err error
		payload, err = io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("failed to read request body: %w", err)
		}
	}

	for attempt := 0; attempt <= 1; attempt++ {
		if attempt > 0 {
			logging.CapabilityDebug("[%s] retrying after transport failure: %v", provider, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(150 * time.Millisecond):
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = &ProviderError{Provider: provider, Err: err}
			continue
		}

		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			lastErr = &ProviderError{Provider: provider, Status: resp.StatusCode,
				Err: fmt.Errorf("status %d", resp.StatusCode)}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return &ProviderError{Provider: provider, Status: resp.StatusCode,
				Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))}
		}
		if readErr != nil {
			lastErr = &ProviderError{Provider: provider, Err: readErr}
			continue
		}

		if err := json.Unmarshal(data, out); err != nil {
			return &ProviderError{Provider: provider, Err: fmt.Errorf("malformed response: %w", err)}
		}
		return nil
	}

	return lastErr
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
