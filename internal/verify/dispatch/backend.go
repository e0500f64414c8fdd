package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Backend is the common surface both the in-process Service and an
// HTTP-fronted argcheckd deployment implement, so callers can swap one for
// the other without touching call sites.
type Backend interface {
	VerifySync(ctx context.Context, in VerifyInput) (*VerifyOutput, error)
}

type localBackend struct{ svc *Service }

// NewLocalBackend adapts svc to the Backend interface.
func NewLocalBackend(svc *Service) Backend { return &localBackend{svc: svc} }

func (b *localBackend) VerifySync(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	return b.svc.VerifySync(ctx, in)
}

// errorBody is the wire shape of a non-2xx response from the HTTP transport.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// RemoteBackend dispatches verifications over HTTP to a running argcheckd,
// retrying only on transport-level failures (the HTTP client returns an
// error: connection refused, reset, timeout) and pacing those retries with a
// token bucket rather than hammering a possibly-overloaded peer. Any HTTP
// response, whatever its status, is decoded and returned without a retry.
type RemoteBackend struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// RemoteOption configures a RemoteBackend.
type RemoteOption func(*RemoteBackend)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *RemoteBackend) { r.httpClient = c }
}

// WithRetryRate bounds how often a retry attempt may be made, across all
// in-flight calls sharing this backend.
func WithRetryRate(r rate.Limit, burst int) RemoteOption {
	return func(rb *RemoteBackend) { rb.limiter = rate.NewLimiter(r, burst) }
}

// WithMaxRetries overrides the default retry budget for transport errors.
func WithMaxRetries(n int) RemoteOption {
	return func(r *RemoteBackend) { r.maxRetries = n }
}

// NewRemoteBackend targets the argcheckd instance at baseURL (e.g.
// "http://localhost:8080").
func NewRemoteBackend(baseURL string, opts ...RemoteOption) *RemoteBackend {
	r := &RemoteBackend{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout + 5*time.Second},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RemoteBackend) VerifySync(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding verify request: %w", err)
	}
	url := fmt.Sprintf("%s/api/v1/verify/%s", r.baseURL, in.Verifier)

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building verify request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			// Transport-level failure (dial/reset/timeout): retry.
			lastErr = err
			continue
		}
		out, appErr := decodeVerifyResponse(resp)
		if appErr != nil {
			return nil, appErr
		}
		return out, nil
	}
	return nil, fmt.Errorf("verify request to %s failed after %d attempts: %w", url, r.maxRetries+1, lastErr)
}

func decodeVerifyResponse(resp *http.Response) (*VerifyOutput, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading verify response body: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out VerifyOutput
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decoding verify response: %w", err)
		}
		return &out, nil
	}
	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	if eb.Message == "" {
		eb.Message = string(data)
	}
	return nil, fmt.Errorf("verify request failed with status %d: %s", resp.StatusCode, eb.Message)
}
