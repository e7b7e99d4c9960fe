package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
	"github.com/tzij-labs/tzij-cli/internal/logger"
)

// Ensure HTTPClient implements the interface.
var _ driven.ProviderClient = (*HTTPClient)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultPerSecond = 5.0
	DefaultBurst     = 10
)

// translatePath is the translation endpoint relative to the
// descriptor's base URL.
const translatePath = "/translate"

// Config holds configuration for the HTTP provider client.
type Config struct {
	// Timeout is the per-request timeout (default: 10s). Callers
	// usually bound attempts with their own context as well.
	Timeout time.Duration

	// PerSecond is the sustained client-side pacing rate applied per
	// provider (default: 5).
	PerSecond float64

	// Burst is the pacing burst size (default: 10).
	Burst int
}

// HTTPClient calls translation backends over HTTP. Auth headers are
// built from descriptor metadata, so a new provider needs catalog
// configuration only, no code.
type HTTPClient struct {
	client *http.Client
	pacer  *pacer
}

// translateRequest is the wire format sent to translation endpoints.
type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// translateResponse is the wire format expected back.
type translateResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error,omitempty"`
}

// NewHTTPClient creates a provider client.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = DefaultPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &HTTPClient{
		client: &http.Client{Timeout: cfg.Timeout},
		pacer:  newPacer(cfg.PerSecond, cfg.Burst),
	}
}

// Probe checks a credential against the descriptor's test endpoint.
// Any 2xx response validates the credential.
func (c *HTTPClient) Probe(ctx context.Context, desc *domain.ProviderDescriptor, secret string) error {
	if desc.TestEndpoint == "" {
		return nil
	}

	url := strings.TrimSuffix(desc.BaseURL, "/") + desc.TestEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: create probe request: %w", desc.ServiceID, err)
	}
	applyAuth(req, desc, secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: probe: %w", desc.ServiceID, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: probe returned status %d: %w",
			desc.ServiceID, resp.StatusCode, domain.ErrValidationFailed)
	}
	return nil
}

// Invoke requests one translation. Timeouts, transport errors and 5xx
// responses surface as domain.ErrProviderUnavailable; a 429 records
// backoff and surfaces as domain.ErrRateLimited. The router treats
// both as skip-and-continue.
func (c *HTTPClient) Invoke(ctx context.Context, desc *domain.ProviderDescriptor, secret string, treq domain.TranslationRequest) (string, error) {
	if !c.pacer.allow(desc.ServiceID) {
		return "", fmt.Errorf("%s: pacing backoff active: %w", desc.ServiceID, domain.ErrRateLimited)
	}

	body, err := json.Marshal(translateRequest{
		Text:       treq.Text,
		SourceLang: treq.SourceLang,
		TargetLang: treq.TargetLang,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", desc.ServiceID, err)
	}

	url := strings.TrimSuffix(desc.BaseURL, "/") + translatePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", desc.ServiceID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	applyAuth(req, desc, secret)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%s: %v: %w", desc.ServiceID, err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", desc.ServiceID, domain.ErrProviderUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.pacer.recordRetryAfter(desc.ServiceID, retryAfterSeconds(resp))
		logger.Warn("%s: declared quota exhaustion", desc.ServiceID)
		return "", fmt.Errorf("%s: %w", desc.ServiceID, domain.ErrRateLimited)
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		// fall through to decode
	default:
		return "", fmt.Errorf("%s: status %d: %w",
			desc.ServiceID, resp.StatusCode, domain.ErrProviderUnavailable)
	}

	var tresp translateResponse
	if err := json.Unmarshal(raw, &tresp); err != nil {
		return "", fmt.Errorf("%s: malformed response: %w", desc.ServiceID, domain.ErrProviderUnavailable)
	}
	if tresp.Error != "" || tresp.Translation == "" {
		return "", fmt.Errorf("%s: unusable response: %w", desc.ServiceID, domain.ErrProviderUnavailable)
	}
	return tresp.Translation, nil
}

// applyAuth sets the credential header declared by the descriptor.
func applyAuth(req *http.Request, desc *domain.ProviderDescriptor, secret string) {
	switch desc.AuthScheme {
	case domain.AuthBearer:
		req.Header.Set("Authorization", "Bearer "+secret)
	case domain.AuthAPIKeyHeader:
		req.Header.Set("X-API-Key", secret)
	case domain.AuthSubscriptionKey:
		req.Header.Set("Ocp-Apim-Subscription-Key", secret)
	}
}

// retryAfterSeconds parses the Retry-After header, zero when absent or
// not a plain second count.
func retryAfterSeconds(resp *http.Response) int {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
