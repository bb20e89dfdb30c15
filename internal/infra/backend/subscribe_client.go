package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
)

var _ adapter.SubscriptionBackend = (*SubscribeClient)(nil)

// SubscribeClient posts checkout payloads to the backend subscribe endpoint.
// The backend is an external collaborator: any parseable response (2xx or
// not) is returned as a SubmissionResult carrying the backend's own message;
// only transport failures and unparsable bodies become errors.
type SubscribeClient struct {
	baseURL string
	client  *http.Client
}

// NewSubscribeClient builds a client for the given base URL. An empty base
// URL targets a same-host relative path, the default deployment shape.
func NewSubscribeClient(baseURL string, timeout time.Duration) *SubscribeClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SubscribeClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *SubscribeClient) CreateSubscription(ctx context.Context, req adapter.SubscribeRequest) (*model.SubmissionResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := c.baseURL + "/api/subscribe"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrBackendUnreachable, err)
	}

	var result model.SubmissionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: unparsable response (status %d)", domain.ErrBackendUnreachable, resp.StatusCode)
	}

	// A 2xx with success=false is still a rejection; a non-2xx with a
	// parsed body keeps the backend's message.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Success = false
	}
	return &result, nil
}
