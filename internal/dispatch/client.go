package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"timer2ticket.app/gateway/common/otel"
)

var ErrUnexpectedStatus = errors.New("unexpected status from core")

// CoreClient delivers accepted events to the synchronization engine.
type CoreClient interface {
	PostWebhook(ctx context.Context, payload Payload) error
}

type httpCoreClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCoreClient posts to {baseURL}/webhooks. Every request is bounded by timeout.
func NewHTTPCoreClient(baseURL string, timeout time.Duration) CoreClient {
	return &httpCoreClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpCoreClient) PostWebhook(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/webhooks", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	otel.InjectHeaders(ctx, req.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to core: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
