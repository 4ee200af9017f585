package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arogya/arogya/internal/platform/retry"
)

// HTTPProvider resolves tokens against a remote registry endpoint.
type HTTPProvider struct {
	client     *resty.Client
	maxRetries int
}

func NewHTTPProvider(baseURL string, timeout time.Duration, maxRetries int) *HTTPProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPProvider{client: client, maxRetries: maxRetries}
}

func (p *HTTPProvider) Resolve(ctx context.Context, token string) (Record, error) {
	var rec Record
	err := retry.Do(ctx, p.maxRetries, func() error {
		resp, err := p.client.R().
			SetContext(ctx).
			SetResult(&rec).
			SetPathParam("token", token).
			Get("/v1/records/{token}")
		if err != nil {
			return err
		}
		switch resp.StatusCode() {
		case http.StatusOK:
			return nil
		case http.StatusNotFound:
			return retry.Permanent(ErrNotFound)
		default:
			return fmt.Errorf("registry returned %d", resp.StatusCode())
		}
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
