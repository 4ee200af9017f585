package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arogya/arogya/internal/platform/retry"
)

// HTTPSender posts broadcasts to a remote messaging gateway.
type HTTPSender struct {
	client     *resty.Client
	maxRetries int
}

func NewHTTPSender(baseURL string, timeout time.Duration, maxRetries int) *HTTPSender {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPSender{client: client, maxRetries: maxRetries}
}

func (s *HTTPSender) Send(ctx context.Context, b Broadcast) (Result, error) {
	var res Result
	err := retry.Do(ctx, s.maxRetries, func() error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(b).
			SetResult(&res).
			Post("/v1/broadcasts")
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode() == http.StatusOK, resp.StatusCode() == http.StatusAccepted:
			return nil
		case resp.StatusCode() >= 400 && resp.StatusCode() < 500:
			return retry.Permanent(fmt.Errorf("gateway rejected broadcast: %d", resp.StatusCode()))
		default:
			return fmt.Errorf("gateway returned %d", resp.StatusCode())
		}
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
