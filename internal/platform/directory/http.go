package directory

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arogya/arogya/internal/platform/retry"
)

// HTTPDirectory queries a remote regional directory service.
type HTTPDirectory struct {
	client     *resty.Client
	maxRetries int
}

func NewHTTPDirectory(baseURL string, timeout time.Duration, maxRetries int) *HTTPDirectory {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPDirectory{client: client, maxRetries: maxRetries}
}

func (d *HTTPDirectory) Search(ctx context.Context, f Filter) ([]Entry, error) {
	var entries []Entry
	err := retry.Do(ctx, d.maxRetries, func() error {
		req := d.client.R().SetContext(ctx).SetResult(&entries)
		if f.Kind != "" {
			req.SetQueryParam("kind", f.Kind)
		}
		if f.City != "" {
			req.SetQueryParam("city", f.City)
		}
		if f.MinBeds > 0 {
			req.SetQueryParam("min_beds", strconv.Itoa(f.MinBeds))
		}
		if f.MaxDistanceKm > 0 {
			req.SetQueryParam("max_distance_km", strconv.FormatFloat(f.MaxDistanceKm, 'f', -1, 64))
		}
		if len(f.Resources) > 0 {
			req.SetQueryParam("resources", strings.Join(f.Resources, ","))
		}
		resp, err := req.Get("/v1/facilities")
		if err != nil {
			return err
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("directory returned %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
