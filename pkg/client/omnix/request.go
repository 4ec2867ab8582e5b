package omnix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// get performs one GET against the API through the circuit breaker and
// decodes the JSON body into out.
func (c *BasicClient) get(ctx context.Context, op, path string, params map[string]any, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.do(ctx, op, path, params, out)
	})
	return err
}

func (c *BasicClient) do(ctx context.Context, op, path string, params map[string]any, out any) error {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if query := encodeQuery(params); query != "" {
		endpoint += "?" + query
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating new request for %s: %w", op, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error doing request for %s: %w", op, err)
	}

	defer func() {
		if err = res.Body.Close(); err != nil {
			c.logger.ErrorContext(ctx,
				"error closing response body for "+op,
				slog.Any("error", err),
			)
		}
	}()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)

		var apiErr APIError
		if err = json.Unmarshal(body, &apiErr); err != nil {
			return &APIError{
				Code:       http.StatusText(res.StatusCode),
				Message:    strings.TrimSpace(string(body)),
				StatusCode: res.StatusCode,
			}
		}

		apiErr.StatusCode = res.StatusCode
		return &apiErr
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading response body for %s: %w", op, err)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshalling response body for %s: %w", op, err)
	}

	return nil
}

func encodeQuery(params map[string]any) string {
	values := url.Values{}
	for key, val := range params {
		if val == nil {
			continue
		}
		values.Set(key, fmt.Sprint(val))
	}
	// Encode sorts by key.
	return values.Encode()
}
