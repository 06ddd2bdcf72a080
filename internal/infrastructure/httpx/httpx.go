package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Logger is the minimal logging surface httpx needs. Callers adapt their
// structured logger to it; passing nil disables logging.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type Client struct {
	HTTP  *http.Client
	Token string
}

// DoJSON performs req and decodes a JSON response into out. Transport
// errors and 5xx responses are retried with exponential backoff; any other
// non-200 status and decode failures are permanent.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any, log Logger) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second

	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Body = body
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			if log != nil {
				log.Warn("httpx.request_failed", "attempt", attempt, "error", err)
			}
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			if log != nil {
				log.Warn("httpx.server_error", "attempt", attempt, "status", resp.StatusCode)
			}
			return fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode != 200 {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}

// PostJSON marshals in, POSTs it to url, and decodes the response into out
// (out may be nil when the response body does not matter).
func (c *Client) PostJSON(ctx context.Context, url string, in, out any, log Logger) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.DoJSON(ctx, req, out, log)
}
