package orbit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const (
	maxAttempts    = 3
	initialBackoff = time.Second
)

var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

type document struct {
	body     []byte
	finalUrl string
}

// classify turns one attempt's outcome into (doc, retryable, err).
func classify(res *resty.Response, err error) (document, bool, error) {
	if err != nil {
		// connection failure or timeout
		return document{}, true, err
	}

	status := res.StatusCode()
	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}

	if status >= 200 && status < 300 {
		return document{body: res.Body(), finalUrl: finalUrl}, false, nil
	}
	if retryableStatus[status] {
		return document{}, true, fmt.Errorf("retryable status %d from %s", status, finalUrl)
	}
	return document{}, false, &FatalHTTPError{StatusCode: status, URL: finalUrl}
}

// withRetry runs one logical request up to maxAttempts times with
// exponential backoff, preserving the first transient cause when every
// attempt is exhausted. fatal errors pass through untouched.
func (c *Client) withRetry(ctx context.Context, attempt func() (*resty.Response, error)) (document, error) {
	var lastErr error
	backoff := initialBackoff

	for i := 1; i <= maxAttempts; i++ {
		doc, retryable, err := classify(attempt())
		if err == nil {
			return doc, nil
		}
		if !retryable {
			return document{}, err
		}
		if lastErr == nil {
			lastErr = err
		}

		if i == maxAttempts {
			break
		}
		slog.DebugContext(ctx, "retrying request after backoff",
			"attempt", i, "backoff", backoff, "err", err)
		select {
		case <-ctx.Done():
			return document{}, &TransientError{Attempts: i, Cause: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return document{}, &TransientError{Attempts: maxAttempts, Cause: lastErr}
}

func (c *Client) get(ctx context.Context, link string) (document, error) {
	ctx, span := tracer.Start(ctx, "get")
	defer span.End()

	doc, err := c.withRetry(ctx, func() (*resty.Response, error) {
		return c.Http.R().
			SetContext(ctx).
			Get(link)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
	}
	return doc, err
}

func (c *Client) postForm(ctx context.Context, link string, form map[string]string) (document, error) {
	ctx, span := tracer.Start(ctx, "postForm")
	defer span.End()

	doc, err := c.withRetry(ctx, func() (*resty.Response, error) {
		return c.Http.R().
			SetContext(ctx).
			SetFormData(form).
			Post(link)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
	}
	return doc, err
}
