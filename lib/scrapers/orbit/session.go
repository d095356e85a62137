package orbit

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// markers that only ever appear on the portal's login page, the server
// happily serves it with a 200 to expired sessions
var loginPageMarkers = []string{
	"ctl00$ContentPlaceHolder1$edtUsername",
	"ctl00$ContentPlaceHolder1$edtPassword",
	"ctl00$ContentPlaceHolder1$btnLogin",
}

// ValidateSession confirms the session cookies are still authenticated
// by fetching the target page once. it never retries a dead session,
// refreshing credentials is the caller's problem.
func (c *Client) ValidateSession(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:ValidateSession")
	defer span.End()

	doc, err := c.get(ctx, c.TargetUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch target page")
		return err
	}

	if strings.Contains(strings.ToLower(doc.finalUrl), "login") {
		span.SetStatus(codes.Error, "redirected to login page")
		return ErrInvalidSession
	}

	body := string(doc.body)
	for _, marker := range loginPageMarkers {
		if strings.Contains(body, marker) {
			span.SetStatus(codes.Error, "login page marker found in body")
			return ErrInvalidSession
		}
	}

	return nil
}
