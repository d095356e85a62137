package orbit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type FetchOptions struct {
	// submitted once as the search/filter form (year selector, date
	// range) before any pagination occurs. nil skips the submission.
	FilterFields map[string]string
	// base politeness pause between page-advance postbacks,
	// zero disables it
	PoliteDelay time.Duration
}

// anchor texts that hint at pages beyond the rendered page-number
// range even when no Page$N target for the next index is visible
var continuationTexts = map[string]bool{
	"...":  true,
	"›":    true,
	"»":    true,
	"Next": true,
	"הבא":  true,
}

func basePostbackForm(eventTarget, eventArgument string) map[string]string {
	return map[string]string{
		"__EVENTTARGET":   eventTarget,
		"__EVENTARGUMENT": eventArgument,
		"__LASTFOCUS":     "",
	}
}

// hasNextPage is deliberately permissive: truncated page-number ranges
// do not always expose the literal next index as a clickable target.
// the duplicate-signature guard in the loop is the authoritative
// backstop when this heuristic overshoots.
func hasNextPage(doc *goquery.Document, currentPage int) bool {
	anchors := paginationAnchors(doc)
	if len(anchors) == 0 {
		return false
	}

	nextTarget := fmt.Sprintf("Page$%d", currentPage+1)
	for _, a := range anchors {
		if strings.Contains(a.Href, nextTarget) {
			return true
		}
	}
	for _, a := range anchors {
		if continuationTexts[a.Name] {
			return true
		}
	}
	return false
}

// FetchAllPages drives the postback protocol from page 1 until
// exhaustion and returns every distinct page document in order.
//
// a run that dies mid-pagination returns a *RunError still carrying
// the pages collected so far, partial progress is usable.
func (c *Client) FetchAllPages(ctx context.Context, opts FetchOptions) ([][]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchAllPages")
	defer span.End()

	target := c.TargetUrl.String()

	// unconditional GET, this exists solely to obtain an initial
	// view-state/event-validation pair the server will accept
	doc, err := c.get(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch initial page")
		return nil, &RunError{Err: err}
	}
	gdoc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(doc.body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse initial page")
		return nil, &RunError{Err: err}
	}

	state := ExtractFormState(gdoc)
	if len(state) == 0 {
		span.SetStatus(codes.Error, ErrMalformedDocument.Error())
		return nil, &RunError{Err: ErrMalformedDocument}
	}

	if opts.FilterFields != nil {
		form := basePostbackForm("", "")
		for k, v := range state {
			form[k] = v
		}
		for k, v := range opts.FilterFields {
			form[k] = v
		}

		doc, err = c.postForm(ctx, target, form)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to submit filter form")
			return nil, &RunError{Err: err}
		}
		gdoc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(doc.body))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse filtered page")
			return nil, &RunError{Err: err}
		}
		state = ExtractFormState(gdoc)
	}

	pages := [][]byte{doc.body}
	previousSignature := ExtractPageSignature(gdoc)
	page := 1

	for hasNextPage(gdoc, page) {
		page++
		slog.DebugContext(ctx, "fetching page", "page", page)

		c.politePause(opts.PoliteDelay)

		form := basePostbackForm(c.GridControlId, fmt.Sprintf("Page$%d", page))
		for k, v := range state {
			form[k] = v
		}

		doc, err = c.postForm(ctx, target, form)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to advance page")
			return pages, &RunError{Pages: pages, Err: err}
		}
		gdoc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(doc.body))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse page")
			return pages, &RunError{Pages: pages, Err: err}
		}

		// the server's own has-more-pages signal is not trustworthy,
		// identical content is the ground truth that the page index
		// wrapped or stalled. the duplicate is not appended.
		currentSignature := ExtractPageSignature(gdoc)
		if currentSignature.Equal(previousSignature) {
			slog.DebugContext(ctx, "duplicate page content, stopping", "page", page)
			span.AddEvent("duplicate page detected")
			break
		}

		state.Merge(ExtractFormState(gdoc))
		pages = append(pages, doc.body)
		previousSignature = currentSignature
	}

	span.SetAttributes(attribute.Int("pages", len(pages)))
	return pages, nil
}

func (c *Client) politePause(base time.Duration) {
	if base <= 0 {
		return
	}
	// jitter the pause so successive postbacks don't look mechanical
	ms := int(base / time.Millisecond)
	jittered, err := random.IntRange(ms/2, ms+ms/2+1)
	if err != nil {
		jittered = ms
	}
	time.Sleep(time.Duration(jittered) * time.Millisecond)
}
