package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	perr "curately/internal/platform/errors"
)

const (
	checkTimeout  = 10 * time.Second
	checkMaxBytes = 4 << 20
)

// FeedChecker validates a subscription URL by fetching it and parsing the
// body as RSS or Atom. Unreachable or unparseable URLs are invalid-argument
// errors so the API answers 422, matching subscribe semantics
type FeedChecker struct {
	http *http.Client
}

// NewFeedChecker constructs a FeedChecker with its own bounded client
func NewFeedChecker() *FeedChecker {
	return &FeedChecker{http: &http.Client{Timeout: checkTimeout}}
}

// Check fetches the URL and parses it as a feed
func (c *FeedChecker) Check(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return perr.InvalidArgf("invalid feed url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return perr.InvalidArgf("invalid feed url")
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return perr.InvalidArgf("failed to fetch feed url")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return perr.InvalidArgf("feed url returned http %d", resp.StatusCode)
	}

	if _, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, checkMaxBytes)); err != nil {
		return perr.InvalidArgf("url is not a valid rss feed")
	}
	return nil
}
