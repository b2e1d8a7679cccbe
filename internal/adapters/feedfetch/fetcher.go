// Package feedfetch pulls subscribed RSS and Atom feeds for the
// collection stage of the pipeline
package feedfetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	perr "curately/internal/platform/errors"
	"curately/internal/platform/logger"
	pipedom "curately/internal/services/pipeline/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultUA       = "curately-pipeline"
	fetchMaxBytes   = 4 << 20
	defaultAcceptHd = "application/rss+xml, application/atom+xml, application/xml, text/xml"
)

// Options configures the Fetcher
type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher downloads one feed URL and parses its entries. Failures are
// unavailable errors so the collector can skip the feed and move on
type Fetcher struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewFetcher creates a Fetcher with its own bounded client
func NewFetcher(o Options) *Fetcher {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Fetcher{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("feedfetch"),
	}
}

// Fetch downloads and parses the feed at url. Entries missing a link or
// a title carry nothing worth storing and are dropped
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]pipedom.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perr.InvalidArgf("invalid feed url")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", defaultAcceptHd)

	start := time.Now()
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "feed fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, perr.Unavailablef("feed returned http %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, fetchMaxBytes))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "feed parse failed")
	}

	items := make([]pipedom.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.Link == "" || it.Title == "" {
			continue
		}
		items = append(items, mapItem(it))
	}

	f.log.Debug().
		Str("url", url).
		Int("entries", len(items)).
		Dur("latency", time.Since(start)).
		Msg("feed fetched")
	return items, nil
}

func mapItem(it *gofeed.Item) pipedom.FeedItem {
	out := pipedom.FeedItem{
		Title:       it.Title,
		Link:        it.Link,
		PublishedAt: it.PublishedParsed,
		Categories:  it.Categories,
	}
	if len(it.Authors) > 0 && it.Authors[0].Name != "" {
		name := it.Authors[0].Name
		out.Author = &name
	}
	// content falls back from the full body to the summary line
	switch {
	case it.Content != "":
		c := it.Content
		out.Summary = &c
	case it.Description != "":
		d := it.Description
		out.Summary = &d
	}
	return out
}
