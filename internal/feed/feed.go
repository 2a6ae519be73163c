// Package feed reads the freelance-job RSS feed and selects the projects
// that match the agent's skills.
package feed

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/textnorm"
)

// Defaults.
const (
	DefaultURL     = "https://www.codeur.com/projects.rss"
	DefaultMaxAge  = 2 * time.Hour
	DefaultTimeout = 15 * time.Second
	maxFeedBytes   = 8 << 20
)

// DefaultSkills are matched against project titles and descriptions.
var DefaultSkills = []string{"SaaS", "site vitrine", "application mobile", "développement web"}

// Source returns the current feed items.
type Source interface {
	Fetch(ctx context.Context) ([]model.FeedItem, error)
}

// Option configures an RSS source.
type Option func(*RSS)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *RSS) { r.http = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *RSS) { r.userAgent = ua }
}

// RSS fetches an RSS 2.0 feed over HTTP.
type RSS struct {
	url       string
	http      *http.Client
	userAgent string
}

// NewRSS creates an RSS source for url.
func NewRSS(url string, opts ...Option) *RSS {
	if url == "" {
		url = DefaultURL
	}
	r := &RSS{
		url:       url,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "Mozilla/5.0 (compatible; BusinessAnalyzer/1.0)",
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Fetch downloads and decodes the feed.
func (r *RSS) Fetch(ctx context.Context) ([]model.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "feed: create request")
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "feed: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("feed: unexpected status %d", resp.StatusCode)
	}

	return Decode(ctx, io.LimitReader(resp.Body, maxFeedBytes))
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
}

// Decode reads every <item> element of an RSS document. Title and
// description are normalized; a missing or unparsable pubDate leaves
// PublishedAt nil.
func Decode(ctx context.Context, r io.Reader) ([]model.FeedItem, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "feed: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var items []model.FeedItem
	for {
		if ctx.Err() != nil {
			return items, eris.Wrap(ctx.Err(), "feed: context cancelled")
		}

		tok, err := decoder.Token()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, eris.Wrap(err, "feed: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "item" {
			continue
		}

		var it rssItem
		if err := decoder.DecodeElement(&it, &se); err != nil {
			return items, eris.Wrap(err, "feed: decode item")
		}
		items = append(items, model.FeedItem{
			Title:       textnorm.Normalize(it.Title),
			Description: textnorm.Normalize(it.Description),
			Link:        strings.TrimSpace(it.Link),
			PublishedAt: parseDate(it.PubDate),
		})
	}
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
