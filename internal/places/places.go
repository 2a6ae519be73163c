// Package places finds local businesses around configured zones and keeps
// the ones worth prospecting.
package places

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/resilience"
	"github.com/Loan69/ai-agent-prospection/pkg/google"
)

// DefaultKeywords are searched in every zone.
var DefaultKeywords = []string{
	"restaurant",
	"boutique",
	"magasin",
	"salon de coiffure",
	"cabinet avocat",
}

// DefaultZones are scanned when no agent configuration is stored.
var DefaultZones = []string{
	"Lyon 1, France",
	"Lyon 2, France",
	"Lyon 3, France",
	"Lyon 6, France",
	"Lyon 7, France",
	"Villeurbanne, France",
}

// Searcher looks up the businesses of one zone.
type Searcher interface {
	SearchZone(ctx context.Context, q ZoneQuery) ([]model.Place, error)
}

// ZoneQuery describes one zone scan.
type ZoneQuery struct {
	Zone       string
	Radius     int
	MaxResults int
	Keywords   []string
}

// GoogleSearcher implements Searcher with the Places and Geocoding APIs.
type GoogleSearcher struct {
	client   google.Client
	limiter  *rate.Limiter
	retry    resilience.Policy
	language string
}

// NewGoogleSearcher creates a searcher issuing at most qps requests per second.
func NewGoogleSearcher(client google.Client, qps float64) *GoogleSearcher {
	if qps <= 0 {
		qps = 5
	}
	return &GoogleSearcher{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(qps), 1),
		retry:    resilience.Policy{Attempts: 1},
		language: "fr",
	}
}

// WithRetry replaces the retry policy of transient API failures. Searchers
// make a single attempt unless a policy is set.
func (s *GoogleSearcher) WithRetry(p resilience.Policy) *GoogleSearcher {
	s.retry = p
	return s
}

// SearchZone geocodes the zone then runs one search per keyword, keeping the
// first occurrence of each place id. Lodging is dropped here already. The
// scan stops once MaxResults places are collected.
func (s *GoogleSearcher) SearchZone(ctx context.Context, q ZoneQuery) ([]model.Place, error) {
	log := zap.L().With(zap.String("zone", q.Zone))

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}
	geocode := s.retry
	geocode.OnRetry = resilience.LogRetry("google", "geocode")
	center, err := resilience.Do(ctx, geocode, func(ctx context.Context) (*google.LatLng, error) {
		return s.client.Geocode(ctx, q.Zone)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "places: geocode %s", q.Zone)
	}

	keywords := q.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	seen := make(map[string]bool)
	var out []model.Place
	for _, kw := range keywords {
		if ctx.Err() != nil {
			return out, eris.Wrap(ctx.Err(), "places: search cancelled")
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return out, eris.Wrap(err, "places: rate limit")
		}

		req := google.TextSearchRequest{
			Query:        kw,
			Center:       *center,
			RadiusMeters: float64(q.Radius),
			MaxResults:   q.MaxResults,
			LanguageCode: s.language,
		}
		search := s.retry
		search.OnRetry = resilience.LogRetry("google", "text_search")
		resp, err := resilience.Do(ctx, search, func(ctx context.Context) (*google.TextSearchResponse, error) {
			return s.client.TextSearch(ctx, req)
		})
		if err != nil {
			log.Warn("places: keyword search failed", zap.String("keyword", kw), zap.Error(err))
			continue
		}

		for _, p := range resp.Places {
			if p.ID == "" || seen[p.ID] || IsLodging(p.Types) {
				continue
			}
			seen[p.ID] = true
			out = append(out, fromGoogle(p))
		}
		if q.MaxResults > 0 && len(out) >= q.MaxResults {
			break
		}
	}

	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}
	log.Debug("places: zone searched", zap.Int("places", len(out)))
	return out, nil
}

func fromGoogle(p google.Place) model.Place {
	return model.Place{
		ID:          p.ID,
		Name:        p.DisplayName.Text,
		Address:     p.FormattedAddress,
		Phone:       p.NationalPhoneNumber,
		Website:     p.WebsiteURI,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		Types:       p.Types,
	}
}

// Dedupe keeps the first place of each id, preserving order.
func Dedupe(in []model.Place) []model.Place {
	seen := make(map[string]bool, len(in))
	out := make([]model.Place, 0, len(in))
	for _, p := range in {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

var lodgingTypes = []string{"lodging", "hotel", "motel", "hostel", "guest_house", "campground", "rv_park"}

// IsLodging reports whether any type tag is a lodging type.
func IsLodging(types []string) bool {
	for _, t := range types {
		if slices.Contains(lodgingTypes, t) {
			return true
		}
	}
	return false
}
