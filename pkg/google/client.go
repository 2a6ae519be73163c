// Package google wraps the Google Places (New) text search and the
// Geocoding API.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Loan69/ai-agent-prospection/internal/resilience"
)

const (
	defaultBaseURL    = "https://places.googleapis.com/v1"
	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

	fieldMask = "places.id,places.displayName,places.formattedAddress,places.nationalPhoneNumber," +
		"places.websiteUri,places.rating,places.userRatingCount,places.types"
)

// ErrNoGeocodeMatch is returned when an address cannot be geocoded.
var ErrNoGeocodeMatch = eris.New("google: no geocode match")

// Client performs Google Maps Platform operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Geocode(ctx context.Context, address string) (*LatLng, error)
}

// LatLng is a WGS84 point.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TextSearchRequest is a keyword search biased to a circle.
type TextSearchRequest struct {
	Query        string
	Center       LatLng
	RadiusMeters float64
	MaxResults   int
	LanguageCode string
}

// TextSearchResponse is the response from Places Text Search.
type TextSearchResponse struct {
	Places []Place `json:"places"`
}

// Place represents a place returned by the API.
type Place struct {
	ID                  string      `json:"id"`
	DisplayName         DisplayName `json:"displayName"`
	FormattedAddress    string      `json:"formattedAddress"`
	NationalPhoneNumber string      `json:"nationalPhoneNumber"`
	WebsiteURI          string      `json:"websiteUri"`
	Rating              float64     `json:"rating"`
	UserRatingCount     int         `json:"userRatingCount"`
	Types               []string    `json:"types"`
}

// DisplayName holds the place's display name.
type DisplayName struct {
	Text string `json:"text"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default Places API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithGeocodeURL overrides the Geocoding API endpoint.
func WithGeocodeURL(url string) Option {
	return func(c *httpClient) {
		c.geocodeURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey     string
	baseURL    string
	geocodeURL string
	http       *http.Client
}

// NewClient creates a Google Maps Platform client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		geocodeURL: defaultGeocodeURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type textSearchBody struct {
	TextQuery    string        `json:"textQuery"`
	LanguageCode string        `json:"languageCode,omitempty"`
	PageSize     int           `json:"pageSize,omitempty"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

func (c *httpClient) TextSearch(ctx context.Context, r TextSearchRequest) (*TextSearchResponse, error) {
	reqBody := textSearchBody{
		TextQuery:    r.Query,
		LanguageCode: r.LanguageCode,
		PageSize:     r.MaxResults,
	}
	if r.RadiusMeters > 0 {
		reqBody.LocationBias = &locationBias{Circle: circle{Center: r.Center, Radius: r.RadiusMeters}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "google: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	var result TextSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "google: unmarshal response")
	}

	return &result, nil
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (c *httpClient) Geocode(ctx context.Context, address string) (*LatLng, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google: build geocode request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: geocode request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("google: geocode returned status %d", resp.StatusCode)
		if resilience.IsTransientStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: geocode read body")
	}

	var gr geocodeResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, eris.Wrap(err, "google: geocode parse response")
	}

	switch {
	case gr.Status == "ZERO_RESULTS" || (gr.Status == "OK" && len(gr.Results) == 0):
		return nil, eris.Wrapf(ErrNoGeocodeMatch, "address %q", address)
	case gr.Status == "OVER_QUERY_LIMIT" || gr.Status == "UNKNOWN_ERROR":
		return nil, resilience.Transient(eris.Errorf("google: geocode status %s", gr.Status), resp.StatusCode)
	case gr.Status != "OK":
		return nil, eris.Errorf("google: geocode status %s: %s", gr.Status, strings.TrimSpace(gr.ErrorMessage))
	}

	loc := gr.Results[0].Geometry.Location
	return &LatLng{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
