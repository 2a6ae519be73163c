package model

import "time"

// Place is a business listing returned by the places lookup.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Types       []string `json:"types"`
}

// PrimaryType returns the first type tag, or "business".
func (p Place) PrimaryType() string {
	if len(p.Types) == 0 {
		return "business"
	}
	return p.Types[0]
}

// Entity converts the place into the scorer input.
func (p Place) Entity(signals *WebsiteSignals) BusinessEntity {
	return BusinessEntity{
		Name:           p.Name,
		Category:       p.PrimaryType(),
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		HasWebsite:     p.Website != "",
		WebsiteSignals: signals,
	}
}

// LeadRecord is a persisted, scored places lead keyed by PlaceID.
type LeadRecord struct {
	PlaceID        string          `json:"google_place_id"`
	BusinessName   string          `json:"business_name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone,omitempty"`
	Website        string          `json:"website,omitempty"`
	Rating         float64         `json:"google_rating"`
	ReviewCount    int             `json:"reviews_count"`
	Category       string          `json:"category"`
	EstimatedSize  Size            `json:"estimated_size"`
	HasWebsite     bool            `json:"has_website"`
	WebsiteSignals *WebsiteSignals `json:"website_analysis,omitempty"`
	Score          int             `json:"score"`
	Reasoning      string          `json:"reasoning"`
	Message        string          `json:"message_generated"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// Entity rebuilds the scorer input of a persisted lead.
func (l LeadRecord) Entity() BusinessEntity {
	return BusinessEntity{
		Name:           l.BusinessName,
		Category:       l.Category,
		Rating:         l.Rating,
		ReviewCount:    l.ReviewCount,
		HasWebsite:     l.HasWebsite,
		WebsiteSignals: l.WebsiteSignals,
	}
}

// AgentConfig is the persisted search configuration of the places scan.
type AgentConfig struct {
	Zones             []string  `json:"zones" yaml:"zones"`
	Radius            int       `json:"radius" yaml:"radius"`
	MaxResultsPerZone int       `json:"max_results_per_zone" yaml:"max_results_per_zone"`
	MinReviews        int       `json:"min_reviews" yaml:"min_reviews"`
	MinRating         float64   `json:"min_rating" yaml:"min_rating"`
	PrioritySectors   []string  `json:"priority_sectors" yaml:"priority_sectors"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"updated_at"`
}
