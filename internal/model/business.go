package model

// Size is the estimated headcount bracket of a business.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParseSize maps a free-text size to a Size. ok is false for unknown values.
func ParseSize(s string) (Size, bool) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), true
	}
	return "", false
}

// SkipMessage is the sentinel message meaning "do not contact".
const SkipMessage = "SKIP"

// BusinessEntity is the read-only input of the scorers.
type BusinessEntity struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Rating         float64         `json:"rating"`
	ReviewCount    int             `json:"review_count"`
	HasWebsite     bool            `json:"has_website"`
	WebsiteSignals *WebsiteSignals `json:"website_signals,omitempty"`
}

// AnalysisSummary returns the website analysis text for the entity.
func (b BusinessEntity) AnalysisSummary() string {
	if !b.HasWebsite {
		return "Pas de site web détecté"
	}
	if b.WebsiteSignals == nil {
		return "Site web non analysé"
	}
	return b.WebsiteSignals.Summary()
}

// ScoringResult is the outcome of scoring one business.
type ScoringResult struct {
	Score         int    `json:"score"`
	EstimatedSize Size   `json:"estimated_size"`
	Reasoning     string `json:"reasoning"`
	Message       string `json:"message"`
}

// Skipped reports whether the result carries the SKIP sentinel.
func (r ScoringResult) Skipped() bool {
	return r.Message == SkipMessage
}
