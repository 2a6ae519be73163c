// Package model holds the data types shared by the prospecting pipeline.
package model

import (
	"fmt"
	"strings"
)

// WebsiteSignals is the result of a single website analysis. Issues and
// Opportunities keep detection order; downstream ranking depends on it.
type WebsiteSignals struct {
	Exists               bool     `json:"exists" yaml:"exists"`
	LoadTimeMs           *int64   `json:"load_time_ms,omitempty" yaml:"load_time_ms,omitempty"`
	HasMobileViewport    *bool    `json:"has_mobile_viewport,omitempty" yaml:"has_mobile_viewport,omitempty"`
	HasSSL               bool     `json:"has_ssl" yaml:"has_ssl"`
	PageTitle            *string  `json:"page_title,omitempty" yaml:"page_title,omitempty"`
	MetaDescription      *string  `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	HasContactAffordance *bool    `json:"has_contact_affordance,omitempty" yaml:"has_contact_affordance,omitempty"`
	Issues               []string `json:"issues" yaml:"issues"`
	Opportunities        []string `json:"opportunities" yaml:"opportunities"`
}

// NoWebsiteSummary is the summary used when a business has no reachable site.
const NoWebsiteSummary = "Cette entreprise n'a pas de site web. Opportunité de créer un site professionnel complet."

// CleanWebsiteSummary is used for a site without any detected issue. It must
// not contain the word "problème", which the heuristic scorer looks for.
const CleanWebsiteSummary = "Site existant, aucun défaut technique détecté."

// Summary renders the signals as the French free-text analysis handed to
// the scoring prompt and the heuristic scorer.
func (s WebsiteSignals) Summary() string {
	if !s.Exists {
		return NoWebsiteSummary
	}
	if len(s.Issues) == 0 {
		if len(s.Opportunities) == 0 {
			return CleanWebsiteSummary
		}
		return CleanWebsiteSummary + " Opportunités: " + strings.Join(s.Opportunities, ", ")
	}
	return fmt.Sprintf("Site existant avec %d problème(s) détecté(s): %s. Opportunités: %s",
		len(s.Issues),
		strings.Join(s.Issues, ", "),
		strings.Join(s.Opportunities, ", "),
	)
}

// Clean reports whether the site exists and no issue or opportunity was detected.
func (s WebsiteSignals) Clean() bool {
	return s.Exists && len(s.Issues) == 0 && len(s.Opportunities) == 0
}

// ImprovementItem is one sales-oriented talking point of an audit.
type ImprovementItem struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}
