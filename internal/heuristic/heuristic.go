// Package heuristic scores a business without a model call, using a fixed
// point table.
package heuristic

import (
	"fmt"
	"strings"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// MaxScore is the upper bound of every score.
const MaxScore = 10

// ContactThreshold is the score from which a message is produced.
const ContactThreshold = 6

// Reasons attached to each awarded rule.
const (
	ReasonHighActivity = "Forte activité (100+ avis)"
	ReasonActivity     = "Activité correcte"
	ReasonReputation   = "Bonne réputation"
	ReasonNoWebsite    = "Pas de site = grosse opportunité"
	ReasonWebsiteIssue = "Site à améliorer"
)

// problemMarker is searched in the website analysis summary.
const problemMarker = "problème"

type rule struct {
	award func(model.BusinessEntity) (int, string)
}

// rules apply in this order. Each one adds at most the headroom left under
// MaxScore, so earlier rules saturate first.
var rules = []rule{
	{award: func(b model.BusinessEntity) (int, string) {
		switch {
		case b.ReviewCount > 100:
			return 3, ReasonHighActivity
		case b.ReviewCount > 30:
			return 2, ReasonActivity
		}
		return 0, ""
	}},
	{award: func(b model.BusinessEntity) (int, string) {
		if b.Rating >= 4.0 {
			return 2, ReasonReputation
		}
		return 0, ""
	}},
	{award: func(b model.BusinessEntity) (int, string) {
		if !b.HasWebsite {
			return 3, ReasonNoWebsite
		}
		if strings.Contains(b.AnalysisSummary(), problemMarker) {
			return 2, ReasonWebsiteIssue
		}
		return 0, ""
	}},
}

// Score is the deterministic fallback scorer.
func Score(b model.BusinessEntity) model.ScoringResult {
	score := 0
	var reasons []string
	for _, r := range rules {
		pts, reason := r.award(b)
		if pts <= 0 {
			continue
		}
		score += min(pts, MaxScore-score)
		reasons = append(reasons, reason)
	}

	res := model.ScoringResult{
		Score:         score,
		EstimatedSize: EstimateSize(b.ReviewCount),
		Reasoning:     strings.Join(reasons, ", "),
		Message:       model.SkipMessage,
	}
	if score >= ContactThreshold {
		res.Message = fmt.Sprintf("Bonjour, j'ai remarqué votre établissement %s et je pense pouvoir vous aider à améliorer votre présence en ligne.", b.Name)
	}
	return res
}

// EstimateSize buckets a business by review count.
func EstimateSize(reviews int) model.Size {
	switch {
	case reviews > 200:
		return model.SizeLarge
	case reviews > 50:
		return model.SizeMedium
	default:
		return model.SizeSmall
	}
}
