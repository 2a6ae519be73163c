// Package improve turns detected website signals into the ranked list of
// sales talking points shown in a business audit.
package improve

import (
	"strings"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// MaxItems is the length of a full improvement list.
const MaxItems = 5

// Item is an improvement statement with its category still attached.
type Item struct {
	Category    Category
	Title       string
	Description string
}

// Public strips the category.
func (i Item) Public() model.ImprovementItem {
	return model.ImprovementItem{Title: i.Title, Description: i.Description}
}

// SelectTop5 returns at most five improvement items for the entity, one per
// category, in priority order.
func SelectTop5(entity model.BusinessEntity) []model.ImprovementItem {
	items := Select(entity)
	out := make([]model.ImprovementItem, len(items))
	for i, it := range items {
		out[i] = it.Public()
	}
	return out
}

// Select is SelectTop5 without stripping categories.
func Select(entity model.BusinessEntity) []Item {
	if !entity.HasWebsite {
		out := make([]Item, 0, MaxItems)
		for _, it := range noWebsiteItems {
			out = append(out, it.export())
		}
		return out
	}

	s := selector{used: make(map[Category]bool, MaxItems)}
	if sig := entity.WebsiteSignals; sig != nil {
		for _, issue := range sig.Issues {
			s.add(catalog[ClassifyIssue(issue)])
		}
		for _, opp := range sig.Opportunities {
			if s.full() {
				break
			}
			s.add(catalog[ClassifyOpportunity(opp)])
		}
	}
	for _, it := range genericItems {
		if s.full() {
			break
		}
		s.add(it)
	}
	return s.items
}

// ClassifyIssue maps an issue label to its category, Experience when no
// keyword matches.
func ClassifyIssue(label string) Category {
	return classify(label, issueRules, Experience)
}

// ClassifyOpportunity maps an opportunity label to its category, Conversion
// when no keyword matches.
func ClassifyOpportunity(label string) Category {
	return classify(label, opportunityRules, Conversion)
}

func classify(label string, rules []rule, fallback Category) Category {
	lower := strings.ToLower(label)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return fallback
}

type selector struct {
	used  map[Category]bool
	items []Item
}

func (s *selector) full() bool { return len(s.items) >= MaxItems }

// add appends it unless its category is taken or the list is full.
func (s *selector) add(it item) {
	if s.full() || s.used[it.category] {
		return
	}
	s.used[it.category] = true
	s.items = append(s.items, it.export())
}

func (it item) export() Item {
	return Item{Category: it.category, Title: it.title, Description: it.description}
}
