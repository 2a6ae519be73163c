package feed

import (
	"strings"
	"time"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// Matcher selects fresh projects mentioning at least one skill.
type Matcher struct {
	Skills []string
	MaxAge time.Duration
	Now    func() time.Time
}

// NewMatcher returns a matcher, falling back to the default skills and age.
func NewMatcher(skills []string, maxAge time.Duration) Matcher {
	if len(skills) == 0 {
		skills = DefaultSkills
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return Matcher{Skills: skills, MaxAge: maxAge, Now: time.Now}
}

// MatchesSkill reports whether the title or description mentions a skill,
// case-insensitively.
func (m Matcher) MatchesSkill(it model.FeedItem) bool {
	content := strings.ToLower(it.Title + " " + it.Description)
	for _, s := range m.Skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" && strings.Contains(content, s) {
			return true
		}
	}
	return false
}

// Fresh reports whether the item is within MaxAge. Undated items are fresh.
func (m Matcher) Fresh(it model.FeedItem) bool {
	if it.PublishedAt == nil || m.MaxAge <= 0 {
		return true
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return now().Sub(*it.PublishedAt) <= m.MaxAge
}

// Match reports whether the item is both fresh and on-skill.
func (m Matcher) Match(it model.FeedItem) bool {
	return m.Fresh(it) && m.MatchesSkill(it)
}
