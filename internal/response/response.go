// Package response extracts structured results from the free-text replies of
// the language model. Patterns are anchored on the labels defined in package
// prompt.
package response

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/prompt"
)

// ErrInvalidResponse is returned when a mandatory field is missing.
var ErrInvalidResponse = eris.New("response: invalid model response")

// Scoring defaults.
const (
	DefaultSize      = model.SizeSmall
	DefaultScore     = 0
	DefaultReasoning = "Pas d'analyse disponible"
	DefaultMessage   = model.SkipMessage
)

const maxScore = 10

func label(l string) string { return regexp.QuoteMeta(l) + `:\s*` }

var (
	scoreRe         = regexp.MustCompile(label(prompt.LabelScore) + `(\d+)`)
	verdictRe       = regexp.MustCompile(label(prompt.LabelVerdict) + `(` + prompt.VerdictContact + `|` + prompt.VerdictIgnore + `)`)
	segmentRe       = regexp.MustCompile(label(prompt.LabelSegment) + `(` + prompt.SegmentArtisan + `|` + prompt.SegmentB2B + `)`)
	justificationRe = regexp.MustCompile(label(prompt.LabelJustification) + `(.*)`)

	sizeRe      = regexp.MustCompile(`(?i)` + label(prompt.LabelSize) + `(small|medium|large)`)
	noteRe      = regexp.MustCompile(label(prompt.LabelNote) + `(\d+)/10`)
	reasoningRe = regexp.MustCompile(`(?s)` + label(prompt.LabelReasoning) + `(.+?)` + regexp.QuoteMeta(prompt.LabelMessage) + `:`)
	messageRe   = regexp.MustCompile(`(?s)` + label(prompt.LabelMessage) + `(.+)`)

	noteHeaderRe = regexp.MustCompile(`(?s)` + label(prompt.LabelNote) + `\d+/10\s*` + regexp.QuoteMeta(prompt.LabelMessage) + `:`)
)

// ParseQualification extracts the four mandatory qualification fields. Any
// missing field fails the whole parse with ErrInvalidResponse.
func ParseQualification(text string) (*model.QualificationResult, error) {
	m := scoreRe.FindStringSubmatch(text)
	if m == nil {
		return nil, eris.Wrapf(ErrInvalidResponse, "missing %s", prompt.LabelScore)
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidResponse, "bad %s %q", prompt.LabelScore, m[1])
	}

	m = verdictRe.FindStringSubmatch(text)
	if m == nil {
		return nil, eris.Wrapf(ErrInvalidResponse, "missing %s", prompt.LabelVerdict)
	}
	verdict := model.VerdictIgnore
	if m[1] == prompt.VerdictContact {
		verdict = model.VerdictContact
	}

	m = segmentRe.FindStringSubmatch(text)
	if m == nil {
		return nil, eris.Wrapf(ErrInvalidResponse, "missing %s", prompt.LabelSegment)
	}
	segment, _ := model.ParseSegment(m[1])

	m = justificationRe.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, eris.Wrapf(ErrInvalidResponse, "missing %s", prompt.LabelJustification)
	}

	return &model.QualificationResult{
		Score:         score,
		Verdict:       verdict,
		Segment:       segment,
		Justification: strings.TrimSpace(m[1]),
	}, nil
}

// ParseScoring extracts a business score. Each field falls back to its own
// default, so a malformed reply yields a non-actionable SKIP result.
func ParseScoring(text string) model.ScoringResult {
	res := model.ScoringResult{
		Score:         DefaultScore,
		EstimatedSize: DefaultSize,
		Reasoning:     DefaultReasoning,
		Message:       DefaultMessage,
	}

	if m := sizeRe.FindStringSubmatch(text); m != nil {
		if size, ok := model.ParseSize(strings.ToLower(m[1])); ok {
			res.EstimatedSize = size
		}
	}
	if score, ok := note(text); ok {
		res.Score = score
	}
	if m := reasoningRe.FindStringSubmatch(text); m != nil {
		if r := strings.TrimSpace(m[1]); r != "" {
			res.Reasoning = r
		}
	}
	if m := messageRe.FindStringSubmatch(text); m != nil {
		if msg := strings.TrimSpace(m[1]); msg != "" {
			res.Message = msg
		}
	}
	if IsSkip(res.Message) {
		res.Message = model.SkipMessage
	}
	return res
}

// ParseMessage cleans a generated message. A NOTE header, when present, is
// lifted into Score and removed from the content.
func ParseMessage(text string) model.GeneratedMessage {
	var msg model.GeneratedMessage
	content := strings.TrimSpace(text)

	if score, ok := note(content); ok {
		msg.Score = &score
	}
	if loc := noteHeaderRe.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + content[loc[1]:]
	}
	content = strings.TrimSpace(content)

	if IsSkip(content) {
		content = model.SkipMessage
	}
	msg.Content = content
	return msg
}

// IsSkip reports whether a message body is, or starts with, the SKIP
// sentinel. Surrounding quotes are ignored.
func IsSkip(s string) bool {
	s = strings.Trim(strings.TrimSpace(s), "\"'«» ")
	return strings.HasPrefix(s, model.SkipMessage)
}

func note(text string) (int, bool) {
	m := noteRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return min(n, maxScore), true
}
