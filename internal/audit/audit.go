// Package audit assembles the client-facing audit report of a business:
// a fixed sales pitch plus its five prioritized improvements.
package audit

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Loan69/ai-agent-prospection/internal/improve"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// Fixed report copy.
const (
	Headline     = "Propulsez votre activité en ligne"
	Stakes       = "Votre site web est votre commercial n°1. S'il n'est pas optimisé, vous perdez des opportunités chaque heure. Ce document vous donne les clés pour verrouiller votre marché local."
	PlanTitle    = "Plan d'action prioritaire"
	CallToAction = "Répondez directement à cet envoi pour fixer un point conseil de 15 min."
)

// KeyFigure is one headline statistic of the cover page.
type KeyFigure struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// KeyFigures are shown on every cover page.
var KeyFigures = []KeyFigure{
	{Label: "CONFIANCE", Value: "73%"},
	{Label: "MOBILE", Value: "60%"},
	{Label: "VITESSE", Value: "< 3s"},
}

// Report is the audit payload handed to the renderer.
type Report struct {
	BusinessName string                  `json:"businessName" yaml:"business_name"`
	FileName     string                  `json:"fileName" yaml:"file_name"`
	Headline     string                  `json:"headline" yaml:"headline"`
	Stakes       string                  `json:"stakes" yaml:"stakes"`
	KeyFigures   []KeyFigure             `json:"keyFigures" yaml:"key_figures"`
	PlanTitle    string                  `json:"planTitle" yaml:"plan_title"`
	Analysis     string                  `json:"analysis" yaml:"analysis"`
	Improvements []model.ImprovementItem `json:"improvements" yaml:"improvements"`
	CallToAction string                  `json:"callToAction" yaml:"call_to_action"`
	GeneratedAt  time.Time               `json:"generatedAt" yaml:"generated_at"`
}

// Build assembles the report of a business.
func Build(b model.BusinessEntity, now time.Time) Report {
	return Report{
		BusinessName: b.Name,
		FileName:     FileName(b.Name),
		Headline:     Headline,
		Stakes:       Stakes,
		KeyFigures:   KeyFigures,
		PlanTitle:    PlanTitle,
		Analysis:     b.AnalysisSummary(),
		Improvements: improve.SelectTop5(b),
		CallToAction: CallToAction,
		GeneratedAt:  now.UTC(),
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName returns the download name of the audit, e.g. "audit-chez-paul.pdf".
// Every character other than an ASCII letter or digit becomes a dash.
func FileName(business string) string {
	return "audit-" + strings.ToLower(unsafeChars.ReplaceAllString(business, "-")) + ".pdf"
}

// Format is an output encoding of the report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Render writes the report in the requested format.
func Render(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(r), "audit: encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "audit: encode yaml")
		}
		return eris.Wrap(enc.Close(), "audit: close yaml encoder")
	}
	return eris.Errorf("audit: unknown format %q", f)
}
