package prompt

// Output-format labels. The response parser matches on these exact strings,
// so a template and its parser must change together.
const (
	LabelScore         = "Score"
	LabelVerdict       = "Verdict"
	LabelSegment       = "Segment"
	LabelJustification = "Justification"

	LabelSize      = "TAILLE"
	LabelNote      = "NOTE"
	LabelReasoning = "RAISONNEMENT"
	LabelMessage   = "MESSAGE"

	VerdictContact = "CONTACTER"
	VerdictIgnore  = "IGNORER"

	SegmentArtisan = "Artisan"
	SegmentB2B     = "B2B"
)
