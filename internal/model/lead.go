package model

import "time"

// Verdict is the qualification decision.
type Verdict string

const (
	VerdictContact Verdict = "CONTACT"
	VerdictIgnore  Verdict = "IGNORE"
)

// Segment is the audience segment of a lead.
type Segment string

const (
	SegmentArtisan   Segment = "Artisan"
	SegmentB2B       Segment = "B2B"
	SegmentFreelance Segment = "Freelance/SME"
)

// ParseSegment accepts the canonical names and the French label "Freelance / PME".
func ParseSegment(s string) (Segment, bool) {
	switch s {
	case "Artisan":
		return SegmentArtisan, true
	case "B2B":
		return SegmentB2B, true
	case "Freelance/SME", "Freelance / PME", "Freelance/PME":
		return SegmentFreelance, true
	}
	return "", false
}

// RawLead is a lead submitted for qualification.
type RawLead struct {
	CompanyName string         `json:"company_name"`
	City        string         `json:"city"`
	Sector      string         `json:"sector"`
	Source      string         `json:"source"`
	RawData     map[string]any `json:"raw_data"`
}

// QualificationResult is the parsed outcome of the qualification task.
type QualificationResult struct {
	Score         int     `json:"score"`
	Verdict       Verdict `json:"verdict"`
	Segment       Segment `json:"segment"`
	Justification string  `json:"justification"`
}

// Status returns the lead status implied by the verdict.
func (q QualificationResult) Status() string {
	if q.Verdict == VerdictContact {
		return "qualified"
	}
	return "archived"
}

// QualifiedLead is a persisted qualification.
type QualifiedLead struct {
	ID        string    `json:"id"`
	RawLead
	QualificationResult
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageInput describes a prospecting message to generate.
type MessageInput struct {
	LeadID          string  `json:"lead_id,omitempty"`
	CompanyName     string  `json:"company_name"`
	Segment         Segment `json:"segment"`
	City            string  `json:"city,omitempty"`
	ProblemDetected string  `json:"problem_detected"`
	BusinessAngle   string  `json:"business_angle"`
}

// GeneratedMessage is a parsed message reply. Score is only set when the
// reply carried a NOTE field.
type GeneratedMessage struct {
	Content string `json:"content"`
	Score   *int   `json:"score,omitempty"`
}

// Skipped reports whether the message is the SKIP sentinel.
func (m GeneratedMessage) Skipped() bool {
	return m.Content == SkipMessage
}

// MessageRecord is a persisted outbound message.
type MessageRecord struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Content   string    `json:"content"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}
