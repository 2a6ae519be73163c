package prospect

import "encoding/json"

// Outcome is the terminal state of one processed candidate.
type Outcome int

const (
	OutcomeQualified Outcome = iota + 1
	OutcomeSkippedDuplicate
	OutcomeSkippedLowScore
	OutcomeSkippedUnmatched
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeQualified:
		return "qualified"
	case OutcomeSkippedDuplicate:
		return "skipped-duplicate"
	case OutcomeSkippedLowScore:
		return "skipped-low-score"
	case OutcomeSkippedUnmatched:
		return "skipped-unmatched"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Tally is the terminal summary of a run. Total counts candidates after
// deduplication, Relevant the ones that passed the relevance filter or
// skill match.
type Tally struct {
	Total            int `json:"total"`
	Relevant         int `json:"relevant"`
	Qualified        int `json:"qualified"`
	SkippedExisting  int `json:"skippedExisting"`
	SkippedLowScore  int `json:"skippedLowScore"`
	SkippedUnmatched int `json:"skippedUnmatched"`
	Failed           int `json:"failed"`
}

// Add folds one outcome into the tally.
func (t *Tally) Add(o Outcome) {
	switch o {
	case OutcomeQualified:
		t.Qualified++
	case OutcomeSkippedDuplicate:
		t.SkippedExisting++
	case OutcomeSkippedLowScore:
		t.SkippedLowScore++
	case OutcomeSkippedUnmatched:
		t.SkippedUnmatched++
	case OutcomeFailed:
		t.Failed++
	}
}

// Processed is the number of candidates that went past the dedup check.
func (t Tally) Processed() int {
	return t.Qualified + t.SkippedLowScore + t.Failed
}

// MarshalJSON adds the derived matched and processed counts to the summary.
func (t Tally) MarshalJSON() ([]byte, error) {
	type fields Tally
	return json.Marshal(struct {
		fields
		Matched   int `json:"matched"`
		Processed int `json:"processed"`
	}{fields(t), t.Relevant, t.Processed()})
}

// Fold replays a list of outcomes into a tally.
func Fold(total, relevant int, outcomes []Outcome) Tally {
	t := Tally{Total: total, Relevant: relevant}
	for _, o := range outcomes {
		t.Add(o)
	}
	return t
}
