// Package spamcheck defines the result of a remote classifier check.
package spamcheck

import "fmt"

// Label is a classification label of a message.
type Label string

// enum of labels
const (
	LabelHam  Label = "ham"
	LabelSpam Label = "spam"
)

// Result is a result of classification for a single message.
type Result struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"` // probability of the predicted label, 0.0 - 1.0
}

// FromPrediction makes Result from raw classifier output. Label 0.0 is ham, anything else is spam.
func FromPrediction(label, probability float64) Result {
	if label == 0.0 {
		return Result{Label: LabelHam, Probability: probability}
	}
	return Result{Label: LabelSpam, Probability: probability}
}

// Spam returns true for spam label.
func (r Result) Spam() bool { return r.Label == LabelSpam }

// Confidence returns probability in percents.
func (r Result) Confidence() float64 { return r.Probability * 100 }

func (r Result) String() string {
	return fmt.Sprintf("%s, confidence: %.2f%%", r.Label, r.Confidence())
}
