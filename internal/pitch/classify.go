package pitch

import "fmt"

// DefaultThresholdHz separates the male and female labels
const DefaultThresholdHz = 175.0

// Label is a coarse voice classification
type Label string

const (
	Male         Label = "male"
	Female       Label = "female"
	Unclassified Label = "unclassified"
)

// Classifier applies a fixed frequency threshold
type Classifier struct {
	ThresholdHz float64
}

// NewClassifier creates a classifier for the given threshold
func NewClassifier(thresholdHz float64) Classifier {
	return Classifier{ThresholdHz: thresholdHz}
}

// Classify labels an estimate. The threshold itself counts as male.
func (c Classifier) Classify(e Estimate) Label {
	if !e.Determined {
		return Unclassified
	}
	if e.Hz > c.ThresholdHz {
		return Female
	}
	return Male
}

// Summary renders the human-readable result sentence
func Summary(e Estimate, label Label) string {
	if !e.Determined || label == Unclassified {
		return "Could not determine pitch frequency."
	}
	return fmt.Sprintf("The pitch frequency of your voice is %.1f Hz. You are most likely a %s.", e.Hz, label)
}
