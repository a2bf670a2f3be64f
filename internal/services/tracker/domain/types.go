// Package domain defines the core types for the detection tracker
package domain

import "time"

// Thresholds for acting on a recognizer sample
const (
	// DisplayThreshold is the minimum confidence worth showing at all
	DisplayThreshold = 0.75
	// CommitThreshold is the minimum confidence to record the sign
	CommitThreshold = 0.80
)

// TranscriptCap bounds the in-memory transcript, newest first
const TranscriptCap = 20

// Sample is one recognizer reading
// a zero Label means the recognizer saw nothing usable
type Sample struct {
	Label      string
	Filipino   string
	Confidence float64
}

// Detected reports whether the sample clears the display threshold
func (s Sample) Detected() bool {
	return s.Label != "" && s.Confidence >= DisplayThreshold
}

// Entry is one committed transcript line
type Entry struct {
	Label         string    `json:"label"`
	Filipino      string    `json:"filipino,omitempty"`
	ConfidencePct int       `json:"confidence_pct"`
	At            time.Time `json:"at"`
}

// Display is what the UI shows right now
type Display struct {
	Detected      bool   `json:"detected"`
	Label         string `json:"label,omitempty"`
	Filipino      string `json:"filipino,omitempty"`
	ConfidencePct int    `json:"confidence_pct,omitempty"`
}

// NoDetection is the idle display state
func NoDetection() Display { return Display{} }
