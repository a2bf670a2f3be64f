package domain

import "context"

// DetectorPort fetches the newest recognizer sample
type DetectorPort interface {
	Latest(ctx context.Context) (Sample, error)
}

// SinkPort receives committed detections, fire-and-forget at the call site
type SinkPort interface {
	SaveDetection(ctx context.Context, label string, confidence float64) error
}

// TrackerPort is the control and read surface for the poller
type TrackerPort interface {
	// Start moves the poller to Polling; no-op when already polling
	Start()
	// Stop moves the poller to Idle and invalidates in-flight queries
	Stop()
	// Running reports the current state
	Running() bool

	// Display returns what the UI should show right now
	Display() Display
	// Transcript returns committed entries, newest first
	Transcript() []Entry
	// ClearTranscript empties the transcript and the session dedup set
	ClearTranscript()
}
