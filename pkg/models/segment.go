package models

// Segment is a time-bounded excerpt selected for the final short-form asset.
// Produced by the analyze stage, consumed by the edit stage.
// Invariant: 0 <= StartMs < EndMs <= source duration.
type Segment struct {
	StartMs     int64    `json:"start_ms"`
	EndMs       int64    `json:"end_ms"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	Score       float64  `json:"score"` // model-assigned relevance in [0,1]
}

// DurationMs returns the segment length in milliseconds.
func (s Segment) DurationMs() int64 {
	return s.EndMs - s.StartMs
}

// TranscriptSegment is a single timestamped span of the transcript.
// Segments are ordered, non-overlapping, and monotonically increasing.
type TranscriptSegment struct {
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	Text    string `json:"text"`
}
