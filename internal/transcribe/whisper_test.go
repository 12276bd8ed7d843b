package transcribe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultFromWhisper(t *testing.T) {
	out := &whisperOutput{
		Text:     "  hello world. second part.  ",
		Language: "en",
		Segments: []whisperSegment{
			{ID: 0, Start: 0, End: 3.0, Text: " hello world. ", AvgLogprob: -0.2},
			{ID: 1, Start: 3.0, End: 6.5, Text: " second part. ", AvgLogprob: -0.4},
		},
	}

	res := resultFromWhisper(out)

	assert.Equal(t, "hello world. second part.", res.Text)
	assert.Equal(t, "en", res.Language)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, int64(0), res.Segments[0].StartMs)
	assert.Equal(t, int64(3000), res.Segments[0].EndMs)
	assert.Equal(t, "hello world.", res.Segments[0].Text)
	assert.Equal(t, int64(3000), res.Segments[1].StartMs)
	assert.Equal(t, int64(6500), res.Segments[1].EndMs)

	want := math.Exp((-0.2 + -0.4) / 2)
	assert.InDelta(t, want, res.Confidence, 1e-9)
}

func TestResultFromWhisperEmpty(t *testing.T) {
	res := resultFromWhisper(&whisperOutput{})
	assert.Empty(t, res.Segments)
	assert.Zero(t, res.Confidence)
}
