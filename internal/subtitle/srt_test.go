package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/pkg/models"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00,000"},
		{3000, "00:00:03,000"},
		{6500, "00:00:06,500"},
		{61001, "00:01:01,001"},
		{3599999, "00:59:59,999"},
		{3600000, "01:00:00,000"},
		// Hours keep counting past a day.
		{90000000, "25:00:00,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.ms), "ms=%d", tt.ms)
	}
}

func TestParseTimestamp(t *testing.T) {
	ms, err := ParseTimestamp("01:02:03,450")
	require.NoError(t, err)
	assert.Equal(t, int64(3723450), ms)

	ms, err = ParseTimestamp("25:00:00,000")
	require.NoError(t, err)
	assert.Equal(t, int64(90000000), ms)

	_, err = ParseTimestamp("01:75:00,000")
	assert.Error(t, err)
	_, err = ParseTimestamp("garbage")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	segments := []models.TranscriptSegment{
		{StartMs: 0, EndMs: 3000, Text: "welcome back"},
		{StartMs: 3000, EndMs: 6500, Text: "today we cover channels"},
		{StartMs: 6500, EndMs: 10000, Text: "let's start with an example"},
	}

	var b strings.Builder
	require.NoError(t, Write(&b, segments))

	want := "1\n00:00:00,000 --> 00:00:03,000\nwelcome back\n\n" +
		"2\n00:00:03,000 --> 00:00:06,500\ntoday we cover channels\n\n" +
		"3\n00:00:06,500 --> 00:00:10,000\nlet's start with an example\n\n"
	assert.Equal(t, want, b.String())
}

func TestRoundTrip(t *testing.T) {
	segments := []models.TranscriptSegment{
		{StartMs: 0, EndMs: 2500, Text: "first line"},
		{StartMs: 2500, EndMs: 7000, Text: "second line\nwith a wrap"},
		{StartMs: 90000000, EndMs: 90003000, Text: "deep into a stream"},
	}

	var b strings.Builder
	require.NoError(t, Write(&b, segments))

	parsed, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, segments, parsed)
}

func TestRoundTripNormalizesWhitespace(t *testing.T) {
	segments := []models.TranscriptSegment{
		{StartMs: 0, EndMs: 1000, Text: "  padded  "},
		{StartMs: 1000, EndMs: 2000, Text: ""},
		{StartMs: 2000, EndMs: 3000, Text: "   "},
		{StartMs: 3000, EndMs: 4000, Text: "plain"},
	}

	var b strings.Builder
	require.NoError(t, Write(&b, segments))

	// Write trims cue text; its output always parses back.
	parsed, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, parsed, 4)
	assert.Equal(t, "padded", parsed[0].Text)
	assert.Equal(t, "", parsed[1].Text)
	assert.Equal(t, "", parsed[2].Text)
	assert.Equal(t, "plain", parsed[3].Text)
	for i, seg := range parsed {
		assert.Equal(t, segments[i].StartMs, seg.StartMs)
		assert.Equal(t, segments[i].EndMs, seg.EndMs)
	}
}

func TestParseRejectsOutOfOrderIndices(t *testing.T) {
	doc := "1\n00:00:00,000 --> 00:00:01,000\na\n\n" +
		"3\n00:00:01,000 --> 00:00:02,000\nb\n\n"
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out-of-order")
}

func TestParseRejectsEndBeforeStart(t *testing.T) {
	doc := "1\n00:00:05,000 --> 00:00:01,000\na\n\n"
	_, err := Parse(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestParseEmptyInput(t *testing.T) {
	parsed, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, parsed)
}
