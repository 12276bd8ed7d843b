// Package subtitle reads and writes SubRip (.srt) subtitle files.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/pkg/models"
)

// FormatTimestamp renders ms as an SRT timestamp, HH:MM:SS,mmm.
// Hours grow past 24 rather than wrapping.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// ParseTimestamp parses an SRT timestamp back into milliseconds.
func ParseTimestamp(ts string) (int64, error) {
	var h, m, s, ms int64
	if _, err := fmt.Sscanf(strings.TrimSpace(ts), "%d:%d:%d,%d", &h, &m, &s, &ms); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	if m > 59 || s > 59 || ms > 999 {
		return 0, fmt.Errorf("invalid timestamp %q: component out of range", ts)
	}
	return h*3600000 + m*60000 + s*1000 + ms, nil
}

// Write renders segments as an SRT document. Cues are numbered from 1 in
// input order. Cue text is trimmed of surrounding whitespace; a segment
// with blank text is written as an empty cue, which Parse reads back as
// an empty string.
func Write(w io.Writer, segments []models.TranscriptSegment) error {
	for i, seg := range segments {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimestamp(seg.StartMs),
			FormatTimestamp(seg.EndMs),
			strings.TrimSpace(seg.Text),
		)
		if err != nil {
			return fmt.Errorf("writing cue %d: %w", i+1, err)
		}
	}
	return nil
}

// Parse reads an SRT document back into transcript segments. Cue indices in
// the input are checked for 1-based ordering.
func Parse(r io.Reader) ([]models.TranscriptSegment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var segments []models.TranscriptSegment
	for {
		cue, ok, err := parseCue(scanner, len(segments)+1)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		segments = append(segments, cue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading srt: %w", err)
	}
	return segments, nil
}

func parseCue(scanner *bufio.Scanner, wantIndex int) (models.TranscriptSegment, bool, error) {
	var zero models.TranscriptSegment

	// Skip blank lines between cues.
	line := ""
	for scanner.Scan() {
		line = strings.TrimSpace(scanner.Text())
		if line != "" {
			break
		}
	}
	if line == "" {
		return zero, false, nil
	}

	idx, err := strconv.Atoi(line)
	if err != nil {
		return zero, false, fmt.Errorf("cue %d: expected index, got %q", wantIndex, line)
	}
	if idx != wantIndex {
		return zero, false, fmt.Errorf("cue %d: out-of-order index %d", wantIndex, idx)
	}

	if !scanner.Scan() {
		return zero, false, fmt.Errorf("cue %d: missing timing line", wantIndex)
	}
	start, end, err := parseTiming(scanner.Text())
	if err != nil {
		return zero, false, fmt.Errorf("cue %d: %w", wantIndex, err)
	}

	var text []string
	for scanner.Scan() {
		l := scanner.Text()
		if strings.TrimSpace(l) == "" {
			break
		}
		text = append(text, l)
	}

	// A cue may carry no text lines at all; Write emits one for blank
	// segment text.
	return models.TranscriptSegment{
		StartMs: start,
		EndMs:   end,
		Text:    strings.Join(text, "\n"),
	}, true, nil
}

func parseTiming(line string) (int64, int64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("timing line %q: end before start", line)
	}
	return start, end, nil
}
