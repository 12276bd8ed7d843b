package llm

import (
	"fmt"
	"strings"
)

const segmentSystemPrompt = `You are an educational content curator. Given the timestamped transcript of a licensed video, select the self-contained excerpts that teach a single concept well and would work as standalone short-form clips.

Respond with ONLY a JSON object in this exact format:
{
  "segments": [
    {
      "start_ms": 0,
      "end_ms": 0,
      "title": "",
      "description": "",
      "keywords": [],
      "score": 0.0
    }
  ]
}

Guidelines:
- start_ms and end_ms must align with transcript segment boundaries
- score is your confidence in the segment's teaching value, in [0, 1]
- a segment must make sense without the surrounding context
- return an empty segments array if nothing qualifies`

const metadataSystemPrompt = `You are an educational content editor. Write publishing metadata for a short clip extracted from a licensed video.

Respond with ONLY a JSON object in this exact format:
{
  "title": "",
  "description": "",
  "tags": [],
  "category": "",
  "difficulty": "",
  "educational_value": 0.0,
  "relevance": 0.0,
  "suitability": 0.0
}

Guidelines:
- title: at most 100 characters, no clickbait
- description: 1-3 sentences summarizing what the viewer learns
- tags: 3-8 lowercase topic tags
- difficulty: one of beginner, intermediate, advanced
- educational_value, relevance, suitability: your assessment in [0, 1]`

func buildSegmentPrompt(req SegmentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video title: %s\n", req.SourceTitle)
	fmt.Fprintf(&b, "Clip length bounds: %d ms to %d ms\n", req.MinClipMs, req.MaxClipMs)
	if req.MaxResults > 0 {
		fmt.Fprintf(&b, "Return at most %d segments.\n", req.MaxResults)
	}
	b.WriteString("\nTimestamped transcript:\n")
	for _, seg := range req.Segments {
		fmt.Fprintf(&b, "[%d-%d] %s\n", seg.StartMs, seg.EndMs, seg.Text)
	}
	return b.String()
}

func buildMetadataPrompt(req MetadataRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source video: %s\n", req.SourceTitle)
	fmt.Fprintf(&b, "Channel: %s\n", req.ChannelTitle)
	if req.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", req.Language)
	}
	fmt.Fprintf(&b, "Clip duration: %d ms\n", req.Segment.DurationMs())
	fmt.Fprintf(&b, "\nClip summary from segment selection:\nTitle: %s\nDescription: %s\n", req.Segment.Title, req.Segment.Description)
	if len(req.Segment.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(req.Segment.Keywords, ", "))
	}
	return b.String()
}
