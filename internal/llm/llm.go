// Package llm analyzes transcripts with a language model to find teachable
// segments and generate publishing metadata.
package llm

import (
	"context"

	"github.com/clipforge/clipforge/pkg/models"
)

// SegmentRequest carries the transcript to mine for clip candidates.
type SegmentRequest struct {
	SourceTitle string
	Transcript  string
	Segments    []models.TranscriptSegment
	MinClipMs   int64
	MaxClipMs   int64
	MaxResults  int
}

// MetadataRequest carries a selected segment for metadata generation.
type MetadataRequest struct {
	SourceTitle  string
	ChannelTitle string
	Segment      models.Segment
	Language     string
}

// Metadata is the generated publishing copy for a clip.
type Metadata struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	EducationalValue float64  `json:"educational_value"`
	Relevance        float64  `json:"relevance"`
	Suitability      float64  `json:"suitability"`
}

// LanguageModel is the analysis capability used by the pipeline.
type LanguageModel interface {
	ExtractSegments(ctx context.Context, req SegmentRequest) ([]models.Segment, error)
	GenerateMetadata(ctx context.Context, req MetadataRequest) (*Metadata, error)
	Name() string
	Model() string
}
