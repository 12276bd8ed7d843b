// Package mock provides a test double for the llm package.
package mock

import (
	"context"

	"github.com/clipforge/clipforge/internal/llm"
	"github.com/clipforge/clipforge/pkg/models"
)

type Model struct {
	ExtractSegmentsFunc  func(ctx context.Context, req llm.SegmentRequest) ([]models.Segment, error)
	GenerateMetadataFunc func(ctx context.Context, req llm.MetadataRequest) (*llm.Metadata, error)
}

func (m *Model) ExtractSegments(ctx context.Context, req llm.SegmentRequest) ([]models.Segment, error) {
	if m.ExtractSegmentsFunc != nil {
		return m.ExtractSegmentsFunc(ctx, req)
	}
	return nil, nil
}

func (m *Model) GenerateMetadata(ctx context.Context, req llm.MetadataRequest) (*llm.Metadata, error) {
	if m.GenerateMetadataFunc != nil {
		return m.GenerateMetadataFunc(ctx, req)
	}
	return &llm.Metadata{}, nil
}

func (m *Model) Name() string  { return "mock" }
func (m *Model) Model() string { return "mock" }
