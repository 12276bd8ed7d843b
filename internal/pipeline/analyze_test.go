package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/llm"
	llmmock "github.com/clipforge/clipforge/internal/llm/mock"
	storemock "github.com/clipforge/clipforge/internal/store/mock"
	"github.com/clipforge/clipforge/pkg/models"
)

func transcribedJob(t *testing.T, st *storemock.Store, transcript string) *models.ContentJob {
	t.Helper()
	job := &models.ContentJob{
		ID:               uuid.New(),
		SourceVideoID:    "vid-" + uuid.NewString()[:8],
		SourceTitle:      "Intro to Go",
		ChannelTitle:     "Gopher Academy",
		Status:           models.StatusTranscribed,
		SourceDurationMs: 600000,
		Transcript:       &transcript,
		TranscriptSegments: []models.TranscriptSegment{
			{StartMs: 0, EndMs: 30000, Text: "first part"},
			{StartMs: 30000, EndMs: 90000, Text: "second part"},
		},
		Audit: models.NewAudit("test"),
	}
	require.NoError(t, st.CreateJob(context.Background(), job))
	return job
}

func longTranscript() string {
	s := ""
	for len(s) < 400 {
		s += "this is a transcript sentence with enough substance to analyze. "
	}
	return s
}

func newAnalyzeStage(st *storemock.Store, model llm.LanguageModel) *AnalyzeStage {
	return NewAnalyzeStage(st, model, discardLogger(), 200, 15000, 180000, time.Minute)
}

func TestAnalyzeStageHappyPath(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	model := &llmmock.Model{
		ExtractSegmentsFunc: func(_ context.Context, req llm.SegmentRequest) ([]models.Segment, error) {
			return []models.Segment{
				{StartMs: 0, EndMs: 30000, Title: "Opening", Score: 0.7},
				{StartMs: 30000, EndMs: 90000, Title: "Core idea", Score: 0.95},
			}, nil
		},
		GenerateMetadataFunc: func(_ context.Context, req llm.MetadataRequest) (*llm.Metadata, error) {
			return &llm.Metadata{
				Title:            "Core idea explained",
				Description:      "A tight walkthrough.",
				Tags:             []string{"go", "basics"},
				Category:         "programming",
				Difficulty:       "beginner",
				EducationalValue: 0.9,
				Relevance:        0.8,
				Suitability:      0.85,
			}, nil
		},
	}
	stage := newAnalyzeStage(st, model)
	job := transcribedJob(t, st, longTranscript())

	res, err := stage.Process(ctx, job)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, res.Outcome)

	stored, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAnalyzed, stored.Status)
	require.NotNil(t, stored.SelectedSegment)
	assert.Equal(t, "Core idea", stored.SelectedSegment.Title)
	assert.Equal(t, "Core idea explained", *stored.GenTitle)
	assert.InDelta(t, 0.9, *stored.EducationalValue, 1e-9)
	require.NotNil(t, stored.ModelID)
	assert.Equal(t, "mock/mock", *stored.ModelID)
}

// An empty or too-short transcript fails validation before any model call.
func TestAnalyzeStageEmptyTranscriptSkipsModel(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	called := false
	model := &llmmock.Model{
		ExtractSegmentsFunc: func(_ context.Context, _ llm.SegmentRequest) ([]models.Segment, error) {
			called = true
			return nil, nil
		},
	}
	stage := newAnalyzeStage(st, model)

	for _, transcript := range []string{"", "   ", "too short"} {
		job := transcribedJob(t, st, transcript)
		_, err := stage.Process(ctx, job)
		require.Error(t, err)
		assert.False(t, IsTransient(err), "validation failures are terminal")
	}
	assert.False(t, called, "model must not be called for invalid transcripts")
}

func TestAnalyzeStageNoUsableSegments(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	model := &llmmock.Model{
		ExtractSegmentsFunc: func(_ context.Context, _ llm.SegmentRequest) ([]models.Segment, error) {
			return []models.Segment{
				{StartMs: 0, EndMs: 5000, Score: 0.9},        // too short
				{StartMs: 0, EndMs: 400000, Score: 0.9},      // too long
				{StartMs: 500000, EndMs: 700000, Score: 0.9}, // past source end
				{StartMs: 9000, EndMs: 4000, Score: 0.9},     // inverted
			}, nil
		},
	}
	stage := newAnalyzeStage(st, model)
	job := transcribedJob(t, st, longTranscript())

	_, err := stage.Process(ctx, job)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestAnalyzeStageModelOutageIsTransient(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	model := &llmmock.Model{
		ExtractSegmentsFunc: func(_ context.Context, _ llm.SegmentRequest) ([]models.Segment, error) {
			return nil, llm.ErrProviderUnavailable
		},
	}
	stage := newAnalyzeStage(st, model)
	job := transcribedJob(t, st, longTranscript())

	_, err := stage.Process(ctx, job)
	require.Error(t, err)
	assert.True(t, IsTransient(err), "provider outages must not burn the job")

	stored, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTranscribed, stored.Status)
}

func TestSelectSegmentDeterministic(t *testing.T) {
	segs := []models.Segment{
		{StartMs: 60000, EndMs: 120000, Score: 0.9},
		{StartMs: 0, EndMs: 60000, Score: 0.9},
		{StartMs: 120000, EndMs: 150000, Score: 0.5},
	}

	// Equal scores break ties on the earlier start.
	got := selectSegment(segs)
	assert.Equal(t, int64(0), got.StartMs)

	// Input order must not matter.
	reversed := []models.Segment{segs[2], segs[0], segs[1]}
	assert.Equal(t, got, selectSegment(reversed))
}

func TestFilterSegmentsNoDurationBound(t *testing.T) {
	segs := []models.Segment{{StartMs: 0, EndMs: 60000, Score: 0.5}}
	// Unknown source duration disables the upper bound check.
	assert.Len(t, filterSegments(segs, 15000, 180000, 0), 1)
}
