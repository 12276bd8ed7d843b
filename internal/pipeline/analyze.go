package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/llm"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

const analyzeActor = "pipeline:analyze"

// AnalyzeStage mines the transcript for teachable segments, picks the best
// one, and generates publishing metadata for it.
type AnalyzeStage struct {
	store    store.Store
	model    llm.LanguageModel
	log      *slog.Logger
	minChars int
	minClip  int64
	maxClip  int64
	timeout  time.Duration
}

func NewAnalyzeStage(st store.Store, model llm.LanguageModel, log *slog.Logger, minTranscriptChars int, minClipMs, maxClipMs int64, timeout time.Duration) *AnalyzeStage {
	return &AnalyzeStage{
		store:    st,
		model:    model,
		log:      log,
		minChars: minTranscriptChars,
		minClip:  minClipMs,
		maxClip:  maxClipMs,
		timeout:  timeout,
	}
}

func (s *AnalyzeStage) Name() string             { return "analyze" }
func (s *AnalyzeStage) Source() models.JobStatus { return models.StatusTranscribed }

func (s *AnalyzeStage) Process(ctx context.Context, job *models.ContentJob) (Result, error) {
	// Transcript preconditions are checked before spending model tokens.
	var transcript string
	if job.Transcript != nil {
		transcript = strings.TrimSpace(*job.Transcript)
	}
	if transcript == "" {
		return Result{}, Validation("transcript is empty")
	}
	if len(transcript) < s.minChars {
		return Result{}, Validation("transcript too short: %d chars, need %d", len(transcript), s.minChars)
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	segments, err := s.model.ExtractSegments(llmCtx, llm.SegmentRequest{
		SourceTitle: job.SourceTitle,
		Transcript:  transcript,
		Segments:    job.TranscriptSegments,
		MinClipMs:   s.minClip,
		MaxClipMs:   s.maxClip,
		MaxResults:  5,
	})
	if err != nil {
		return Result{}, Transient("extracting segments: %v", err)
	}

	usable := filterSegments(segments, s.minClip, s.maxClip, job.SourceDurationMs)
	if len(usable) == 0 {
		return Result{}, Validation("no usable segments in %d candidates", len(segments))
	}
	selected := selectSegment(usable)

	meta, err := s.model.GenerateMetadata(llmCtx, llm.MetadataRequest{
		SourceTitle:  job.SourceTitle,
		ChannelTitle: job.ChannelTitle,
		Segment:      selected,
		Language:     job.Language,
	})
	if err != nil {
		return Result{}, Transient("generating metadata: %v", err)
	}

	modelID := s.model.Name() + "/" + s.model.Model()

	job.SelectedSegment = &selected
	job.GenTitle = &meta.Title
	job.GenDescription = &meta.Description
	job.Tags = meta.Tags
	job.Category = &meta.Category
	job.Difficulty = &meta.Difficulty
	job.EducationalValue = clamp01(meta.EducationalValue)
	job.Relevance = clamp01(meta.Relevance)
	job.Suitability = clamp01(meta.Suitability)
	job.ModelID = &modelID
	job.Status = models.StatusAnalyzed
	job.Touch(analyzeActor)
	if err := s.store.AdvanceJob(ctx, job, models.StatusTranscribed); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeAdvanced}, nil
}

// filterSegments drops candidates with impossible bounds or lengths outside
// the configured clip window. A zero sourceDurationMs disables the upper
// bound check.
func filterSegments(segments []models.Segment, minMs, maxMs, sourceDurationMs int64) []models.Segment {
	var out []models.Segment
	for _, seg := range segments {
		if seg.StartMs < 0 || seg.EndMs <= seg.StartMs {
			continue
		}
		if sourceDurationMs > 0 && seg.EndMs > sourceDurationMs {
			continue
		}
		d := seg.DurationMs()
		if d < minMs || d > maxMs {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// selectSegment picks the highest-scored segment. Ties break on earlier
// start so the choice is stable for a given candidate set.
func selectSegment(segments []models.Segment) models.Segment {
	sorted := make([]models.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].StartMs < sorted[j].StartMs
	})
	return sorted[0]
}

func clamp01(v float64) *float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
