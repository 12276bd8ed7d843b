package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clipforge/clipforge/internal/blob"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/internal/subtitle"
	"github.com/clipforge/clipforge/pkg/models"
)

const editActor = "pipeline:edit"

// EditStage renders the selected segment into the final short-form asset:
// cut, burned-in subtitles, optional attribution credit, and a thumbnail.
type EditStage struct {
	store       store.Store
	blobs       blob.Store
	renderer    media.Renderer
	log         *slog.Logger
	tempDir     string
	aspectRatio string
	// creditTemplate formats the attribution line, %s = channel title.
	// Empty disables the overlay.
	creditTemplate string
	presignTTL     time.Duration
}

func NewEditStage(st store.Store, blobs blob.Store, r media.Renderer, log *slog.Logger, tempDir, aspectRatio, creditTemplate string, presignTTL time.Duration) *EditStage {
	return &EditStage{
		store:          st,
		blobs:          blobs,
		renderer:       r,
		log:            log,
		tempDir:        tempDir,
		aspectRatio:    aspectRatio,
		creditTemplate: creditTemplate,
		presignTTL:     presignTTL,
	}
}

func (s *EditStage) Name() string             { return "edit" }
func (s *EditStage) Source() models.JobStatus { return models.StatusAnalyzed }

func (s *EditStage) Process(ctx context.Context, job *models.ContentJob) (Result, error) {
	if job.SelectedSegment == nil {
		return Result{}, Validation("no selected segment")
	}
	if job.RawAssetRef == nil || *job.RawAssetRef == "" {
		return Result{}, Validation("no raw asset")
	}
	seg := *job.SelectedSegment

	rawURL, err := s.blobs.PresignedURL(ctx, *job.RawAssetRef, s.presignTTL)
	if err != nil {
		return Result{}, Transient("presigning raw asset: %v", err)
	}

	work, err := os.MkdirTemp(s.tempDir, "edit-")
	if err != nil {
		return Result{}, Transient("creating work dir: %v", err)
	}
	defer os.RemoveAll(work)

	cutPath := filepath.Join(work, "cut.mp4")
	if err := s.renderer.Cut(ctx, rawURL, seg.StartMs, seg.EndMs, cutPath); err != nil {
		return Result{}, PermanentAsset("cutting segment: %v", err)
	}

	srtPath := filepath.Join(work, "clip.srt")
	if err := s.writeClipSubtitles(job.TranscriptSegments, seg, srtPath); err != nil {
		return Result{}, PermanentAsset("writing subtitles: %v", err)
	}

	finalPath := filepath.Join(work, "final.mp4")
	if err := s.renderer.BurnSubtitles(ctx, cutPath, srtPath, s.aspectRatio, finalPath); err != nil {
		return Result{}, PermanentAsset("burning subtitles: %v", err)
	}

	if s.creditTemplate != "" {
		credited := filepath.Join(work, "credited.mp4")
		credit := fmt.Sprintf(s.creditTemplate, job.ChannelTitle)
		if err := s.renderer.OverlayCredit(ctx, finalPath, credit, credited); err != nil {
			return Result{}, PermanentAsset("overlaying credit: %v", err)
		}
		finalPath = credited
	}

	thumbPath := filepath.Join(work, "thumb.jpg")
	if err := s.renderer.GenerateThumbnail(ctx, finalPath, seg.DurationMs()/2, thumbPath); err != nil {
		return Result{}, PermanentAsset("generating thumbnail: %v", err)
	}

	// Both uploads or neither. A half-uploaded pair would publish a clip
	// with a dead thumbnail, so the video object is removed if the
	// thumbnail upload fails.
	videoKey := fmt.Sprintf("edited/%s/clip.mp4", job.ID)
	videoRef, err := s.blobs.Upload(ctx, videoKey, finalPath, "video/mp4")
	if err != nil {
		return Result{}, Transient("uploading edited asset: %v", err)
	}
	thumbKey := fmt.Sprintf("edited/%s/thumb.jpg", job.ID)
	thumbRef, err := s.blobs.Upload(ctx, thumbKey, thumbPath, "image/jpeg")
	if err != nil {
		if delErr := s.blobs.Delete(ctx, videoRef); delErr != nil {
			s.log.Warn("orphaned edited asset", "job_id", job.ID, "key", videoRef, "error", delErr)
		}
		return Result{}, Transient("uploading thumbnail: %v", err)
	}

	job.EditedAssetRef = &videoRef
	job.ThumbnailRef = &thumbRef
	job.Status = models.StatusEdited
	job.Touch(editActor)
	if err := s.store.AdvanceJob(ctx, job, models.StatusAnalyzed); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeAdvanced}, nil
}

func (s *EditStage) writeClipSubtitles(transcript []models.TranscriptSegment, seg models.Segment, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := subtitle.Write(f, clipWindow(transcript, seg.StartMs, seg.EndMs)); err != nil {
		return err
	}
	return f.Close()
}

// clipWindow restricts transcript segments to the [startMs, endMs) window,
// clamps partial overlaps to the window edges, and rebases timestamps so the
// first possible cue starts at zero.
func clipWindow(segments []models.TranscriptSegment, startMs, endMs int64) []models.TranscriptSegment {
	var out []models.TranscriptSegment
	for _, seg := range segments {
		if seg.EndMs <= startMs || seg.StartMs >= endMs {
			continue
		}
		start := seg.StartMs
		if start < startMs {
			start = startMs
		}
		end := seg.EndMs
		if end > endMs {
			end = endMs
		}
		out = append(out, models.TranscriptSegment{
			StartMs: start - startMs,
			EndMs:   end - startMs,
			Text:    seg.Text,
		})
	}
	return out
}
