package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/blob"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/internal/transcribe"
	"github.com/clipforge/clipforge/pkg/models"
)

const transcribeActor = "pipeline:transcribe"

// TranscribeStage extracts the audio track of a crawled job's raw asset and
// turns it into a timed transcript.
type TranscribeStage struct {
	store       store.Store
	blobs       blob.Store
	renderer    media.Renderer
	transcriber transcribe.Transcriber
	log         *slog.Logger
	tempDir     string
	presignTTL  time.Duration
	timeout     time.Duration
}

func NewTranscribeStage(st store.Store, blobs blob.Store, r media.Renderer, tr transcribe.Transcriber, log *slog.Logger, tempDir string, presignTTL, timeout time.Duration) *TranscribeStage {
	return &TranscribeStage{
		store:       st,
		blobs:       blobs,
		renderer:    r,
		transcriber: tr,
		log:         log,
		tempDir:     tempDir,
		presignTTL:  presignTTL,
		timeout:     timeout,
	}
}

func (s *TranscribeStage) Name() string             { return "transcribe" }
func (s *TranscribeStage) Source() models.JobStatus { return models.StatusCrawled }

func (s *TranscribeStage) Process(ctx context.Context, job *models.ContentJob) (Result, error) {
	if job.RawAssetRef == nil || *job.RawAssetRef == "" {
		// The raw asset has not landed yet. Leave the job for a later run.
		return Result{Outcome: OutcomeSkipped, Reason: "raw asset not available"}, nil
	}

	rawURL, err := s.blobs.PresignedURL(ctx, *job.RawAssetRef, s.presignTTL)
	if err != nil {
		return Result{}, Transient("presigning raw asset: %v", err)
	}

	audioPath := filepath.Join(s.tempDir, fmt.Sprintf("audio-%s.ogg", job.ID))
	defer os.Remove(audioPath)

	if err := s.renderer.ExtractAudio(ctx, rawURL, audioPath); err != nil {
		// The input is a presigned URL, so extraction failures are usually
		// network resets rather than a broken asset. Leave the job crawled
		// and let the next sweep retry it.
		return Result{}, Transient("extracting audio: %v", err)
	}

	trCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.transcriber.Transcribe(trCtx, audioPath)
	if err != nil {
		return Result{}, Transient("transcribing: %v", err)
	}

	text := strings.TrimSpace(res.Text)
	engine := s.transcriber.Name()

	job.Transcript = &text
	job.TranscriptSegments = res.Segments
	job.TranscriptConfidence = &res.Confidence
	job.TranscriberID = &engine
	if job.Language == "" {
		job.Language = res.Language
	}
	job.Status = models.StatusTranscribed
	job.Touch(transcribeActor)
	if err := s.store.AdvanceJob(ctx, job, models.StatusCrawled); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeAdvanced}, nil
}
