package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/blob"
	"github.com/clipforge/clipforge/internal/download"
	"github.com/clipforge/clipforge/internal/source"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

const crawlActor = "pipeline:crawl"

// CrawlPlan is one seeded discovery query.
type CrawlPlan struct {
	Query      string `yaml:"query"`
	Language   string `yaml:"language"`
	MaxResults int64  `yaml:"max_results"`
}

// CrawlStage discovers licensed source videos and fetches their raw assets.
// Discovery creates pending jobs keyed by source video id; the Stage side
// drains pending jobs by downloading the source and uploading it to blob
// storage.
type CrawlStage struct {
	store           store.Store
	source          source.VideoSource
	downloader      download.Downloader
	blobs           blob.Store
	log             *slog.Logger
	tempDir         string
	downloadTimeout time.Duration
}

func NewCrawlStage(st store.Store, src source.VideoSource, dl download.Downloader, blobs blob.Store, log *slog.Logger, tempDir string, downloadTimeout time.Duration) *CrawlStage {
	return &CrawlStage{
		store:           st,
		source:          src,
		downloader:      dl,
		blobs:           blobs,
		log:             log,
		tempDir:         tempDir,
		downloadTimeout: downloadTimeout,
	}
}

func (s *CrawlStage) Name() string             { return "crawl" }
func (s *CrawlStage) Source() models.JobStatus { return models.StatusPending }

// Discover runs the plan's queries and creates a pending job per previously
// unseen licensed candidate. Re-running a plan is idempotent: known source
// videos are skipped.
func (s *CrawlStage) Discover(ctx context.Context, plans []CrawlPlan) (*RunSummary, error) {
	summary := &RunSummary{}
	for _, plan := range plans {
		candidates, err := s.source.SearchLicensedVideos(ctx, plan.Query, plan.MaxResults, plan.Language)
		if err != nil {
			return summary, fmt.Errorf("searching %q: %w", plan.Query, err)
		}
		for _, cand := range candidates {
			summary.record(s.track(ctx, cand, plan.Language))
		}
	}
	return summary, nil
}

func (s *CrawlStage) track(ctx context.Context, cand source.VideoCandidate, language string) Result {
	if !cand.Licensed {
		return Result{Outcome: OutcomeSkipped, Reason: "not openly licensed"}
	}
	if cand.Language == "" {
		cand.Language = language
	}

	job := &models.ContentJob{
		ID:               uuid.New(),
		SourceVideoID:    cand.ID,
		ChannelID:        cand.ChannelID,
		ChannelTitle:     cand.ChannelTitle,
		SourceTitle:      cand.Title,
		Status:           models.StatusPending,
		Language:         cand.Language,
		SourceDurationMs: cand.DurationMs,
		ViewCount:        cand.ViewCount,
		LikeCount:        cand.LikeCount,
		Audit:            models.NewAudit(crawlActor),
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return Result{Outcome: OutcomeSkipped, Reason: "already tracked"}
		}
		s.log.Error("creating job", "source_video_id", cand.ID, "error", err)
		return Result{Outcome: OutcomeSkipped, Reason: err.Error()}
	}
	s.log.Info("tracking source video", "job_id", job.ID, "source_video_id", cand.ID)
	return Result{Outcome: OutcomeAdvanced, Reason: "job created"}
}

// Process fetches the raw video for a pending job and advances it to
// crawled. Download and upload problems are transient: the job stays
// pending and is retried on the next sweep.
func (s *CrawlStage) Process(ctx context.Context, job *models.ContentJob) (Result, error) {
	// Re-check the license before spending bandwidth; videos get
	// relicensed after upload.
	licensed, err := s.source.IsLicensed(ctx, job.SourceVideoID)
	if err != nil {
		return Result{}, Transient("checking license: %v", err)
	}
	if !licensed {
		return Result{}, PermanentAsset("source video no longer openly licensed")
	}

	dest := filepath.Join(s.tempDir, fmt.Sprintf("raw-%s.mp4", job.ID))
	defer os.Remove(dest)

	dlCtx, cancel := context.WithTimeout(ctx, s.downloadTimeout)
	defer cancel()
	if err := s.downloader.Fetch(dlCtx, job.SourceVideoID, dest); err != nil {
		return Result{}, Transient("downloading source: %v", err)
	}

	key := fmt.Sprintf("raw/%s/source.mp4", job.SourceVideoID)
	ref, err := s.blobs.Upload(ctx, key, dest, "video/mp4")
	if err != nil {
		return Result{}, Transient("uploading raw asset: %v", err)
	}

	job.RawAssetRef = &ref
	job.Status = models.StatusCrawled
	job.Touch(crawlActor)
	if err := s.store.AdvanceJob(ctx, job, models.StatusPending); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeAdvanced}, nil
}
