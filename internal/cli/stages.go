package cli

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/blob"
	"github.com/clipforge/clipforge/internal/download"
	"github.com/clipforge/clipforge/internal/llm"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/source"
	"github.com/clipforge/clipforge/internal/transcribe"
)

// stageSet holds the fully wired pipeline stages. The crawl stage is kept
// as its concrete type so the crawl command can reach Discover.
type stageSet struct {
	crawl *pipeline.CrawlStage
	all   []pipeline.Stage
}

// buildStages wires the external capabilities (YouTube, yt-dlp, ffmpeg,
// whisper, LLM, blob storage) into the five pipeline stages.
func buildStages(ctx context.Context) (*stageSet, error) {
	blobs, err := blob.New(ctx, cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("create blob store: %w", err)
	}

	src, err := source.NewYouTubeSource(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("create video source: %w", err)
	}

	tr, err := transcribe.New(cfg.Transcribe)
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}

	model, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create language model: %w", err)
	}

	dl := download.NewYtDlpDownloader(cfg.Source.YTDLPPath)
	renderer := media.NewFFmpegRenderer(cfg.Media.FFmpegPath)

	crawl := pipeline.NewCrawlStage(st, src, dl, blobs, logger,
		cfg.Media.TempDir, cfg.Pipeline.DownloadTimeout)

	return &stageSet{
		crawl: crawl,
		all: []pipeline.Stage{
			crawl,
			pipeline.NewTranscribeStage(st, blobs, renderer, tr, logger,
				cfg.Media.TempDir, cfg.Blob.PresignTTL, cfg.Transcribe.Timeout),
			pipeline.NewAnalyzeStage(st, model, logger,
				cfg.Pipeline.MinTranscriptChars, cfg.Pipeline.MinClipMs,
				cfg.Pipeline.MaxClipMs, cfg.LLM.Timeout),
			pipeline.NewEditStage(st, blobs, renderer, logger,
				cfg.Media.TempDir, cfg.Media.AspectRatio,
				cfg.Media.CreditTemplate, cfg.Blob.PresignTTL),
			pipeline.NewReviewStage(st, logger,
				cfg.Pipeline.ApprovalThreshold, cfg.Pipeline.MinClipMs,
				cfg.Pipeline.MaxClipMs),
		},
	}, nil
}

func newRunner() *pipeline.Runner {
	return pipeline.NewRunner(st, ca, logger,
		cfg.Pipeline.BatchSize, cfg.Pipeline.Workers, cfg.Pipeline.RunLockTTL)
}
