// Package mock provides a test double for the media package. Each operation
// writes a small placeholder output file so downstream upload paths see a
// real file; set a Func field to override.
package mock

import (
	"context"
	"os"
)

type Renderer struct {
	ExtractAudioFunc      func(ctx context.Context, input, output string) error
	CutFunc               func(ctx context.Context, input string, startMs, endMs int64, output string) error
	BurnSubtitlesFunc     func(ctx context.Context, input, subtitlePath, aspectRatio, output string) error
	OverlayCreditFunc     func(ctx context.Context, input, credit, output string) error
	GenerateThumbnailFunc func(ctx context.Context, input string, atMs int64, output string) error
}

func touch(path string) error {
	return os.WriteFile(path, []byte("mock media output"), 0o644)
}

func (m *Renderer) ExtractAudio(ctx context.Context, input, output string) error {
	if m.ExtractAudioFunc != nil {
		return m.ExtractAudioFunc(ctx, input, output)
	}
	return touch(output)
}

func (m *Renderer) Cut(ctx context.Context, input string, startMs, endMs int64, output string) error {
	if m.CutFunc != nil {
		return m.CutFunc(ctx, input, startMs, endMs, output)
	}
	return touch(output)
}

func (m *Renderer) BurnSubtitles(ctx context.Context, input, subtitlePath, aspectRatio, output string) error {
	if m.BurnSubtitlesFunc != nil {
		return m.BurnSubtitlesFunc(ctx, input, subtitlePath, aspectRatio, output)
	}
	return touch(output)
}

func (m *Renderer) OverlayCredit(ctx context.Context, input, credit, output string) error {
	if m.OverlayCreditFunc != nil {
		return m.OverlayCreditFunc(ctx, input, credit, output)
	}
	return touch(output)
}

func (m *Renderer) GenerateThumbnail(ctx context.Context, input string, atMs int64, output string) error {
	if m.GenerateThumbnailFunc != nil {
		return m.GenerateThumbnailFunc(ctx, input, atMs, output)
	}
	return touch(output)
}
