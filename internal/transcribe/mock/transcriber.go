// Package mock provides a test double for the transcribe package.
package mock

import (
	"context"

	"github.com/clipforge/clipforge/internal/transcribe"
)

type Transcriber struct {
	TranscribeFunc func(ctx context.Context, audioPath string) (*transcribe.Result, error)
}

func (m *Transcriber) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath)
	}
	return &transcribe.Result{}, nil
}

func (m *Transcriber) Name() string { return "mock" }
