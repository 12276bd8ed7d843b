// Package transcribe converts audio tracks into timed transcripts.
package transcribe

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/pkg/models"
)

// Result is the output of a transcription run.
type Result struct {
	Text       string
	Segments   []models.TranscriptSegment
	Language   string
	Confidence float64
}

// Transcriber produces a transcript from a local audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	Name() string
}

// New returns the transcriber selected by configuration.
func New(cfg config.TranscribeConfig) (Transcriber, error) {
	switch cfg.Provider {
	case "whisper":
		return NewWhisperTranscriber(cfg.WhisperCmd, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", cfg.Provider)
	}
}
