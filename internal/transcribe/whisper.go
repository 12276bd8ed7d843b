package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/pkg/models"
)

// whisperOutput matches the JSON file written by the whisper CLI.
type whisperOutput struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	ID         int     `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	AvgLogprob float64 `json:"avg_logprob"`
}

// WhisperTranscriber shells out to the OpenAI Whisper CLI.
type WhisperTranscriber struct {
	cmd   string
	model string
}

func NewWhisperTranscriber(cmd, model string) *WhisperTranscriber {
	return &WhisperTranscriber{cmd: cmd, model: model}
}

func (w *WhisperTranscriber) Name() string { return "whisper" }

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	outDir, err := os.MkdirTemp("", "whisper-out-")
	if err != nil {
		return nil, fmt.Errorf("creating whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	absPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("resolving audio path: %w", err)
	}

	cmd := exec.CommandContext(ctx, w.cmd,
		absPath,
		"--model", w.model,
		"--output_dir", outDir,
		"--output_format", "json",
		"--fp16", "False",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper failed: %w: %s", err, tail(string(out), 2000))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading whisper output: %w", err)
	}

	var parsed whisperOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing whisper output: %w", err)
	}
	return resultFromWhisper(&parsed), nil
}

func resultFromWhisper(out *whisperOutput) *Result {
	segments := make([]models.TranscriptSegment, 0, len(out.Segments))
	var logprobSum float64
	for _, seg := range out.Segments {
		segments = append(segments, models.TranscriptSegment{
			StartMs: int64(seg.Start * 1000),
			EndMs:   int64(seg.End * 1000),
			Text:    strings.TrimSpace(seg.Text),
		})
		logprobSum += seg.AvgLogprob
	}

	confidence := 0.0
	if len(out.Segments) > 0 {
		// avg_logprob is the log of the mean token probability, so the
		// exponential maps it back onto a 0..1 scale.
		confidence = math.Exp(logprobSum / float64(len(out.Segments)))
		if confidence > 1 {
			confidence = 1
		}
	}

	return &Result{
		Text:       strings.TrimSpace(out.Text),
		Segments:   segments,
		Language:   out.Language,
		Confidence: confidence,
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
