package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FFmpegRenderer implements Renderer by shelling out to ffmpeg.
type FFmpegRenderer struct {
	binaryPath string
}

// NewFFmpegRenderer creates a renderer using the given ffmpeg binary.
func NewFFmpegRenderer(binaryPath string) *FFmpegRenderer {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}
	return &FFmpegRenderer{binaryPath: binaryPath}
}

func (f *FFmpegRenderer) ExtractAudio(ctx context.Context, input, output string) error {
	// 16 kHz mono 32k opus keeps transcription uploads small without
	// hurting speech recognition accuracy.
	return f.run(ctx,
		"-i", input,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "libopus",
		"-b:a", "32k",
		"-y",
		output,
	)
}

func (f *FFmpegRenderer) Cut(ctx context.Context, input string, startMs, endMs int64, output string) error {
	return f.run(ctx,
		"-ss", msToSeconds(startMs),
		"-to", msToSeconds(endMs),
		"-i", input,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-y",
		output,
	)
}

func (f *FFmpegRenderer) BurnSubtitles(ctx context.Context, input, subtitlePath, aspectRatio, output string) error {
	filters := []string{fmt.Sprintf("subtitles=%s", escapeFilterPath(subtitlePath))}
	if aspectRatio != "" {
		// Crop to the target aspect, then normalize height for shorts.
		parts := strings.SplitN(aspectRatio, ":", 2)
		if len(parts) == 2 {
			filters = append(filters,
				fmt.Sprintf("crop=min(iw\\,ih*%s/%s):ih", parts[0], parts[1]),
				"scale=-2:1920")
		}
	}
	return f.run(ctx,
		"-i", input,
		"-vf", strings.Join(filters, ","),
		"-c:a", "copy",
		"-y",
		output,
	)
}

func (f *FFmpegRenderer) OverlayCredit(ctx context.Context, input, credit, output string) error {
	drawtext := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white@0.8:fontsize=28:x=(w-text_w)/2:y=h-60",
		escapeDrawText(credit))
	return f.run(ctx,
		"-i", input,
		"-vf", drawtext,
		"-c:a", "copy",
		"-y",
		output,
	)
}

func (f *FFmpegRenderer) GenerateThumbnail(ctx context.Context, input string, atMs int64, output string) error {
	return f.run(ctx,
		"-ss", msToSeconds(atMs),
		"-i", input,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		output,
	)
}

func (f *FFmpegRenderer) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.binaryPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\noutput: %s", err, tail(string(out), 2000))
	}
	return nil
}

func msToSeconds(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

// escapeFilterPath escapes characters that break ffmpeg filter parsing.
func escapeFilterPath(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)
	return r.Replace(p)
}

func escapeDrawText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\\\'`, `:`, `\:`, `%`, `\%`)
	return r.Replace(s)
}

// tail returns at most n trailing bytes of s; ffmpeg puts the error last.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

var _ Renderer = (*FFmpegRenderer)(nil)
