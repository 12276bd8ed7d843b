// Package media defines the audio-extraction and video-render capability.
package media

import "context"

// Renderer is the capability interface over the local media toolchain.
// All paths are local files; inputs may also be presigned HTTP URLs, which
// ffmpeg reads directly.
type Renderer interface {
	// ExtractAudio produces mono ~16 kHz speech-codec audio for
	// transcription. Optimized for transcription cost, not fidelity.
	ExtractAudio(ctx context.Context, input, output string) error
	// Cut copies the [startMs, endMs) window of the input.
	Cut(ctx context.Context, input string, startMs, endMs int64, output string) error
	// BurnSubtitles renders the subtitle track into the frame and converts
	// to the target aspect ratio.
	BurnSubtitles(ctx context.Context, input, subtitlePath, aspectRatio, output string) error
	// OverlayCredit draws an attribution line near the bottom edge.
	OverlayCredit(ctx context.Context, input, credit, output string) error
	// GenerateThumbnail grabs a single frame at the given offset.
	GenerateThumbnail(ctx context.Context, input string, atMs int64, output string) error
}
