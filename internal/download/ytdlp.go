package download

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// YtDlpDownloader uses the local yt-dlp binary to fetch video files.
type YtDlpDownloader struct {
	binaryPath string
}

// NewYtDlpDownloader creates a downloader shelling out to yt-dlp.
func NewYtDlpDownloader(binaryPath string) *YtDlpDownloader {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &YtDlpDownloader{binaryPath: binaryPath}
}

// Fetch downloads the given video into destPath as an mp4. The caller is
// expected to bound the call with a context timeout.
func (d *YtDlpDownloader) Fetch(ctx context.Context, sourceVideoID, destPath string) error {
	// -f selects a single mp4 stream so no merge step (and no second
	// temp file) is needed. "--" guards against ids starting with a dash.
	cmd := exec.CommandContext(ctx, d.binaryPath,
		"-f", "b[ext=mp4]/b",
		"--no-warnings",
		"--no-playlist",
		"-o", destPath,
		"--", sourceVideoID,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, stderr.String())
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return fmt.Errorf("yt-dlp produced no output file: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(destPath)
		return fmt.Errorf("yt-dlp produced an empty file for %s", sourceVideoID)
	}
	return nil
}

var _ Downloader = (*YtDlpDownloader)(nil)
