// Package download defines the raw-asset downloader capability.
package download

import "context"

// Downloader fetches the raw bytes of a source video into a local file.
// The caller owns the returned path and must remove it when done.
type Downloader interface {
	Fetch(ctx context.Context, sourceVideoID, destPath string) error
}
