// Package mock provides a test double for the download package.
package mock

import (
	"context"
	"os"
)

type Downloader struct {
	FetchFunc func(ctx context.Context, sourceVideoID, destPath string) error
}

func (m *Downloader) Fetch(ctx context.Context, sourceVideoID, destPath string) error {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, sourceVideoID, destPath)
	}
	return os.WriteFile(destPath, []byte("mock video"), 0o644)
}
