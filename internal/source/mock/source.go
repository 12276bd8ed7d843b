// Package mock provides a test double for the source package.
package mock

import (
	"context"

	"github.com/clipforge/clipforge/internal/source"
)

type Source struct {
	SearchFunc     func(ctx context.Context, query string, maxResults int64, language string) ([]source.VideoCandidate, error)
	DetailsFunc    func(ctx context.Context, id string) (*source.VideoCandidate, error)
	IsLicensedFunc func(ctx context.Context, id string) (bool, error)
}

func (m *Source) SearchLicensedVideos(ctx context.Context, query string, maxResults int64, language string) ([]source.VideoCandidate, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults, language)
	}
	return nil, nil
}

func (m *Source) GetVideoDetails(ctx context.Context, id string) (*source.VideoCandidate, error) {
	if m.DetailsFunc != nil {
		return m.DetailsFunc(ctx, id)
	}
	return nil, nil
}

func (m *Source) IsLicensed(ctx context.Context, id string) (bool, error) {
	if m.IsLicensedFunc != nil {
		return m.IsLicensedFunc(ctx, id)
	}
	return true, nil
}
