// Package source defines the video-source capability: discovery of openly
// licensed source videos and their details.
package source

import "context"

// VideoCandidate is a source video surfaced by a search, with the popularity
// signals the quality gate scores against.
type VideoCandidate struct {
	ID           string
	ChannelID    string
	ChannelTitle string
	Title        string
	Description  string
	Language     string
	DurationMs   int64
	ViewCount    int64
	LikeCount    int64
	Licensed     bool
}

// VideoSource is the capability interface for licensed-video discovery.
// Never call a concrete provider directly; always inject this interface.
type VideoSource interface {
	// SearchLicensedVideos finds openly licensed candidates for a query.
	SearchLicensedVideos(ctx context.Context, query string, maxResults int64, language string) ([]VideoCandidate, error)
	// GetVideoDetails returns full details, or nil when the id is unknown.
	GetVideoDetails(ctx context.Context, id string) (*VideoCandidate, error)
	// IsLicensed reports whether the video carries an open license.
	IsLicensed(ctx context.Context, id string) (bool, error)
}
