package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/config"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const creativeCommonsLicense = "creativeCommon"

// YouTubeSource implements VideoSource using the YouTube Data API v3.
// Searches are restricted to Creative Commons licensed videos.
type YouTubeSource struct {
	svc *youtube.Service
}

// NewYouTubeSource creates a YouTube-backed video source authenticated with
// an API key.
func NewYouTubeSource(ctx context.Context, cfg config.SourceConfig) (*YouTubeSource, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(cfg.YouTubeAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeSource{svc: svc}, nil
}

func (y *YouTubeSource) SearchLicensedVideos(ctx context.Context, query string, maxResults int64, language string) ([]VideoCandidate, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > 50 {
		maxResults = 50
	}

	call := y.svc.Search.List([]string{"id"}).
		Context(ctx).
		Q(query).
		Type("video").
		VideoLicense(creativeCommonsLicense).
		VideoEmbeddable("true").
		MaxResults(maxResults)
	if language != "" {
		call = call.RelevanceLanguage(language)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	videos, err := y.svc.Videos.List([]string{"snippet", "contentDetails", "statistics", "status"}).
		Context(ctx).
		Id(ids...).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video details: %w", err)
	}

	candidates := make([]VideoCandidate, 0, len(videos.Items))
	for _, v := range videos.Items {
		candidates = append(candidates, candidateFromVideo(v))
	}
	return candidates, nil
}

func (y *YouTubeSource) GetVideoDetails(ctx context.Context, id string) (*VideoCandidate, error) {
	resp, err := y.svc.Videos.List([]string{"snippet", "contentDetails", "statistics", "status"}).
		Context(ctx).
		Id(id).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video details: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	c := candidateFromVideo(resp.Items[0])
	return &c, nil
}

func (y *YouTubeSource) IsLicensed(ctx context.Context, id string) (bool, error) {
	resp, err := y.svc.Videos.List([]string{"status"}).
		Context(ctx).
		Id(id).
		Do()
	if err != nil {
		return false, fmt.Errorf("youtube license check: %w", err)
	}
	if len(resp.Items) == 0 {
		return false, nil
	}
	return resp.Items[0].Status != nil && resp.Items[0].Status.License == creativeCommonsLicense, nil
}

func candidateFromVideo(v *youtube.Video) VideoCandidate {
	c := VideoCandidate{ID: v.Id}
	if v.Snippet != nil {
		c.ChannelID = v.Snippet.ChannelId
		c.ChannelTitle = v.Snippet.ChannelTitle
		c.Title = v.Snippet.Title
		c.Description = v.Snippet.Description
		c.Language = v.Snippet.DefaultAudioLanguage
		if c.Language == "" {
			c.Language = v.Snippet.DefaultLanguage
		}
	}
	if v.ContentDetails != nil {
		c.DurationMs = ParseISO8601DurationMs(v.ContentDetails.Duration)
	}
	if v.Statistics != nil {
		c.ViewCount = int64(v.Statistics.ViewCount)
		c.LikeCount = int64(v.Statistics.LikeCount)
	}
	if v.Status != nil {
		c.Licensed = v.Status.License == creativeCommonsLicense
	}
	return c
}

// ParseISO8601DurationMs converts a YouTube PT#H#M#S duration into
// milliseconds. Malformed input yields 0.
func ParseISO8601DurationMs(s string) int64 {
	s = strings.TrimPrefix(s, "PT")
	if s == "" {
		return 0
	}

	var totalMs int64
	num := ""
	for _, r := range s {
		if r >= '0' && r <= '9' {
			num += string(r)
			continue
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0
		}
		num = ""
		switch r {
		case 'H':
			totalMs += n * 3600 * 1000
		case 'M':
			totalMs += n * 60 * 1000
		case 'S':
			totalMs += n * 1000
		default:
			return 0
		}
	}
	return totalMs
}

var _ VideoSource = (*YouTubeSource)(nil)
