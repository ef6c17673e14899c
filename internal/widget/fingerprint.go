package widget

import (
	"strings"

	"github.com/hoachau/nowplaying/internal/spotify"
)

// NowPlayingPayload mirrors the proxy's /api/data/now-playing response.
type NowPlayingPayload struct {
	IsPlaying bool           `json:"isPlaying"`
	Track     *spotify.Track `json:"track"`
}

// TopTracksPayload mirrors the proxy's /api/data/top-tracks response.
type TopTracksPayload struct {
	Items []spotify.Track `json:"items"`
}

// RecentPayload mirrors the proxy's /api/data/recent response.
type RecentPayload struct {
	Items []spotify.PlayHistoryItem `json:"items"`
}

// FingerprintNowPlaying derives a comparable value from the semantically
// significant fields of a now-playing payload. Volatile fields like
// playback position are deliberately excluded so a progressing track
// doesn't re-render every poll.
func FingerprintNowPlaying(p *NowPlayingPayload) string {
	if p == nil || !p.IsPlaying || p.Track == nil {
		return "stopped"
	}

	artistID := ""
	if len(p.Track.Artists) > 0 {
		artistID = p.Track.Artists[0].ID
	}
	return "playing|" + p.Track.ID + "|" + artistID
}

// FingerprintTopTracks derives a comparable value from a top-tracks list.
func FingerprintTopTracks(p *TopTracksPayload) string {
	if p == nil || len(p.Items) == 0 {
		return "empty"
	}

	ids := make([]string, len(p.Items))
	for i, track := range p.Items {
		ids[i] = track.ID
	}
	return strings.Join(ids, ",")
}

// FingerprintRecent derives a comparable value from a listening-history
// list. The played-at timestamp distinguishes repeat plays of one track.
func FingerprintRecent(p *RecentPayload) string {
	if p == nil || len(p.Items) == 0 {
		return "empty"
	}

	keys := make([]string, len(p.Items))
	for i, item := range p.Items {
		keys[i] = item.Track.ID + "|" + item.PlayedAt
	}
	return strings.Join(keys, ",")
}
