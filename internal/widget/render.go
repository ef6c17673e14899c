package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/hoachau/nowplaying/internal/spotify"
)

// placeholderArtwork stands in when a track carries no album images.
const placeholderArtwork = "/assets/placeholder.png"

const (
	notPlayingMessage = "Nothing is playing right now."
	noDataMessage     = "No listening data yet."
)

// The renderers return plain text; styling and transitions are applied by
// the panel layer so content comparison stays byte-exact.

func artworkRef(album spotify.Album) string {
	if len(album.Images) == 0 || album.Images[0].URL == "" {
		return placeholderArtwork
	}
	return album.Images[0].URL
}

func artistNames(artists []spotify.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// RenderNowPlaying builds the now-playing card body.
func RenderNowPlaying(p *NowPlayingPayload) string {
	if p == nil || !p.IsPlaying || p.Track == nil {
		return notPlayingMessage
	}

	track := p.Track
	var b strings.Builder
	fmt.Fprintf(&b, "▶ %s — %s\n", track.Name, artistNames(track.Artists))
	fmt.Fprintf(&b, "%s • %s\n", track.Album.Name, shared.FormatDuration(track.DurationMS))
	fmt.Fprintf(&b, "art: %s", artworkRef(track.Album))
	if url := track.URL(); url != "" {
		fmt.Fprintf(&b, "\n%s", url)
	}
	return b.String()
}

// renderTrackLine formats one list entry, or returns false for a
// malformed entry that should be skipped rather than abort the render.
func renderTrackLine(index int, track spotify.Track) (string, bool) {
	if track.Name == "" || len(track.Artists) == 0 {
		return "", false
	}
	return fmt.Sprintf("%2d. %s — %s  [%s]", index, track.Name, artistNames(track.Artists), shared.FormatDuration(track.DurationMS)), true
}

// RenderTopTracks builds the top-tracks list body for one bucket.
func RenderTopTracks(p *TopTracksPayload) string {
	if p == nil || len(p.Items) == 0 {
		return noDataMessage
	}

	lines := make([]string, 0, len(p.Items))
	for _, track := range p.Items {
		if line, ok := renderTrackLine(len(lines)+1, track); ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return noDataMessage
	}
	return strings.Join(lines, "\n")
}

// RenderRecent builds the recently-played list body.
func RenderRecent(p *RecentPayload) string {
	if p == nil || len(p.Items) == 0 {
		return noDataMessage
	}

	lines := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		if line, ok := renderTrackLine(len(lines)+1, item.Track); ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return noDataMessage
	}
	return strings.Join(lines, "\n")
}

// ErrorMessage maps a typed fetch failure onto the human-readable
// message shown when a panel has nothing better to display.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrTimeout):
		return "Request timed out. The proxy didn't answer within 8 seconds."
	case errors.Is(err, shared.ErrNetwork):
		return "Can't reach the proxy. Is it running?"
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Authentication required. Open the proxy's /login page to connect Spotify."
	case errors.Is(err, shared.ErrMalformedPayload):
		return "The proxy returned an unexpected response."
	default:
		return "Spotify data is unavailable right now."
	}
}
