// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album represents a Spotify album.
type Album struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Track represents a Spotify track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	DurationMS   int          `json:"duration_ms"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// URL returns the track's public Spotify link.
func (t Track) URL() string {
	return t.ExternalURLs.Spotify
}

// CurrentlyPlaying represents the player's currently-playing object.
// Item is a pointer because the API returns null when nothing is playing.
type CurrentlyPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS int    `json:"progress_ms"`
	Timestamp  int64  `json:"timestamp"`
	Item       *Track `json:"item"`
}

// TopTracksPage represents a page of the user's top tracks.
type TopTracksPage struct {
	Items []Track `json:"items"`
	Total int     `json:"total"`
	Limit int     `json:"limit"`
}

// PlayHistoryItem represents one entry of the recently-played list.
type PlayHistoryItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// RecentlyPlayedPage represents a page of the user's listening history.
type RecentlyPlayedPage struct {
	Items []PlayHistoryItem `json:"items"`
	Limit int               `json:"limit"`
}

// TimeRange is the top-tracks aggregation window.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// Valid reports whether tr is one of the three ranges the API accepts.
func (tr TimeRange) Valid() bool {
	switch tr {
	case ShortTerm, MediumTerm, LongTerm:
		return true
	}
	return false
}
