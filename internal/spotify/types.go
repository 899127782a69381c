package spotify

// TrackSummary is the track shape shown in search results and top tracks.
type TrackSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"` // Comma-separated artist names
	AlbumImage string `json:"album_image"`
}

// ArtistSummary is the artist shape shown in search results.
type ArtistSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Followers int    `json:"followers"`
	Image     string `json:"image"`
}

// SearchResults holds the track and artist hits for a query.
type SearchResults struct {
	Tracks  []TrackSummary  `json:"tracks"`
	Artists []ArtistSummary `json:"artists"`
}
