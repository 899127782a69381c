package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// searchLimit caps each search result list.
const searchLimit = 5

// Search looks up tracks and artists matching a free-text query.
// An empty query returns empty lists without calling the API.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	results := &SearchResults{Tracks: []TrackSummary{}, Artists: []ArtistSummary{}}
	if query == "" {
		return results, nil
	}

	res, err := c.api.Search(ctx, query, spotify.SearchTypeTrack|spotify.SearchTypeArtist, spotify.Limit(searchLimit))
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	if res.Tracks != nil {
		for _, t := range res.Tracks.Tracks {
			results.Tracks = append(results.Tracks, summarizeTrack(t))
		}
	}
	if res.Artists != nil {
		for _, a := range res.Artists.Artists {
			results.Artists = append(results.Artists, summarizeArtist(a))
		}
	}
	return results, nil
}
