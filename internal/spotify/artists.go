package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// topTracksCountry is the market used for artist top tracks.
const topTracksCountry = "US"

// ArtistGenres returns the genres Spotify lists for an artist.
func (c *Client) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	artist, err := c.api.GetArtist(ctx, spotify.ID(artistID))
	if err != nil {
		return nil, fmt.Errorf("getting artist %s: %w", artistID, wrapErr(err))
	}
	if artist.Genres == nil {
		return []string{}, nil
	}
	return artist.Genres, nil
}

// TopTracks returns an artist's top tracks in the US market.
func (c *Client) TopTracks(ctx context.Context, artistID string) ([]TrackSummary, error) {
	tracks, err := c.api.GetArtistsTopTracks(ctx, spotify.ID(artistID), topTracksCountry)
	if err != nil {
		return nil, fmt.Errorf("getting top tracks for %s: %w", artistID, wrapErr(err))
	}

	out := make([]TrackSummary, len(tracks))
	for i, t := range tracks {
		out[i] = summarizeTrack(t)
	}
	return out, nil
}

func summarizeArtist(a spotify.FullArtist) ArtistSummary {
	return ArtistSummary{
		ID:        a.ID.String(),
		Name:      a.Name,
		Followers: int(a.Followers.Count),
		Image:     firstImage(a.Images),
	}
}
