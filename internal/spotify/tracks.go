package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

// Track fetches the metadata the classifier needs for one track.
func (c *Client) Track(ctx context.Context, id string) (profile.CatalogTrack, error) {
	track, err := c.api.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return profile.CatalogTrack{}, fmt.Errorf("getting track %s: %w", id, wrapErr(err))
	}
	return convertTrack(track), nil
}

// convertTrack converts a Spotify FullTrack to profile.CatalogTrack.
func convertTrack(track *spotify.FullTrack) profile.CatalogTrack {
	artists := make([]profile.ArtistRef, len(track.Artists))
	for i, a := range track.Artists {
		artists[i] = profile.ArtistRef{ID: a.ID.String(), Name: a.Name}
	}

	return profile.CatalogTrack{
		ID:          track.ID.String(),
		Name:        track.Name,
		Popularity:  int(track.Popularity),
		DurationMs:  int(track.Duration),
		Explicit:    track.Explicit,
		ReleaseDate: track.Album.ReleaseDate,
		Artists:     artists,
	}
}

// summarizeTrack converts a Spotify FullTrack to a TrackSummary.
func summarizeTrack(track spotify.FullTrack) TrackSummary {
	// Join artist names
	artists := make([]string, len(track.Artists))
	for i, a := range track.Artists {
		artists[i] = a.Name
	}

	return TrackSummary{
		ID:         track.ID.String(),
		Name:       track.Name,
		Artist:     strings.Join(artists, ", "),
		AlbumImage: firstImage(track.Album.Images),
	}
}

func firstImage(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
