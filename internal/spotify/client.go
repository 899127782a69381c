// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

// ErrMissingCredentials is returned when the client ID or secret is empty.
var ErrMissingCredentials = errors.New("missing Spotify client ID or secret")

// ErrNotFound is returned when the catalog has no entity with the given ID.
var ErrNotFound = errors.New("not found in catalog")

const defaultTimeout = 10 * time.Second

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

var _ profile.Catalog = (*Client)(nil)

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// NewFromCredentials creates a client authenticated with the client
// credentials flow. Automatic retries are disabled; failed calls surface
// immediately.
func NewFromCredentials(ctx context.Context, clientID, clientSecret string, opts ...spotify.ClientOption) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// Token requests use this client too.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: defaultTimeout})
	httpClient := cfg.Client(ctx)
	httpClient.Timeout = defaultTimeout

	opts = append([]spotify.ClientOption{spotify.WithRetry(false)}, opts...)
	return New(spotify.New(httpClient, opts...)), nil
}

// wrapErr maps a 404 from the API to ErrNotFound.
func wrapErr(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
