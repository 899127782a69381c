package lyrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/metrics"
)

const (
	defaultBaseURL = "https://api.genius.com"
	defaultTimeout = 10 * time.Second
	userAgent      = "spotify-taste-profile/1.0"
	breakerName    = "genius-api"

	lyricsSelector = `div[data-lyrics-container="true"]`
)

// Song titles containing any of these are skipped.
var excludedTerms = []string{"(remix)", "(live)"}

// Sentinel errors.
var (
	// ErrNotFound is returned when no song or no lyrics match the query.
	ErrNotFound = errors.New("lyrics not found")

	// ErrInvalidToken is returned when Genius rejects the access token.
	ErrInvalidToken = errors.New("invalid access token")
)

// Client is a Genius API client with rate limiting and a circuit breaker.
type Client struct {
	http    *resty.Client
	token   string
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[string]
}

// NewClient creates a new Genius client from the provided configuration.
// Returns ErrMissingToken if no access token is set.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)

	return &Client{
		http:    httpClient,
		token:   cfg.AccessToken,
		limiter: rate.NewLimiter(limit, 1),
		cb:      newBreaker(),
	}, nil
}

func newBreaker() *gobreaker.CircuitBreaker[string] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Not-found responses and calls abandoned by the caller do not count
		// as failures.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// FindLyrics searches Genius for a song and returns its lyrics text.
// Returns ErrNotFound when nothing matches.
func (c *Client) FindLyrics(ctx context.Context, title, artist string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("finding lyrics for %q by %q: %w", title, artist, err)
	}

	text, err := c.cb.Execute(func() (string, error) {
		text, err := c.lookup(ctx, title, artist)
		// The limiter reports a deadline it cannot meet without wrapping ctx.Err.
		if ctxErr := ctx.Err(); err != nil && ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return text, err
	})
	if err != nil {
		return "", fmt.Errorf("finding lyrics for %q by %q: %w", title, artist, err)
	}
	return text, nil
}

func (c *Client) lookup(ctx context.Context, title, artist string) (string, error) {
	song, err := c.search(ctx, title, artist)
	if err != nil {
		return "", err
	}
	return c.scrape(ctx, song.URL)
}

// search returns the best song hit for a title and artist.
func (c *Client) search(ctx context.Context, title, artist string) (*Song, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetQueryParam("q", strings.TrimSpace(title+" "+artist)).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("searching songs: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, ErrInvalidToken
	case resp.IsError():
		return nil, fmt.Errorf("searching songs: unexpected status %d", resp.StatusCode())
	}

	var sr searchResponse
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	song, ok := pickHit(sr.Response.Hits, artist)
	if !ok {
		return nil, ErrNotFound
	}
	return song, nil
}

// pickHit returns the first song hit whose primary artist matches, or the
// first song hit at all. Non-song hits and excluded titles are skipped.
func pickHit(hits []hit, artist string) (*Song, bool) {
	var first *Song
	for i := range hits {
		h := &hits[i]
		if h.Type != "song" || h.Result.URL == "" || excluded(h.Result.Title) {
			continue
		}
		if artist != "" && strings.EqualFold(strings.TrimSpace(h.Result.PrimaryArtist.Name), strings.TrimSpace(artist)) {
			return &h.Result, true
		}
		if first == nil {
			first = &h.Result
		}
	}
	return first, first != nil
}

func excluded(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range excludedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// scrape downloads a song page and extracts its lyrics.
func (c *Client) scrape(ctx context.Context, pageURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("fetching song page: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return "", ErrNotFound
	case resp.IsError():
		return "", fmt.Errorf("fetching song page: unexpected status %d", resp.StatusCode())
	}

	return extractLyrics(resp.Body())
}

// extractLyrics pulls the lyric text out of a Genius song page. Line breaks
// inside the lyric containers become newlines.
func extractLyrics(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing song page: %w", err)
	}

	var parts []string
	doc.Find(lyricsSelector).Each(func(_ int, s *goquery.Selection) {
		s.Find("br").ReplaceWithHtml("\n")
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return "", ErrNotFound
	}
	return strings.Join(parts, "\n"), nil
}
