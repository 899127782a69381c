package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

const songPage = `<html><body>
<div class="header">Genius</div>
<div data-lyrics-container="true">I'm feeling good<br>Sun is shining<br/>All day</div>
<div data-lyrics-container="true">Second verse</div>
</body></html>`

// geniusServer fakes the search endpoint and song pages.
type geniusServer struct {
	*httptest.Server
	searches atomic.Int32
	pages    atomic.Int32
}

func newGeniusServer(t *testing.T, search func(w http.ResponseWriter, r *http.Request, base string)) *geniusServer {
	t.Helper()
	gs := &geniusServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		gs.searches.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		search(w, r, gs.URL)
	})
	mux.HandleFunc("/songs/good", func(w http.ResponseWriter, r *http.Request) {
		gs.pages.Add(1)
		fmt.Fprint(w, songPage)
	})
	mux.HandleFunc("/songs/empty", func(w http.ResponseWriter, r *http.Request) {
		gs.pages.Add(1)
		fmt.Fprint(w, "<html><body><p>No lyrics here</p></body></html>")
	})
	gs.Server = httptest.NewServer(mux)
	t.Cleanup(gs.Close)
	return gs
}

func hitsJSON(base string, hits ...string) string {
	return `{"meta":{"status":200},"response":{"hits":[` + strings.Join(hits, ",") + `]}}`
}

func songHit(base, title, artist, path string) string {
	return fmt.Sprintf(`{"type":"song","result":{"id":1,"title":%q,"url":%q,"primary_artist":{"id":2,"name":%q}}}`,
		title, base+path, artist)
}

func newTestClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := NewClient(Config{AccessToken: "test-token", BaseURL: base})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestFindLyrics(t *testing.T) {
	tests := []struct {
		name     string
		search   func(w http.ResponseWriter, r *http.Request, base string)
		want     string
		wantErr  error
		wantPage int32
	}{
		{
			name: "lyrics found",
			search: func(w http.ResponseWriter, r *http.Request, base string) {
				if q := r.URL.Query().Get("q"); q != "Good Day Sunny Band" {
					t.Errorf("q = %q", q)
				}
				fmt.Fprint(w, hitsJSON(base, songHit(base, "Good Day", "Sunny Band", "/songs/good")))
			},
			want:     "I'm feeling good\nSun is shining\nAll day\nSecond verse",
			wantPage: 1,
		},
		{
			name: "no hits",
			search: func(w http.ResponseWriter, r *http.Request, base string) {
				fmt.Fprint(w, hitsJSON(base))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "only excluded versions",
			search: func(w http.ResponseWriter, r *http.Request, base string) {
				fmt.Fprint(w, hitsJSON(base,
					songHit(base, "Good Day (Remix)", "Sunny Band", "/songs/good"),
					songHit(base, "Good Day (Live)", "Sunny Band", "/songs/good"),
				))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "page without lyrics",
			search: func(w http.ResponseWriter, r *http.Request, base string) {
				fmt.Fprint(w, hitsJSON(base, songHit(base, "Good Day", "Sunny Band", "/songs/empty")))
			},
			wantErr:  ErrNotFound,
			wantPage: 1,
		},
		{
			name: "invalid token",
			search: func(w http.ResponseWriter, r *http.Request, base string) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGeniusServer(t, tt.search)
			client := newTestClient(t, server.URL)

			got, err := client.FindLyrics(context.Background(), "Good Day", "Sunny Band")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindLyrics() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("FindLyrics() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindLyrics() = %q, want %q", got, tt.want)
			}
			if n := server.pages.Load(); n != tt.wantPage {
				t.Errorf("page fetches = %d, want %d", n, tt.wantPage)
			}
		})
	}
}

func TestPickHit(t *testing.T) {
	hits := []hit{
		{Type: "video", Result: Song{Title: "Song", URL: "u0", PrimaryArtist: Artist{Name: "Band"}}},
		{Type: "song", Result: Song{Title: "Song (Live)", URL: "u1", PrimaryArtist: Artist{Name: "Band"}}},
		{Type: "song", Result: Song{Title: "Song", URL: "u2", PrimaryArtist: Artist{Name: "Cover Act"}}},
		{Type: "song", Result: Song{Title: "Song", URL: "u3", PrimaryArtist: Artist{Name: "band"}}},
	}

	tests := []struct {
		name    string
		artist  string
		wantURL string
	}{
		{"prefers matching artist", "Band", "u3"},
		{"falls back to first song", "Somebody Else", "u2"},
		{"no artist given", "", "u2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, ok := pickHit(hits, tt.artist)
			if !ok {
				t.Fatal("pickHit() found nothing")
			}
			if song.URL != tt.wantURL {
				t.Errorf("pickHit() URL = %q, want %q", song.URL, tt.wantURL)
			}
		})
	}

	if _, ok := pickHit(hits[:2], "Band"); ok {
		t.Error("pickHit() should skip non-song and excluded hits")
	}
}

func TestCircuitBreaker(t *testing.T) {
	t.Run("opens after repeated failures", func(t *testing.T) {
		server := newGeniusServer(t, func(w http.ResponseWriter, r *http.Request, base string) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		client := newTestClient(t, server.URL)

		for i := 0; i < 5; i++ {
			if _, err := client.FindLyrics(context.Background(), "a", "b"); err == nil {
				t.Fatalf("call %d: expected error", i)
			}
		}

		_, err := client.FindLyrics(context.Background(), "a", "b")
		if !errors.Is(err, gobreaker.ErrOpenState) {
			t.Errorf("FindLyrics() error = %v, want %v", err, gobreaker.ErrOpenState)
		}
		if n := server.searches.Load(); n != 5 {
			t.Errorf("searches = %d, want 5", n)
		}
	})

	t.Run("caller cancellation does not trip", func(t *testing.T) {
		server := newGeniusServer(t, func(w http.ResponseWriter, r *http.Request, base string) {
			fmt.Fprint(w, hitsJSON(base, songHit(base, "Good Day", "b", "/songs/good")))
		})
		client := newTestClient(t, server.URL)

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		for i := 0; i < 5; i++ {
			if _, err := client.FindLyrics(cancelled, "a", "b"); !errors.Is(err, context.Canceled) {
				t.Fatalf("call %d: error = %v, want %v", i, err, context.Canceled)
			}
		}
		if n := server.searches.Load(); n != 0 {
			t.Errorf("searches = %d, want 0 for cancelled calls", n)
		}

		got, err := client.FindLyrics(context.Background(), "a", "b")
		if err != nil {
			t.Fatalf("FindLyrics() error = %v", err)
		}
		if !strings.Contains(got, "Second verse") {
			t.Errorf("FindLyrics() = %q", got)
		}
	})

	t.Run("caller timeouts do not trip", func(t *testing.T) {
		release := make(chan struct{})
		var slow atomic.Int32
		slow.Store(5)
		server := newGeniusServer(t, func(w http.ResponseWriter, r *http.Request, base string) {
			if slow.Add(-1) >= 0 {
				select {
				case <-r.Context().Done():
				case <-release:
				}
				return
			}
			fmt.Fprint(w, hitsJSON(base, songHit(base, "Good Day", "b", "/songs/good")))
		})
		t.Cleanup(func() { close(release) })
		client := newTestClient(t, server.URL)

		for i := 0; i < 5; i++ {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			_, err := client.FindLyrics(ctx, "a", "b")
			cancel()
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("call %d: error = %v, want %v", i, err, context.DeadlineExceeded)
			}
		}

		if _, err := client.FindLyrics(context.Background(), "a", "b"); err != nil {
			t.Errorf("FindLyrics() after timeouts error = %v, want lyrics", err)
		}
		if n := server.searches.Load(); n != 6 {
			t.Errorf("searches = %d, want 6", n)
		}
	})

	t.Run("not found does not trip", func(t *testing.T) {
		server := newGeniusServer(t, func(w http.ResponseWriter, r *http.Request, base string) {
			fmt.Fprint(w, hitsJSON(base))
		})
		client := newTestClient(t, server.URL)

		for i := 0; i < 10; i++ {
			if _, err := client.FindLyrics(context.Background(), "a", "b"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("call %d: error = %v, want %v", i, err, ErrNotFound)
			}
		}
		if n := server.searches.Load(); n != 10 {
			t.Errorf("searches = %d, want 10", n)
		}
	})
}

func TestNewClientMissingToken(t *testing.T) {
	c, err := NewClient(Config{})
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("NewClient() error = %v, want %v", err, ErrMissingToken)
	}
	if c != nil {
		t.Error("NewClient() returned non-nil client with error")
	}
}
