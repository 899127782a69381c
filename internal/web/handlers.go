package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/profile"
	"github.com/justestif/go-spotify-taste-profile/internal/spotify"
)

// maxRequestBody caps the size of a classification request body.
const maxRequestBody = 64 << 10

// Classifier runs the classification pipeline.
type Classifier interface {
	Classify(ctx context.Context, trackIDs []string) (profile.Result, error)
}

// Catalog serves the track picker.
type Catalog interface {
	Search(ctx context.Context, query string) (*spotify.SearchResults, error)
	TopTracks(ctx context.Context, artistID string) ([]spotify.TrackSummary, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	classifier Classifier
	catalog    Catalog
	templates  *Templates
	validate   *validator.Validate
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(classifier Classifier, catalog Catalog, templates *Templates) *Handlers {
	return &Handlers{
		classifier: classifier,
		catalog:    catalog,
		templates:  templates,
		validate:   validator.New(),
	}
}

// classifyRequest is the body of POST /mbti.
type classifyRequest struct {
	TrackIDs []string `json:"track_ids" validate:"max=50,dive,required"`
}

// classifyResponse is returned for every classification outcome.
type classifyResponse struct {
	Group       string             `json:"group"`
	Explanation string             `json:"explanation"`
	// Scores are the final group scores in canonical group order.
	Scores []profile.GroupScore `json:"scores,omitempty"`
}

func newClassifyResponse(res profile.Result) classifyResponse {
	resp := classifyResponse{
		Group:       res.Group.String(),
		Explanation: res.Explanation,
	}
	if res.Summary != nil {
		resp.Scores = res.Summary.Final.Scores()
	}
	return resp
}

// Index handles the track picker page (GET /).
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		PageData: PageData{
			Title:       "Music Taste Profile",
			CurrentPath: r.URL.Path,
		},
		MaxTracks: 5,
	}
	h.render(w, r, "index", data)
}

// Result handles the result page (GET /result?group=&explanation=).
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group := q.Get("group")
	if group == "" {
		group = profile.Unknown.String()
	}

	data := ResultPageData{
		PageData: PageData{
			Title:       "Your Music Taste",
			CurrentPath: r.URL.Path,
		},
		Group:       group,
		Explanation: q.Get("explanation"),
		ImageURL:    groupImage(group),
	}
	h.render(w, r, "result", data)
}

// Search handles catalog search (GET /search?q=).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	results, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("query", query).Msg("catalog search failed")
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: "catalog search failed"})
		return
	}
	writeJSON(w, r, http.StatusOK, results)
}

// ArtistTracks handles an artist's top tracks (GET /artist_tracks?artist_id=).
func (h *Handlers) ArtistTracks(w http.ResponseWriter, r *http.Request) {
	artistID := strings.TrimSpace(r.URL.Query().Get("artist_id"))
	if artistID == "" {
		writeJSON(w, r, http.StatusOK, []spotify.TrackSummary{})
		return
	}

	tracks, err := h.catalog.TopTracks(r.Context(), artistID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("artist_id", artistID).Msg("fetching artist tracks failed")
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: "fetching artist tracks failed"})
		return
	}
	writeJSON(w, r, http.StatusOK, tracks)
}

// Classify handles a classification request (POST /mbti).
// UNKNOWN outcomes are answered with 200; only internal failures are 500.
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("malformed classification request")
		writeJSON(w, r, http.StatusBadRequest, newClassifyResponse(profile.UnknownResult("invalid request body")))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("invalid classification request")
		writeJSON(w, r, http.StatusBadRequest, newClassifyResponse(profile.UnknownResult("invalid request: at most 50 non-empty track IDs")))
		return
	}

	res, err := h.classifier.Classify(r.Context(), req.TrackIDs)
	if err != nil {
		status := http.StatusInternalServerError
		if !errors.Is(err, profile.ErrClassification) {
			logging.Ctx(r.Context()).Error().Err(err).Msg("classification failed")
			res = profile.UnknownResult(profile.ExplanationFailed)
		}
		writeJSON(w, r, status, newClassifyResponse(res))
		return
	}
	writeJSON(w, r, http.StatusOK, newClassifyResponse(res))
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, page, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("rendering template failed")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("encoding response failed")
	}
}

// groupImage returns the result image for a group label or slug.
func groupImage(group string) string {
	g, err := profile.ParseGroup(group)
	if err != nil {
		return "/static/images/default.png"
	}
	return "/static/images/" + g.Slug() + ".png"
}
