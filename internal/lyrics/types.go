package lyrics

// Song is a Genius song search result.
type Song struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PrimaryArtist Artist `json:"primary_artist"`
}

// Artist is the primary artist credited on a Genius song.
type Artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// searchResponse is the JSON response for GET /search.
type searchResponse struct {
	Meta struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"meta"`
	Response struct {
		Hits []hit `json:"hits"`
	} `json:"response"`
}

type hit struct {
	Type   string `json:"type"`
	Result Song   `json:"result"`
}
