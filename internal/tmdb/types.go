// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
package tmdb

import "strconv"

// Kind selects which catalog is searched.
type Kind int

const (
	KindMovie Kind = iota
	KindTV
)

// String returns the API path segment for the kind ("movie" or "tv").
func (k Kind) String() string {
	if k == KindTV {
		return "tv"
	}
	return "movie"
}

// Label returns the human-readable name of the kind.
func (k Kind) Label() string {
	if k == KindTV {
		return "TV"
	}
	return "Movies"
}

// ParseKind converts "movie"/"tv" into a Kind. Unknown values yield KindMovie, false.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "movie", "movies":
		return KindMovie, true
	case "tv", "series":
		return KindTV, true
	}
	return KindMovie, false
}

// Item is a single catalog entry as returned by the search endpoints.
// Movies carry Title/ReleaseDate, TV shows carry Name/FirstAirDate.
type Item struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
}

// DisplayTitle returns the title for movies or the name for TV shows.
func (it Item) DisplayTitle() string {
	if it.Title != "" {
		return it.Title
	}
	return it.Name
}

// Year extracts the release (or first air) year, or 0 if unknown.
func (it Item) Year() int {
	date := it.ReleaseDate
	if date == "" {
		date = it.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// ResultPage is one page of search results.
type ResultPage struct {
	Items        []Item `json:"results"`
	Page         int    `json:"page"`
	TotalResults int    `json:"total_results"`
	TotalPages   int    `json:"total_pages"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Detail is the full record for a movie or TV show.
// Fields that only exist for one kind are left zero for the other.
type Detail struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	Overview         string  `json:"overview"`
	Tagline          *string `json:"tagline"`
	Homepage         *string `json:"homepage"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	OriginalLanguage string  `json:"original_language"`
	Genres           []Genre `json:"genres"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`

	// Movie only
	ReleaseDate string `json:"release_date,omitempty"`
	Runtime     int    `json:"runtime,omitempty"` // minutes

	// TV only
	FirstAirDate     string `json:"first_air_date,omitempty"`
	NumberOfSeasons  int    `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int    `json:"number_of_episodes,omitempty"`

	Kind Kind `json:"-"`
}

// DisplayTitle returns the movie title or the show name.
func (d Detail) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}
