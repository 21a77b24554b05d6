package tmdb

// Movie represents a movie from a TMDb list endpoint.
// Absent image paths decode to "".
type Movie struct {
	ID           int     `json:"id" validate:"gt=0"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount    int     `json:"vote_count" validate:"gte=0"`
	Popularity   float64 `json:"popularity" validate:"gte=0"`
}

// MovieDetails represents the full record returned by /movie/{id}.
type MovieDetails struct {
	Movie

	Genres              []Genre             `json:"genres" validate:"dive"`
	Runtime             int                 `json:"runtime" validate:"gte=0"`
	ProductionCompanies []ProductionCompany `json:"production_companies" validate:"dive"`
	Budget              int64               `json:"budget" validate:"gte=0"`  // 0 = unreported
	Revenue             int64               `json:"revenue" validate:"gte=0"` // 0 = unreported
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
}

// ProductionCompany is a studio credited on a movie.
type ProductionCompany struct {
	ID       int    `json:"id" validate:"gt=0"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// MoviesPage is the TMDb paginated list envelope.
type MoviesPage struct {
	Page         int     `json:"page" validate:"gte=1"`
	Results      []Movie `json:"results" validate:"required,dive"`
	TotalPages   int     `json:"total_pages" validate:"gte=0"`
	TotalResults int     `json:"total_results" validate:"gte=0"`
}
