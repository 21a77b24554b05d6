package tmdb

const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/w1280"

	// PosterPlaceholder is returned by PosterURL for movies without a poster.
	PosterPlaceholder = "https://via.placeholder.com/500x750?text=No+Image"
	// BackdropPlaceholder is returned by BackdropURL for movies without a backdrop.
	BackdropPlaceholder = "https://via.placeholder.com/1280x720?text=No+Image"
)

// PosterURL returns the 500px poster URL for a path, or the placeholder.
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return PosterPlaceholder
	}
	return posterBaseURL + posterPath
}

// BackdropURL returns the 1280px backdrop URL for a path, or the placeholder.
func BackdropURL(backdropPath string) string {
	if backdropPath == "" {
		return BackdropPlaceholder
	}
	return backdropBaseURL + backdropPath
}
