package tmdb

import "testing"

func TestPosterURL(t *testing.T) {
	tests := []struct {
		path   string
		expect string
	}{
		{"/abc.jpg", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"", "https://via.placeholder.com/500x750?text=No+Image"},
	}
	for _, tt := range tests {
		if got := PosterURL(tt.path); got != tt.expect {
			t.Errorf("PosterURL(%q) = %q, want %q", tt.path, got, tt.expect)
		}
	}
}

func TestBackdropURL(t *testing.T) {
	tests := []struct {
		path   string
		expect string
	}{
		{"/wide.jpg", "https://image.tmdb.org/t/p/w1280/wide.jpg"},
		{"", "https://via.placeholder.com/1280x720?text=No+Image"},
	}
	for _, tt := range tests {
		if got := BackdropURL(tt.path); got != tt.expect {
			t.Errorf("BackdropURL(%q) = %q, want %q", tt.path, got, tt.expect)
		}
	}
}
