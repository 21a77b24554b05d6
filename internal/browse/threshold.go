package browse

// NearEnd reports whether the list has scrolled close enough to its end to
// load the next page. lastVisible is the index of the last visible row, total
// the number of rows and window the number of visible rows. The trigger fires
// when the rows left below the window fit within threshold windows.
func NearEnd(lastVisible, total, window int, threshold float64) bool {
	if total == 0 || window <= 0 {
		return false
	}
	remaining := max(total-1-lastVisible, 0)
	return float64(remaining) <= threshold*float64(window)
}
