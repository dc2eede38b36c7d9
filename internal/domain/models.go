package domain

// Track describes the song the daemon currently reports as playing.
type Track struct {
	// URI is the file identifier used to request album art. Empty means
	// the daemon reported a song without a file entry.
	URI string
	// Artist name
	Artist string
	// Album name
	Album string
	// Title of the track
	Title string
}

// CanvasSize holds the dimensions of the composited output bitmap.
type CanvasSize struct {
	Width  int
	Height int
}
