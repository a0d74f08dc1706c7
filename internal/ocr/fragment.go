package ocr

import "context"

// Fragment is a single recognized word or paragraph with its position and
// the engine's confidence in the recognition.
type Fragment struct {
	Text string `json:"text"`

	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Confidence is in [0, 1]. Engines reporting percentages are
	// normalized on the way in.
	Confidence float64 `json:"confidence"`
}

// CenterX returns the horizontal center of the fragment.
func (f Fragment) CenterX() int {
	return f.X + f.Width/2
}

// CenterY returns the vertical center of the fragment.
func (f Fragment) CenterY() int {
	return f.Y + f.Height/2
}

// Engine recognizes text in a drawing image on disk.
type Engine interface {
	// Recognize extracts text fragments from the image at the given path.
	// An empty slice is a valid result for a drawing without readable
	// text. The context bounds the recognition, which may involve a
	// network round trip.
	Recognize(ctx context.Context, imagePath string) ([]Fragment, error)

	// Name identifies the engine for logging and API responses.
	Name() string
}
