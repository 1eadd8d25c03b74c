package domain

// Rating bounds for books.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Book represents a title in the catalog.
// Copy counts track physical inventory: AvailableCopies may never exceed
// TotalCopies, and neither may go negative.
type Book struct {
	Record
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Genre           string  `json:"genre"`
	Rating          float64 `json:"rating"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
	Description     string  `json:"description,omitempty"`
	CoverColor      string  `json:"cover_color,omitempty"`
	CoverURL        string  `json:"cover_url,omitempty"`
	VideoURL        string  `json:"video_url,omitempty"`
	Summary         string  `json:"summary,omitempty"`
}

// HasAvailableCopy returns true if at least one copy can be borrowed.
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}

// InventoryOK reports whether the copy counts satisfy
// 0 <= AvailableCopies <= TotalCopies.
func (b *Book) InventoryOK() bool {
	return b.AvailableCopies >= 0 && b.AvailableCopies <= b.TotalCopies
}

// RatingOK reports whether the rating is within [MinRating, MaxRating].
func (b *Book) RatingOK() bool {
	return b.Rating >= MinRating && b.Rating <= MaxRating
}

// Clone returns a deep copy suitable for use as an edit draft.
func (b *Book) Clone() *Book {
	c := *b
	return &c
}
