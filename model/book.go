package model

// BookRecord represents a single catalog row. Positions in the catalog, not
// the ID field, are the internal key used by the similarity index: IDs come
// from the source data and may be duplicated or absent (ID 0 means the
// source row had no usable identifier).
type BookRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Authors     string  `json:"authors"`
	Publisher   string  `json:"publisher"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
}

// Blob returns the metadata text consumed by the vectorizer: title, authors
// and publisher joined with single spaces. Empty fields still contribute
// their separator, so every record has a blob.
func (b BookRecord) Blob() string {
	return b.Title + " " + b.Authors + " " + b.Publisher
}

// RatingRecord is one row of the ratings source: a textual review label for
// a book, joined to the catalog by title. The join is weak: titles are not
// unique and nothing guarantees the reviewed book exists in the catalog.
// Value is the derived numeric rating (1-5), or 0 when the label is not one
// of the five known ones.
type RatingRecord struct {
	Title string `json:"title"`
	Label string `json:"label"`
	Value int    `json:"value,omitempty"`
}

// ratingValues maps the five ordinal labels used by the ratings source to
// their numeric values.
var ratingValues = map[string]int{
	"it was amazing":  5,
	"really liked it": 4,
	"liked it":        3,
	"it was ok":       2,
	"did not like it": 1,
}

// RatingValue maps a textual rating label to its numeric value. The second
// return is false for unrecognized labels, which carry no numeric value and
// are excluded from numeric aggregation.
func RatingValue(label string) (int, bool) {
	v, ok := ratingValues[label]
	return v, ok
}
