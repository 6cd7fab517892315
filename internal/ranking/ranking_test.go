package ranking

import (
	"testing"

	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/store"
)

func popularityBooks() []model.BookRecord {
	return []model.BookRecord{
		{ID: 1, Title: "Middling", Rating: 3.0, ReviewCount: 50},
		{ID: 2, Title: "Beloved Classic", Rating: 4.8, ReviewCount: 200},
		{ID: 3, Title: "Beloved Niche", Rating: 4.8, ReviewCount: 80},
		{ID: 4, Title: "Panned", Rating: 1.2, ReviewCount: 700},
		{ID: 5, Title: "Also Middling", Rating: 3.0, ReviewCount: 90},
	}
}

func TestTopByPopularityOrdersByRatingThenReviewCount(t *testing.T) {
	catalog := store.NewCatalog(popularityBooks(), nil, true)

	got := TopByPopularity(catalog, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 books, got %d", len(got))
	}

	wantIDs := []int64{2, 3, 5, 1, 4}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: id = %d, want %d (order: %v)", i, got[i].ID, want, got)
		}
	}
}

func TestTopByPopularityIgnoresReviewCountsWhenColumnAbsent(t *testing.T) {
	// Same data, but the source never had the review-count column, so equal
	// ratings keep catalog order.
	catalog := store.NewCatalog(popularityBooks(), nil, false)

	got := TopByPopularity(catalog, 5)
	wantIDs := []int64{2, 3, 1, 5, 4}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: id = %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestTopByPopularityRatingIsNonIncreasing(t *testing.T) {
	catalog := store.NewCatalog(popularityBooks(), nil, true)

	for n := 1; n <= 5; n++ {
		got := TopByPopularity(catalog, n)
		for i := 1; i < len(got); i++ {
			if got[i-1].Rating < got[i].Rating {
				t.Errorf("n=%d: ratings increase at %d: %v then %v", n, i, got[i-1].Rating, got[i].Rating)
			}
		}
	}
}

func TestTopByPopularityCapsAtN(t *testing.T) {
	catalog := store.NewCatalog(popularityBooks(), nil, true)

	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{"n below catalog size", 2, 2},
		{"n equals catalog size", 5, 5},
		{"n above catalog size", 50, 5},
		{"zero n", 0, 0},
		{"negative n", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopByPopularity(catalog, tt.n)
			if got == nil {
				t.Fatal("TopByPopularity returned nil, want empty slice")
			}
			if len(got) != tt.wantLen {
				t.Errorf("TopByPopularity(n=%d) returned %d books, want %d", tt.n, len(got), tt.wantLen)
			}
		})
	}
}

func TestTopByPopularityEmptyCatalog(t *testing.T) {
	catalog := store.NewCatalog(nil, nil, false)

	got := TopByPopularity(catalog, 12)
	if got == nil {
		t.Fatal("TopByPopularity returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d books", len(got))
	}
}

func TestTopByPopularityDoesNotMutateCatalogOrder(t *testing.T) {
	catalog := store.NewCatalog(popularityBooks(), nil, true)

	TopByPopularity(catalog, 5)

	books := catalog.Books()
	for i, want := range []int64{1, 2, 3, 4, 5} {
		if books[i].ID != want {
			t.Fatalf("catalog order mutated: position %d holds id %d", i, books[i].ID)
		}
	}
}
