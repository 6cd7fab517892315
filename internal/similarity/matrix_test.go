package similarity

import (
	"errors"
	"math"
	"testing"

	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/internal/vectorizer"
)

const tolerance = 1e-9

func buildTestMatrix(t *testing.T, blobs []string) *Matrix {
	t.Helper()
	_, vectors := vectorizer.Build(blobs)
	m, err := Build(vectors, DefaultEagerThreshold)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func testCatalogBlobs() []string {
	return []string{
		"Dune Herbert, Frank Chilton Books",
		"Dune Messiah Herbert, Frank Putnam",
		"Cooking 101 Smith Kitchen Press",
		"Solaris Lem, Stanislaw Walker",
	}
}

func TestBuildDiagonalIsOne(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())
	for p := 0; p < m.Size(); p++ {
		if got := m.Score(p, p); math.Abs(got-1.0) > tolerance {
			t.Errorf("Score(%d, %d) = %v, want 1.0", p, p, got)
		}
	}
}

func TestBuildIsSymmetric(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if math.Abs(m.Score(i, j)-m.Score(j, i)) > tolerance {
				t.Errorf("matrix not symmetric at (%d,%d): %v vs %v", i, j, m.Score(i, j), m.Score(j, i))
			}
		}
	}
}

func TestBuildScoresWithinUnitRange(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			s := m.Score(i, j)
			if s < -tolerance || s > 1+tolerance {
				t.Errorf("Score(%d,%d) = %v outside [0,1]", i, j, s)
			}
		}
	}
}

func TestBuildZeroVectorRowIsAllZero(t *testing.T) {
	// Position 1 has an empty blob, so its vector is the zero vector and
	// every comparison against it, including self, is 0.
	m := buildTestMatrix(t, []string{"Dune Herbert", "", "Cooking Smith"})
	for j := 0; j < m.Size(); j++ {
		if got := m.Score(1, j); got != 0 {
			t.Errorf("Score(1, %d) = %v, want 0", j, got)
		}
	}
	if got := m.Score(1, 1); got != 0 {
		t.Errorf("zero-vector self similarity = %v, want 0", got)
	}
}

func TestBuildSkippedAtThreshold(t *testing.T) {
	_, vectors := vectorizer.Build(testCatalogBlobs())

	tests := []struct {
		name      string
		threshold int
		wantSkip  bool
	}{
		{"below threshold", len(vectors) + 1, false},
		{"at threshold", len(vectors), true},
		{"above threshold", len(vectors) - 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(vectors, tt.threshold)
			if tt.wantSkip {
				if !errors.Is(err, internalErrors.ErrIndexUnavailable) {
					t.Fatalf("expected ErrIndexUnavailable, got %v", err)
				}
				if m != nil {
					t.Error("expected nil matrix when skipped")
				}
			} else {
				if err != nil {
					t.Fatalf("Build failed: %v", err)
				}
				if m.Size() != len(vectors) {
					t.Errorf("Size() = %d, want %d", m.Size(), len(vectors))
				}
			}
		})
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	m, err := Build(nil, DefaultEagerThreshold)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.Size() != 0 {
		t.Errorf("Size() = %d, want 0", m.Size())
	}
	if got := m.TopSimilar(0, 5); len(got) != 0 {
		t.Errorf("TopSimilar on empty matrix = %v, want empty", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	_, vectors := vectorizer.Build(testCatalogBlobs())

	m1, err := Build(vectors, DefaultEagerThreshold)
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	m2, err := Build(vectors, DefaultEagerThreshold)
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}

	for i := 0; i < m1.Size(); i++ {
		for j := 0; j < m1.Size(); j++ {
			if m1.Score(i, j) != m2.Score(i, j) {
				t.Fatalf("rebuild not bit-identical at (%d,%d): %v vs %v", i, j, m1.Score(i, j), m2.Score(i, j))
			}
		}
	}
}

func TestTopSimilarExcludesSelf(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())
	for p := 0; p < m.Size(); p++ {
		for n := 1; n < m.Size(); n++ {
			for _, nb := range m.TopSimilar(p, n) {
				if nb.Position == p {
					t.Errorf("TopSimilar(%d, %d) includes the query position", p, n)
				}
			}
		}
	}
}

func TestTopSimilarExcludesSelfForExactDuplicate(t *testing.T) {
	// Two identical blobs score 1.0 against each other; excluding the query
	// position up front keeps the duplicate and drops the query itself.
	m := buildTestMatrix(t, []string{"Dune Herbert", "Dune Herbert", "Cooking Smith"})

	got := m.TopSimilar(1, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(got))
	}
	if got[0].Position != 0 {
		t.Errorf("expected duplicate at position 0 as best neighbor, got %d", got[0].Position)
	}
	if math.Abs(got[0].Score-1.0) > tolerance {
		t.Errorf("duplicate similarity = %v, want 1.0", got[0].Score)
	}
}

func TestTopSimilarOrdering(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())

	// Dune and Dune Messiah share title and author tokens, so each is the
	// other's nearest neighbor ahead of the unrelated books.
	got := m.TopSimilar(0, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(got))
	}
	if got[0].Position != 1 {
		t.Errorf("nearest neighbor of Dune = position %d, want 1", got[0].Position)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Score < got[i].Score {
			t.Errorf("neighbors not in descending score order: %v", got)
		}
	}
}

func TestTopSimilarTiesKeepColumnOrder(t *testing.T) {
	// Positions 1 and 2 are both orthogonal to position 0, so they tie at
	// score 0 and must come back in column order.
	m := buildTestMatrix(t, []string{"dune arrakis", "cooking pasta", "gardening roses"})

	got := m.TopSimilar(0, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(got))
	}
	if got[0].Position != 1 || got[1].Position != 2 {
		t.Errorf("tied neighbors out of column order: %v", got)
	}
}

func TestTopSimilarBounds(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())

	tests := []struct {
		name     string
		position int
		n        int
		wantLen  int
	}{
		{"negative position", -1, 3, 0},
		{"position out of range", m.Size(), 3, 0},
		{"zero n", 0, 0, 0},
		{"negative n", 0, -2, 0},
		{"n larger than catalog", 0, 50, m.Size() - 1},
		{"n equals one", 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.TopSimilar(tt.position, tt.n)
			if got == nil {
				t.Fatal("TopSimilar returned nil, want empty slice")
			}
			if len(got) != tt.wantLen {
				t.Errorf("TopSimilar(%d, %d) returned %d neighbors, want %d", tt.position, tt.n, len(got), tt.wantLen)
			}
		})
	}
}

func TestTopSimilarNilMatrix(t *testing.T) {
	var m *Matrix
	if got := m.TopSimilar(0, 5); len(got) != 0 {
		t.Errorf("nil matrix TopSimilar = %v, want empty", got)
	}
	if m.Size() != 0 {
		t.Errorf("nil matrix Size = %d, want 0", m.Size())
	}
}

func TestMatrixGobRoundTrip(t *testing.T) {
	m := buildTestMatrix(t, testCatalogBlobs())

	encoded, err := m.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode failed: %v", err)
	}

	var decoded Matrix
	if err := decoded.GobDecode(encoded); err != nil {
		t.Fatalf("GobDecode failed: %v", err)
	}

	if decoded.Size() != m.Size() {
		t.Fatalf("decoded Size = %d, want %d", decoded.Size(), m.Size())
	}
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if decoded.Score(i, j) != m.Score(i, j) {
				t.Errorf("decoded Score(%d,%d) = %v, want %v", i, j, decoded.Score(i, j), m.Score(i, j))
			}
		}
	}
}
