package similarity

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/internal/vectorizer"
)

// DefaultEagerThreshold is the catalog size at which the dense pairwise
// computation is skipped: at or above it the quadratic matrix would cost too
// much memory, so the index reports itself unavailable and recommendation
// queries degrade to empty results.
const DefaultEagerThreshold = 5000

// Neighbor pairs a catalog position with its similarity score.
type Neighbor struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// Matrix is the dense pairwise cosine-similarity matrix over all catalog
// positions. Values are in [0,1]; the diagonal is 1 for every non-zero
// vector and 0 for zero vectors. Immutable after Build.
type Matrix struct {
	rows [][]float64
}

// Build computes the full pairwise similarity matrix for unit-normalized
// vectors. When len(vectors) is at or above threshold the computation is
// skipped entirely and an IndexUnavailableError is returned; callers must
// treat that as a valid degraded state, not a fault. A failure to allocate
// the matrix surfaces as ErrIndexBuildFailed instead. Rows are computed in
// parallel; each worker owns its whole row, so cell values never race and
// rebuilding from identical vectors is bit-identical.
func Build(vectors []vectorizer.Vector, threshold int) (m *Matrix, err error) {
	n := len(vectors)
	if threshold > 0 && n >= threshold {
		return nil, internalErrors.NewIndexUnavailableError(n, threshold)
	}
	if n == 0 {
		return &Matrix{rows: [][]float64{}}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("%w: %v", internalErrors.ErrIndexBuildFailed, r)
		}
	}()

	rows := make([][]float64, n)

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range vectors {
		g.Go(func() error {
			row := make([]float64, n)
			for j := range vectors {
				row[j] = vectors[i].Dot(vectors[j])
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", internalErrors.ErrIndexBuildFailed, err)
	}

	return &Matrix{rows: rows}, nil
}

// Size returns the number of catalog positions the matrix covers.
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Score returns the similarity between two catalog positions, or 0 when
// either position is out of range.
func (m *Matrix) Score(i, j int) float64 {
	if m == nil || i < 0 || i >= len(m.rows) || j < 0 || j >= len(m.rows) {
		return 0
	}
	return m.rows[i][j]
}

// TopSimilar returns up to n catalog positions most similar to the given
// position, ordered by score descending with ties kept in column order. The
// query position itself is excluded up front, which holds even for
// zero-vector rows and exact-duplicate books where "drop the best-scoring
// entry" would misfire. An out-of-range position or a nil matrix yields an
// empty slice.
func (m *Matrix) TopSimilar(position, n int) []Neighbor {
	if m == nil || position < 0 || position >= len(m.rows) || n <= 0 {
		return []Neighbor{}
	}

	row := m.rows[position]
	neighbors := make([]Neighbor, 0, len(row)-1)
	for j, score := range row {
		if j == position {
			continue
		}
		neighbors = append(neighbors, Neighbor{Position: j, Score: score})
	}

	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Score > neighbors[b].Score
	})

	if n < len(neighbors) {
		neighbors = neighbors[:n]
	}
	return neighbors
}

// GobEncode implements gob.GobEncoder so snapshots can persist the matrix
// despite its unexported rows.
func (m *Matrix) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.rows); err != nil {
		return nil, fmt.Errorf("failed to encode similarity rows: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *Matrix) GobDecode(data []byte) error {
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&m.rows); err != nil {
		return fmt.Errorf("failed to decode similarity rows: %w", err)
	}
	return nil
}
