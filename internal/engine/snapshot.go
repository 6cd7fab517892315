package engine

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/gcbaptista/go-book-recommender/internal/similarity"
	"github.com/gcbaptista/go-book-recommender/internal/vectorizer"
	"github.com/gcbaptista/go-book-recommender/store"
)

// Snapshot bundles the state built from one pass over the catalog sources:
// the cleaned catalog, the term-vector space, and the similarity index. A
// snapshot is immutable once installed; reloads build a fresh one and swap
// the engine's pointer, so readers always see a consistent catalog, vector
// space, and index.
type Snapshot struct {
	Catalog *store.Catalog
	Model   *vectorizer.Model
	Vectors []vectorizer.Vector

	// Matrix is nil when the catalog is too large for eager indexing or the
	// build failed; IndexErr records which.
	Matrix   *similarity.Matrix
	IndexErr error

	Generation uint64
	BuiltAt    time.Time
}

// IndexAvailable reports whether similarity queries can be served.
func (s *Snapshot) IndexAvailable() bool {
	return s != nil && s.Matrix != nil
}

// gobSnapshotData is a helper struct for Gob encoding/decoding Snapshot
// data. The similarity matrix is stored as its own encoded blob so its
// absence survives the round trip; IndexErr is derived again on load.
type gobSnapshotData struct {
	Catalog    *store.Catalog
	Model      *vectorizer.Model
	Vectors    []vectorizer.Vector
	HasMatrix  bool
	MatrixData []byte
	Generation uint64
	BuiltAt    time.Time
}

// GobEncode implements the gob.GobEncoder interface for Snapshot.
func (s *Snapshot) GobEncode() ([]byte, error) {
	dataToEncode := gobSnapshotData{
		Catalog:    s.Catalog,
		Model:      s.Model,
		Vectors:    s.Vectors,
		Generation: s.Generation,
		BuiltAt:    s.BuiltAt,
	}
	if s.Matrix != nil {
		raw, err := s.Matrix.GobEncode()
		if err != nil {
			return nil, fmt.Errorf("failed to gob encode similarity matrix: %w", err)
		}
		dataToEncode.HasMatrix = true
		dataToEncode.MatrixData = raw
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode snapshot data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for Snapshot.
func (s *Snapshot) GobDecode(data []byte) error {
	decodedData := gobSnapshotData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode snapshot data: %w", err)
	}

	s.Catalog = decodedData.Catalog
	s.Model = decodedData.Model
	s.Vectors = decodedData.Vectors
	s.Generation = decodedData.Generation
	s.BuiltAt = decodedData.BuiltAt
	s.Matrix = nil
	s.IndexErr = nil
	if decodedData.HasMatrix {
		matrix := &similarity.Matrix{}
		if err := matrix.GobDecode(decodedData.MatrixData); err != nil {
			return fmt.Errorf("failed to gob decode similarity matrix: %w", err)
		}
		s.Matrix = matrix
	}
	return nil
}
