// Package vectorizer converts book metadata blobs into TF-IDF weighted,
// unit-normalized sparse term vectors. Weighting uses smoothed IDF,
// ln((1+N)/(1+df)), so a term present in every book carries zero weight and
// rare terms dominate. Unit L2 normalization makes a plain dot product
// between two vectors equal their cosine similarity.
package vectorizer

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-book-recommender/internal/tokenizer"
)

// Term is one non-zero component of a sparse vector: a vocabulary term ID
// and its weight.
type Term struct {
	ID     int
	Weight float64
}

// Vector is a sparse term vector sorted by term ID. Every vector built from
// at least one weighted token has unit L2 norm; a blob with no surviving
// tokens yields an empty vector, which behaves as the zero vector (dot
// products against it are 0, never a division fault).
type Vector []Term

// Model holds the fitted vocabulary and corpus statistics. Term IDs are
// assigned in sorted term order, so fitting identical blobs twice produces
// bit-identical models and vectors.
type Model struct {
	Vocabulary map[string]int
	IDF        []float64
	Documents  int
}

// Build tokenizes every blob, fits the vocabulary and document frequencies
// over the whole corpus, and returns one weighted vector per blob in input
// order.
func Build(blobs []string) (*Model, []Vector) {
	n := len(blobs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)

	for i, blob := range blobs {
		tf := make(map[string]int)
		for _, token := range tokenizer.Tokenize(blob) {
			tf[token]++
		}
		counts[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for id, term := range terms {
		vocabulary[term] = id
		idf[id] = math.Log(float64(1+n) / float64(1+df[term]))
	}

	vectors := make([]Vector, n)
	for i, tf := range counts {
		vectors[i] = buildVector(tf, vocabulary, idf)
	}

	model := &Model{Vocabulary: vocabulary, IDF: idf, Documents: n}
	return model, vectors
}

// buildVector weights one document's term counts and normalizes the result
// to unit length. Terms whose weight rounds to zero (IDF 0, term in every
// document) are omitted from the sparse form.
func buildVector(tf map[string]int, vocabulary map[string]int, idf []float64) Vector {
	vec := make(Vector, 0, len(tf))
	for term, count := range tf {
		id := vocabulary[term]
		weight := float64(count) * idf[id]
		if weight > 0 {
			vec = append(vec, Term{ID: id, Weight: weight})
		}
	}
	sort.Slice(vec, func(a, b int) bool { return vec[a].ID < vec[b].ID })

	// Summation happens in term ID order so rebuilds are bit-identical.
	var sum float64
	for _, t := range vec {
		sum += t.Weight * t.Weight
	}
	if sum == 0 {
		return Vector{}
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i].Weight /= norm
	}
	return vec
}

// Dot returns the dot product of two sparse vectors. For unit-normalized
// vectors this is their cosine similarity.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(other) {
		switch {
		case v[i].ID == other[j].ID:
			sum += v[i].Weight * other[j].Weight
			i++
			j++
		case v[i].ID < other[j].ID:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	return math.Sqrt(sum)
}

// IsZero reports whether the vector has no non-zero components.
func (v Vector) IsZero() bool {
	return len(v) == 0
}
