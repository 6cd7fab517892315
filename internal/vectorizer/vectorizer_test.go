package vectorizer

import (
	"math"
	"reflect"
	"testing"
)

const tolerance = 1e-9

func testBlobs() []string {
	return []string{
		"Dune Herbert, Frank Chilton Books",
		"Dune Messiah Herbert, Frank Putnam",
		"Cooking 101 Smith Kitchen Press",
	}
}

func TestBuildVectorCountMatchesInput(t *testing.T) {
	blobs := testBlobs()
	_, vectors := Build(blobs)
	if len(vectors) != len(blobs) {
		t.Fatalf("expected %d vectors, got %d", len(blobs), len(vectors))
	}
}

func TestBuildUnitNorms(t *testing.T) {
	_, vectors := Build(testBlobs())
	for i, vec := range vectors {
		norm := vec.Norm()
		if math.Abs(norm-1.0) > tolerance {
			t.Errorf("vector %d: norm = %v, want 1.0", i, norm)
		}
	}
}

func TestBuildEmptyBlobYieldsZeroVector(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"stopwords only", "The And Of"},
		{"punctuation only", "!!! --- ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, vectors := Build([]string{"Dune Herbert", tt.blob, "Cooking Smith"})
			if !vectors[1].IsZero() {
				t.Errorf("blob %q: expected zero vector, got %v", tt.blob, vectors[1])
			}
			if got := vectors[1].Dot(vectors[0]); got != 0 {
				t.Errorf("zero vector dot product = %v, want 0", got)
			}
			if got := vectors[1].Norm(); got != 0 {
				t.Errorf("zero vector norm = %v, want 0", got)
			}
		})
	}
}

func TestBuildUbiquitousTermCarriesZeroWeight(t *testing.T) {
	// "herbert" appears in every blob, so its smoothed IDF is exactly zero
	// and it is omitted from every sparse vector.
	model, vectors := Build([]string{
		"Dune Herbert",
		"Messiah Herbert",
		"Cooking Herbert",
	})

	id, ok := model.Vocabulary["herbert"]
	if !ok {
		t.Fatal("expected 'herbert' in vocabulary")
	}
	if got := model.IDF[id]; got != 0 {
		t.Errorf("IDF of ubiquitous term = %v, want 0", got)
	}
	for i, vec := range vectors {
		for _, term := range vec {
			if term.ID == id {
				t.Errorf("vector %d contains ubiquitous term with weight %v", i, term.Weight)
			}
		}
	}
}

func TestBuildRareTermOutweighsCommonTerm(t *testing.T) {
	model, _ := Build([]string{
		"dune arrakis",
		"dune caladan",
		"dune giedi",
		"solaris lem",
	})

	duneID := model.Vocabulary["dune"]
	solarisID := model.Vocabulary["solaris"]
	if model.IDF[duneID] >= model.IDF[solarisID] {
		t.Errorf("IDF(dune)=%v should be below IDF(solaris)=%v", model.IDF[duneID], model.IDF[solarisID])
	}
}

func TestBuildVocabularyIDsFollowSortedTermOrder(t *testing.T) {
	model, _ := Build([]string{"zebra apple", "mango apple"})

	appleID := model.Vocabulary["apple"]
	mangoID := model.Vocabulary["mango"]
	zebraID := model.Vocabulary["zebra"]
	if !(appleID < mangoID && mangoID < zebraID) {
		t.Errorf("IDs not in sorted term order: apple=%d mango=%d zebra=%d", appleID, mangoID, zebraID)
	}
}

func TestBuildVectorsSortedByTermID(t *testing.T) {
	_, vectors := Build(testBlobs())
	for i, vec := range vectors {
		for j := 1; j < len(vec); j++ {
			if vec[j-1].ID >= vec[j].ID {
				t.Errorf("vector %d not sorted by term ID at %d: %v", i, j, vec)
			}
		}
	}
}

func TestDotSharedTermsBeatDisjointTerms(t *testing.T) {
	_, vectors := Build(testBlobs())

	duneToDuneMessiah := vectors[0].Dot(vectors[1])
	duneToCooking := vectors[0].Dot(vectors[2])
	if duneToDuneMessiah <= duneToCooking {
		t.Errorf("shared-token similarity %v not above disjoint similarity %v", duneToDuneMessiah, duneToCooking)
	}
	if duneToCooking != 0 {
		t.Errorf("disjoint blobs similarity = %v, want 0", duneToCooking)
	}
}

func TestDotSelfSimilarityIsOne(t *testing.T) {
	_, vectors := Build(testBlobs())
	for i, vec := range vectors {
		got := vec.Dot(vec)
		if math.Abs(got-1.0) > tolerance {
			t.Errorf("vector %d: self dot = %v, want 1.0", i, got)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	blobs := testBlobs()

	model1, vectors1 := Build(blobs)
	model2, vectors2 := Build(blobs)

	if !reflect.DeepEqual(model1, model2) {
		t.Error("models differ across identical builds")
	}
	if !reflect.DeepEqual(vectors1, vectors2) {
		t.Error("vectors differ across identical builds")
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	model, vectors := Build(nil)
	if len(vectors) != 0 {
		t.Errorf("expected no vectors, got %d", len(vectors))
	}
	if len(model.Vocabulary) != 0 {
		t.Errorf("expected empty vocabulary, got %d terms", len(model.Vocabulary))
	}
}
