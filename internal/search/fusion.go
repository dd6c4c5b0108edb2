package search

import (
	"sort"

	"github.com/hyperjump/vecstore/internal/models"
)

// Weights scale the keyword and semantic components of a fused score.
type Weights struct {
	Keyword  float64
	Semantic float64
}

// resultKey identifies a chunk within a library; chunk ids are only unique per document.
type resultKey struct {
	documentID string
	chunkID    string
}

func keyOf(r *models.SearchResult) resultKey {
	return resultKey{documentID: r.DocumentID, chunkID: r.Chunk.ID}
}

// NormalizeKeywordScores maps each hit to its score divided by the best score, so the top
// keyword hit scores 1.
func NormalizeKeywordScores(results []models.SearchResult) map[resultKey]float64 {
	normalized := make(map[resultKey]float64, len(results))
	var maxScore float64
	for i := range results {
		if results[i].Score > maxScore {
			maxScore = results[i].Score
		}
	}
	for i := range results {
		if maxScore > 0 {
			normalized[keyOf(&results[i])] = results[i].Score / maxScore
		} else {
			normalized[keyOf(&results[i])] = 0
		}
	}
	return normalized
}

// DistanceToSimilarity maps a Euclidean distance to (0,1]; distance 0 is similarity 1.
func DistanceToSimilarity(d float64) float64 {
	return 1 / (1 + d)
}

// Fuse merges keyword and vector hits for the same library into one ranking by weighted
// score. Ties are broken by document id, then chunk id. At most k results are returned,
// ranked from 1.
func Fuse(keywordResults, vectorResults []models.SearchResult, w Weights, k int) []models.SearchResult {
	keywordScores := NormalizeKeywordScores(keywordResults)
	merged := make(map[resultKey]*models.SearchResult, len(keywordResults)+len(vectorResults))

	for i := range keywordResults {
		r := keywordResults[i]
		r.KeywordScore = keywordScores[keyOf(&r)]
		merged[keyOf(&r)] = &r
	}
	for i := range vectorResults {
		key := keyOf(&vectorResults[i])
		sim := DistanceToSimilarity(vectorResults[i].Distance)
		if existing, ok := merged[key]; ok {
			existing.SemanticScore = sim
			existing.Distance = vectorResults[i].Distance
			continue
		}
		r := vectorResults[i]
		r.SemanticScore = sim
		merged[key] = &r
	}

	fused := make([]models.SearchResult, 0, len(merged))
	for _, r := range merged {
		r.Score = w.Keyword*r.KeywordScore + w.Semantic*r.SemanticScore
		fused = append(fused, *r)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		if fused[i].DocumentID != fused[j].DocumentID {
			return fused[i].DocumentID < fused[j].DocumentID
		}
		return fused[i].Chunk.ID < fused[j].Chunk.ID
	})
	if k >= 0 && len(fused) > k {
		fused = fused[:k]
	}
	for i := range fused {
		fused[i].Rank = i + 1
	}
	return fused
}
