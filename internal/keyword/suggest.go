package keyword

import (
	"fmt"
	"strings"
)

// maxSuggestDistance bounds how far a correction may be from the typed term.
const maxSuggestDistance = 2

// Terms returns the indexed vocabulary with each term's document frequency.
func (c *ChunkIndex) Terms() (map[string]int, error) {
	dict, err := c.index.FieldDict(textField)
	if err != nil {
		return nil, fmt.Errorf("failed to read term dictionary: %w", err)
	}
	defer dict.Close()

	terms := make(map[string]int)
	for {
		entry, err := dict.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read term dictionary: %w", err)
		}
		if entry == nil {
			break
		}
		terms[entry.Term] = int(entry.Count)
	}
	return terms, nil
}

// Suggest returns query with every unknown term replaced by the closest indexed term,
// preferring smaller edit distance, then higher document frequency, then lexical order.
// ok is false when no term needed or received a correction.
func (c *ChunkIndex) Suggest(query string) (suggestion string, ok bool, err error) {
	terms, err := c.Terms()
	if err != nil {
		return "", false, err
	}

	words := tokenizeQuery(query)
	for i, word := range words {
		if _, known := terms[word]; known {
			continue
		}
		if best := closestTerm(word, terms); best != "" {
			words[i] = best
			ok = true
		}
	}
	if !ok {
		return query, false, nil
	}
	return strings.Join(words, " "), true, nil
}

func closestTerm(word string, terms map[string]int) string {
	best, bestDist, bestFreq := "", maxSuggestDistance+1, 0
	wordLen := len([]rune(word))
	for term, freq := range terms {
		diff := len([]rune(term)) - wordLen
		if diff > maxSuggestDistance || -diff > maxSuggestDistance {
			continue
		}
		d := EditDistance(word, term)
		if d < bestDist || (d == bestDist && (freq > bestFreq || (freq == bestFreq && term < best))) {
			best, bestDist, bestFreq = term, d, freq
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}

// EditDistance is the optimal string alignment distance between a and b: insertions,
// deletions, substitutions and adjacent transpositions each cost one edit. Runes, not bytes.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Three rolling rows: two back is needed for transpositions.
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(rb)]
}
