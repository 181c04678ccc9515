package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex = regexp.MustCompile(`[^\w\s/"-]`)
	dimensionRegex   = regexp.MustCompile(`^\d+x\d+(x\d+)?$|^\d+/\d+"?$|^\d+-\d+/\d+"?$`)
)

// Token weight categories for scoring
const (
	weightDimension = 3.0 // Dimension tokens (2x4, 7/16, 4x8)
	weightMaterial  = 2.0 // Material category terms (stud, joist, osb)
	weightDefault   = 1.0 // Everything else
)

// materialTerms contains lumberyard category keywords (weight 2.0)
var materialTerms = map[string]bool{
	"stud": true, "plate": true, "joist": true, "rafter": true, "header": true,
	"osb": true, "sheathing": true, "plywood": true, "sheet": true, "panel": true,
	"tie": true, "hurricane": true, "strap": true, "hanger": true, "anchor": true,
	"nail": true, "nails": true, "screw": true, "screws": true, "fastener": true,
	"lumber": true, "board": true, "beam": true, "post": true, "deck": true,
	"treated": true, "pressure": true, "exterior": true, "interior": true,
	"galvanized": true, "framing": true, "linear": true,
}

// similarityStopWords are unit and filler tokens that carry no matching signal
var similarityStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"in": true, "for": true, "per": true, "each": true, "ea": true,
	"lf": true, "ft": true, "feet": true, "foot": true, "lb": true, "lbs": true,
	"pound": true, "pounds": true, "pc": true, "pcs": true, "piece": true,
	"pieces": true, "pack": true, "box": true, "bundle": true, "count": true,
	"ct": true,
}

// Similarity scores how well two material phrases match on a 0-100 scale.
// Token-weighted: dimension tokens ("2x4", "7/16") matter most, material
// category terms next. Blends coverage of a's tokens in b (60%), coverage
// of b's tokens in a (20%), and weighted Jaccard (20%), plus a substring
// bonus. Near-miss tokens within edit distance 1 count at reduced weight.
func Similarity(a, b string) float64 {
	aTokens := tokenizeMaterial(a)
	bTokens := tokenizeMaterial(b)

	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	aMatched, aTotal := weightedCoverage(aTokens, bTokens)
	bMatched, bTotal := weightedCoverage(bTokens, aTokens)

	aCoverage := aMatched / aTotal
	bCoverage := bMatched / bTotal

	// Weights are per-phrase, so the ratio can drift past 1 when the two
	// phrases weigh a shared token differently; clamp it.
	union := aTotal + bTotal - aMatched
	jaccard := 0.0
	if union > 0 {
		jaccard = aMatched / union
		if jaccard > 1 {
			jaccard = 1
		}
	}

	score := (aCoverage*0.60 + bCoverage*0.20 + jaccard*0.20) * 100

	// Exact substring bonus for longer phrases
	aLower := strings.ToLower(strings.TrimSpace(a))
	bLower := strings.ToLower(strings.TrimSpace(b))
	if len(aLower) > 3 && (strings.Contains(bLower, aLower) || strings.Contains(aLower, bLower)) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// tokenizeMaterial splits a phrase into normalized lowercase tokens,
// keeping dimension punctuation (/, ", -) intact so "7/16" and "92-5/8"
// survive as single tokens.
func tokenizeMaterial(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	var tokens []string
	for _, word := range words {
		word = strings.Trim(word, `"-`)
		if len(word) == 0 {
			continue
		}
		if similarityStopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// tokenWeight returns the scoring weight for a single token.
func tokenWeight(token string) float64 {
	if dimensionRegex.MatchString(token) {
		return weightDimension
	}
	if materialTerms[token] {
		return weightMaterial
	}
	return weightDefault
}

// weightedCoverage returns the summed weight of tokens in a that appear in
// b (exact, or within edit distance 1 at 80% weight) and the total weight
// of a's tokens.
func weightedCoverage(a, b []string) (matched, total float64) {
	bSet := make(map[string]bool, len(b))
	for _, t := range b {
		bSet[t] = true
	}

	for _, t := range a {
		w := tokenWeight(t)
		total += w
		if bSet[t] {
			matched += w
			continue
		}
		for _, bt := range b {
			if fuzzyTokenMatch(t, bt, 1) {
				matched += w * 0.8
				break
			}
		}
	}
	return matched, total
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance
// threshold. Only applied to tokens of 4+ chars to avoid false positives.
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
