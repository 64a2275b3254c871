// Package similarity decides whether two event records report the same real-world happening.
//
// The predicate is pure, symmetric and total. It is deliberately biased toward
// "no match" over a false match: a field that is empty on either side scores 0
// and fails the text floor.
package similarity

import (
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxTimeDifference is the largest start (and end) time difference between similar events
	MaxTimeDifference = 60 * time.Minute

	// MinTextSimilarity is the cosine similarity floor applied to name, description and location
	MinTextSimilarity = 0.10
)

var wordPattern = regexp.MustCompile(`\w+`)

// Record is the subset of an event the predicate looks at
type Record struct {
	StartDateTime time.Time
	EndDateTime   time.Time
	Name          string
	Description   string
	Location      string
}

// IsSimilar reports whether a and b are the same happening reported twice
func IsSimilar(a, b Record) bool {
	// Cheap rejects before any text work
	if absDuration(a.StartDateTime.Sub(b.StartDateTime)) > MaxTimeDifference {
		return false
	}
	if absDuration(a.EndDateTime.Sub(b.EndDateTime)) > MaxTimeDifference {
		return false
	}

	pairs := [][2]string{
		{a.Name, b.Name},
		{a.Description, b.Description},
		{a.Location, b.Location},
	}
	for _, p := range pairs {
		if TextSimilarity(p[0], p[1]) < MinTextSimilarity {
			return false
		}
	}

	return true
}

// TextSimilarity returns the bag-of-words cosine similarity of two strings, 0 if either has no tokens
func TextSimilarity(a, b string) float64 {
	return cosine(termFrequencies(a), termFrequencies(b))
}

// Tokenize splits text into lowercase word tokens
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

func termFrequencies(text string) map[string]float64 {
	tokens := Tokenize(text)
	freq := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		freq[token]++
	}
	return freq
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map for the dot product
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	var dot float64
	for token, count := range small {
		dot += count * large[token]
	}

	normA, normB := norm(a), norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (normA * normB)
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, count := range v {
		sum += count * count
	}
	return math.Sqrt(sum)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
