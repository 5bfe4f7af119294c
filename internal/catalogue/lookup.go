package catalogue

import (
	"math"
	"strings"
)

// Searches are linear scans over the seeded books; there is no index.

func matchesFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// averageRating returns the mean rating rounded to one decimal, or 0 for
// no reviews.
func averageRating(reviews map[string]Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}

func filterBooks(books []*Book, keep func(*Book) bool) []Book {
	out := make([]Book, 0)
	for _, b := range books {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}
