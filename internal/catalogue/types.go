package catalogue

import (
	"math"
	"strings"
	"time"

	"bookstore/bookstore-api/internal/apperr"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// Book is a catalogue record. Reviews is keyed by reviewer username, so a
// user holds at most one review per book.
type Book struct {
	ID      string            `json:"id"`
	ISBN    string            `json:"isbn"`
	Author  string            `json:"author"`
	Title   string            `json:"title"`
	Reviews map[string]Review `json:"reviews"`
}

func (b Book) Clone() Book {
	out := b
	out.Reviews = make(map[string]Review, len(b.Reviews))
	for k, v := range b.Reviews {
		out.Reviews[k] = v
	}
	return out
}

func (b Book) Ref() BookRef {
	return BookRef{ID: b.ID, ISBN: b.ISBN, Author: b.Author, Title: b.Title}
}

func (b Book) Summary() Summary {
	return Summary{BookRef: b.Ref(), ReviewCount: len(b.Reviews)}
}

// BookRef identifies a book in responses that do not need its reviews.
type BookRef struct {
	ID     string `json:"id"`
	ISBN   string `json:"isbn"`
	Author string `json:"author"`
	Title  string `json:"title"`
}

type Summary struct {
	BookRef
	ReviewCount int `json:"reviewCount"`
}

type ReviewStats struct {
	Book    BookRef
	Count   int
	Average float64
	Reviews map[string]Review
}

type UserReview struct {
	Book     BookRef
	Username string
	Review   Review
}

type Action string

const (
	ActionAdded    Action = "added"
	ActionModified Action = "modified"
)

type ReviewInput struct {
	Rating  float64
	Comment string
}

// validate reports the integral rating or a validation error. A zero
// rating counts as missing.
func (in ReviewInput) validate() (int, error) {
	if in.Rating == 0 || strings.TrimSpace(in.Comment) == "" {
		return 0, apperr.Validation("Rating and comment are required")
	}
	if in.Rating != math.Trunc(in.Rating) || in.Rating < MinRating || in.Rating > MaxRating {
		return 0, apperr.Validation("Rating must be an integer between %d and %d", MinRating, MaxRating)
	}
	return int(in.Rating), nil
}

type UpsertResult struct {
	Book     BookRef
	Username string
	Review   Review
	Action   Action
}

type DeleteResult struct {
	Book      BookRef
	Username  string
	Review    Review
	Remaining int
}
