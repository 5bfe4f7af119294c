package catalogue

import (
	"strings"
	"sync"
	"time"

	"bookstore/bookstore-api/internal/apperr"
)

// Store owns the in-memory catalogue. Readers share the lock; review
// mutations take it exclusively, so concurrent upserts for the same user
// and book never lose an update. Every returned value is a copy.
type Store struct {
	nowFunc func() time.Time

	mu    sync.RWMutex
	books []*Book
}

// NewStore seeds a store with books in the given order.
func NewStore(books []Book) *Store {
	s := &Store{nowFunc: time.Now}
	s.books = make([]*Book, 0, len(books))
	for _, b := range books {
		c := b.Clone()
		s.books = append(s.books, &c)
	}
	return s
}

func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b.Summary())
	}
	return out
}

func (s *Store) Details() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBooks(s.books, func(*Book) bool { return true })
}

// FindByISBN returns the first book in seed order whose ISBN matches
// exactly.
func (s *Store) FindByISBN(isbn string) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.byISBNLocked(isbn)
	if b == nil {
		return Book{}, false
	}
	return b.Clone(), true
}

func (s *Store) FindByID(id string) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.books {
		if b.ID == id {
			return b.Clone(), true
		}
	}
	return Book{}, false
}

func (s *Store) FindByAuthor(query string) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBooks(s.books, func(b *Book) bool { return matchesFold(b.Author, query) })
}

func (s *Store) FindByTitle(query string) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBooks(s.books, func(b *Book) bool { return matchesFold(b.Title, query) })
}

func (s *Store) FindByExactTitle(title string) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBooks(s.books, func(b *Book) bool { return strings.EqualFold(b.Title, title) })
}

func (s *Store) Reviews(isbn string) (ReviewStats, error) {
	b, ok := s.FindByISBN(isbn)
	if !ok {
		return ReviewStats{}, apperr.NotFound("No book found with ISBN: %s", isbn)
	}
	return statsFor(b), nil
}

func (s *Store) ReviewsByID(id string) (ReviewStats, error) {
	b, ok := s.FindByID(id)
	if !ok {
		return ReviewStats{}, apperr.NotFound("No book found with ID: %s", id)
	}
	return statsFor(b), nil
}

func statsFor(b Book) ReviewStats {
	return ReviewStats{
		Book:    b.Ref(),
		Count:   len(b.Reviews),
		Average: averageRating(b.Reviews),
		Reviews: b.Reviews,
	}
}

func (s *Store) UserReview(isbn, username string) (UserReview, error) {
	b, ok := s.FindByISBN(isbn)
	if !ok {
		return UserReview{}, apperr.NotFound("No book found with ISBN: %s", isbn)
	}
	r, ok := b.Reviews[username]
	if !ok {
		return UserReview{}, apperr.NotFound("No review found for user %s on book with ISBN: %s", username, isbn)
	}
	return UserReview{Book: b.Ref(), Username: username, Review: r}, nil
}

// ReviewsByUser lists every review written by username, in seed order.
func (s *Store) ReviewsByUser(username string) []UserReview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]UserReview, 0)
	for _, b := range s.books {
		if r, ok := b.Reviews[username]; ok {
			out = append(out, UserReview{Book: b.Ref(), Username: username, Review: r})
		}
	}
	return out
}

// UpsertReview adds or replaces the review username holds on the book.
// Input is validated before the store is touched.
func (s *Store) UpsertReview(isbn, username string, in ReviewInput) (UpsertResult, error) {
	rating, err := in.validate()
	if err != nil {
		return UpsertResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.byISBNLocked(isbn)
	if b == nil {
		return UpsertResult{}, apperr.NotFound("No book found with ISBN: %s", isbn)
	}

	action := ActionAdded
	if _, ok := b.Reviews[username]; ok {
		action = ActionModified
	}
	r := Review{
		Rating:     rating,
		Comment:    in.Comment,
		ReviewedAt: s.nowFunc().UTC(),
	}
	if b.Reviews == nil {
		b.Reviews = make(map[string]Review)
	}
	b.Reviews[username] = r

	return UpsertResult{Book: b.Ref(), Username: username, Review: r, Action: action}, nil
}

func (s *Store) DeleteReview(isbn, username string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.byISBNLocked(isbn)
	if b == nil {
		return DeleteResult{}, apperr.NotFound("No book found with ISBN: %s", isbn)
	}
	r, ok := b.Reviews[username]
	if !ok {
		return DeleteResult{}, apperr.NotFound("No review found for user %s on book with ISBN: %s", username, isbn)
	}
	delete(b.Reviews, username)

	return DeleteResult{Book: b.Ref(), Username: username, Review: r, Remaining: len(b.Reviews)}, nil
}

// DeleteUserReviews removes every review by username across the catalogue.
func (s *Store) DeleteUserReviews(username string) ([]UserReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := make([]UserReview, 0)
	for _, b := range s.books {
		r, ok := b.Reviews[username]
		if !ok {
			continue
		}
		delete(b.Reviews, username)
		deleted = append(deleted, UserReview{Book: b.Ref(), Username: username, Review: r})
	}
	if len(deleted) == 0 {
		return nil, apperr.NotFound("No reviews found to delete for your account")
	}
	return deleted, nil
}

func (s *Store) byISBNLocked(isbn string) *Book {
	for _, b := range s.books {
		if b.ISBN == isbn {
			return b
		}
	}
	return nil
}
