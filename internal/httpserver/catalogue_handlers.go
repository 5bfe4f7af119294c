package httpserver

import (
	"fmt"
	"net/http"

	"bookstore/bookstore-api/internal/catalogue"
)

func registerCatalogueHandlers(mux *http.ServeMux, deps Deps) {
	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if deps.Catalogue == nil {
				writeError(w, http.StatusServiceUnavailable, "catalogue unavailable")
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /books", guard(func(w http.ResponseWriter, r *http.Request) {
		books := deps.Catalogue.List()
		writeSuccess(w, http.StatusOK, "Books retrieved successfully", body{
			"count": len(books),
			"books": books,
		})
	}))

	mux.HandleFunc("GET /books/details", guard(func(w http.ResponseWriter, r *http.Request) {
		books := deps.Catalogue.Details()
		writeSuccess(w, http.StatusOK, "Complete book details retrieved successfully", body{
			"count": len(books),
			"books": viewBooks(books),
		})
	}))

	mux.HandleFunc("GET /books/{id}/reviews", guard(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		stats, err := deps.Catalogue.ReviewsByID(id)
		if err != nil {
			respondErr(w, r, deps, err, body{"bookId": id})
			return
		}
		writeReviewStats(w, fmt.Sprintf("Reviews retrieved for book ID: %s", id), stats)
	}))

	mux.HandleFunc("GET /isbn/{isbn}", guard(func(w http.ResponseWriter, r *http.Request) {
		isbn := r.PathValue("isbn")
		b, ok := deps.Catalogue.FindByISBN(isbn)
		if !ok {
			writeFailure(w, http.StatusNotFound, fmt.Sprintf("No book found with ISBN: %s", isbn), body{"isbn": isbn})
			return
		}
		writeSuccess(w, http.StatusOK, fmt.Sprintf("Book found with ISBN: %s", isbn), body{
			"book": viewBook(b),
		})
	}))

	mux.HandleFunc("GET /author/{author}", guard(func(w http.ResponseWriter, r *http.Request) {
		q := r.PathValue("author")
		writeSearch(w, q, deps.Catalogue.FindByAuthor(q),
			"Found %d book(s) by author: %s",
			"No books found by author: %s")
	}))

	mux.HandleFunc("GET /title/{title}", guard(func(w http.ResponseWriter, r *http.Request) {
		q := r.PathValue("title")
		writeSearch(w, q, deps.Catalogue.FindByTitle(q),
			"Found %d book(s) with title containing: %s",
			"No books found with title containing: %s")
	}))

	mux.HandleFunc("GET /title/exact/{title}", guard(func(w http.ResponseWriter, r *http.Request) {
		q := r.PathValue("title")
		writeSearch(w, q, deps.Catalogue.FindByExactTitle(q),
			"Found %d exact match(es) for title: %s",
			"No exact match found for title: %s")
	}))

	mux.HandleFunc("GET /review/{isbn}", guard(func(w http.ResponseWriter, r *http.Request) {
		isbn := r.PathValue("isbn")
		stats, err := deps.Catalogue.Reviews(isbn)
		if err != nil {
			respondErr(w, r, deps, err, body{"isbn": isbn})
			return
		}
		writeReviewStats(w, fmt.Sprintf("Reviews retrieved for book with ISBN: %s", isbn), stats)
	}))

	mux.HandleFunc("GET /review/{isbn}/user/{username}", guard(func(w http.ResponseWriter, r *http.Request) {
		isbn, username := r.PathValue("isbn"), r.PathValue("username")
		ur, err := deps.Catalogue.UserReview(isbn, username)
		if err != nil {
			respondErr(w, r, deps, err, body{"isbn": isbn, "username": username})
			return
		}
		writeSuccess(w, http.StatusOK, fmt.Sprintf("Review found for user %s on book with ISBN: %s", username, isbn), body{
			"book":   ur.Book,
			"review": viewReview(ur.Username, ur.Review),
		})
	}))
}

// writeSearch answers a search; an empty result is a 404 carrying the
// search term.
func writeSearch(w http.ResponseWriter, term string, books []catalogue.Book, foundFmt, missingFmt string) {
	if len(books) == 0 {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf(missingFmt, term), body{
			"searchTerm": term,
			"count":      0,
		})
		return
	}
	writeSuccess(w, http.StatusOK, fmt.Sprintf(foundFmt, len(books), term), body{
		"searchTerm": term,
		"count":      len(books),
		"books":      viewBooks(books),
	})
}

func writeReviewStats(w http.ResponseWriter, message string, stats catalogue.ReviewStats) {
	writeSuccess(w, http.StatusOK, message, body{
		"book":          stats.Book,
		"reviewCount":   stats.Count,
		"averageRating": stats.Average,
		"reviews":       stats.Reviews,
	})
}
