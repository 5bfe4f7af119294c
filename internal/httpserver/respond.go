package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"bookstore/bookstore-api/internal/apperr"
	"bookstore/bookstore-api/internal/catalogue"
)

type body map[string]any

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, fields body) {
	if fields == nil {
		fields = body{}
	}
	fields["success"] = true
	fields["message"] = message
	writeJSON(w, status, fields)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeFailure(w, status, message, nil)
}

func writeFailure(w http.ResponseWriter, status int, message string, fields body) {
	if fields == nil {
		fields = body{}
	}
	fields["success"] = false
	fields["message"] = message
	writeJSON(w, status, fields)
}

// respondErr translates a domain error into its status and message.
// Unexpected errors are logged and answered with a generic message.
func respondErr(w http.ResponseWriter, r *http.Request, deps Deps, err error, fields body) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		deps.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFromContext(r.Context()),
			"err", err,
		)
	}
	writeFailure(w, status, apperr.Message(err), fields)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

// bookView is a book with its reviews and their count.
type bookView struct {
	catalogue.Book
	ReviewCount int `json:"reviewCount"`
}

func viewBook(b catalogue.Book) bookView {
	return bookView{Book: b, ReviewCount: len(b.Reviews)}
}

func viewBooks(books []catalogue.Book) []bookView {
	out := make([]bookView, 0, len(books))
	for _, b := range books {
		out = append(out, viewBook(b))
	}
	return out
}

type reviewView struct {
	Username   string     `json:"username"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

func viewReview(username string, r catalogue.Review) reviewView {
	v := reviewView{Username: username, Rating: r.Rating, Comment: r.Comment}
	if !r.ReviewedAt.IsZero() {
		at := r.ReviewedAt
		v.ReviewedAt = &at
	}
	return v
}
