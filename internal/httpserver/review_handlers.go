package httpserver

import (
	"fmt"
	"net/http"

	"bookstore/bookstore-api/internal/apperr"
	"bookstore/bookstore-api/internal/auth"
	"bookstore/bookstore-api/internal/catalogue"
)

func registerReviewHandlers(mux *http.ServeMux, deps Deps) {
	protected := func(next identityHandler) http.HandlerFunc {
		return requireIdentity(deps, func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
			if deps.Catalogue == nil {
				writeError(w, http.StatusServiceUnavailable, "catalogue unavailable")
				return
			}
			next(w, r, id)
		})
	}

	mux.HandleFunc("PUT /auth/review/{isbn}", protected(func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
		isbn := r.PathValue("isbn")
		var req struct {
			Rating  float64 `json:"rating"`
			Comment string  `json:"comment"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondErr(w, r, deps, err, nil)
			return
		}

		res, err := deps.Catalogue.UpsertReview(isbn, id.Username, catalogue.ReviewInput{Rating: req.Rating, Comment: req.Comment})
		if err != nil {
			auditReq(deps.Audit, r, id.Username, "review.upsert", isbn, "failed", apperr.Message(err))
			respondErr(w, r, deps, err, nil)
			return
		}
		auditReq(deps.Audit, r, id.Username, "review.upsert", isbn, "success", string(res.Action))

		writeSuccess(w, http.StatusOK, fmt.Sprintf("Review %s successfully", res.Action), body{
			"book":   res.Book,
			"review": viewReview(res.Username, res.Review),
			"action": res.Action,
		})
	}))

	mux.HandleFunc("DELETE /auth/review/{isbn}/{username}", protected(func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
		isbn, target := r.PathValue("isbn"), r.PathValue("username")
		if err := auth.AuthorizeOwnership(id.Username, target); err != nil {
			auditReq(deps.Audit, r, id.Username, "review.delete", isbn+"/"+target, "forbidden", "")
			respondErr(w, r, deps, err, nil)
			return
		}
		deleteReview(w, r, deps, id, isbn, "Review deleted successfully")
	}))

	mux.HandleFunc("DELETE /auth/review/{isbn}", protected(func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
		deleteReview(w, r, deps, id, r.PathValue("isbn"), "Your review deleted successfully")
	}))

	mux.HandleFunc("GET /auth/my-reviews", protected(func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
		mine := deps.Catalogue.ReviewsByUser(id.Username)
		items := make([]body, 0, len(mine))
		for _, ur := range mine {
			items = append(items, body{
				"bookId": ur.Book.ID,
				"isbn":   ur.Book.ISBN,
				"author": ur.Book.Author,
				"title":  ur.Book.Title,
				"review": viewReview(ur.Username, ur.Review),
			})
		}
		writeSuccess(w, http.StatusOK, fmt.Sprintf("Found %d reviews by user: %s", len(items), id.Username), body{
			"username":    id.Username,
			"reviewCount": len(items),
			"reviews":     items,
		})
	}))

	mux.HandleFunc("DELETE /auth/reviews/all", protected(func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
		deleted, err := deps.Catalogue.DeleteUserReviews(id.Username)
		if err != nil {
			respondErr(w, r, deps, err, nil)
			return
		}
		items := make([]body, 0, len(deleted))
		for _, ur := range deleted {
			items = append(items, body{
				"bookId":        ur.Book.ID,
				"isbn":          ur.Book.ISBN,
				"title":         ur.Book.Title,
				"deletedReview": viewReview(ur.Username, ur.Review),
			})
		}
		auditReq(deps.Audit, r, id.Username, "review.delete_all", "", "success", fmt.Sprintf("count=%d", len(items)))

		writeSuccess(w, http.StatusOK, fmt.Sprintf("Successfully deleted %d review(s)", len(items)), body{
			"username":       id.Username,
			"deletedCount":   len(items),
			"deletedReviews": items,
		})
	}))
}

func deleteReview(w http.ResponseWriter, r *http.Request, deps Deps, id auth.Identity, isbn, message string) {
	res, err := deps.Catalogue.DeleteReview(isbn, id.Username)
	if err != nil {
		auditReq(deps.Audit, r, id.Username, "review.delete", isbn, "failed", apperr.Message(err))
		respondErr(w, r, deps, err, nil)
		return
	}
	auditReq(deps.Audit, r, id.Username, "review.delete", isbn, "success", "")

	writeSuccess(w, http.StatusOK, message, body{
		"book":             res.Book,
		"deletedReview":    viewReview(res.Username, res.Review),
		"remainingReviews": res.Remaining,
	})
}
