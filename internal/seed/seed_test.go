package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefault(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(f.Books) != 10 {
		t.Fatalf("expected 10 seeded books, got %d", len(f.Books))
	}
	if f.Books[0].ISBN != "978-0-123456-47-2" || f.Books[0].Title != "Things Fall Apart" {
		t.Fatalf("unexpected first book: %+v", f.Books[0])
	}
	if f.Books[6].Title != "Njál's Saga" || len(f.Books[6].Reviews) != 0 {
		t.Fatalf("unexpected seventh book: %+v", f.Books[6])
	}
	if f.Books[9].Title != "Molloy, Malone Dies, The Unnamable, the trilogy" {
		t.Fatalf("unexpected last title %q", f.Books[9].Title)
	}
	if len(f.Users) != 4 {
		t.Fatalf("expected 4 seeded users, got %d", len(f.Users))
	}
	for _, u := range f.Users {
		if !strings.HasPrefix(u.PasswordHash, "$2a$") {
			t.Fatalf("expected bcrypt hash for %s", u.Username)
		}
	}
}

func TestCatalogueBooksStampsReviews(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	books := f.CatalogueBooks(at)
	r, ok := books[0].Reviews["user1"]
	if !ok || r.Rating != 4 || !r.ReviewedAt.Equal(at) {
		t.Fatalf("unexpected seeded review: %+v", r)
	}
	users := f.AuthUsers(at)
	if users[0].Username != "admin" || users[0].Role != "admin" {
		t.Fatalf("unexpected first user: %+v", users[0])
	}
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "seed.yaml")
	content := `books:
  - id: "a"
    isbn: "111"
    author: Someone
    title: Small Catalogue
users: []
`
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(f.Books) != 1 || f.Books[0].ISBN != "111" {
		t.Fatalf("unexpected books: %+v", f.Books)
	}
}

func TestParseRejectsBadSeeds(t *testing.T) {
	cases := map[string]string{
		"missing isbn": `books: [{id: "1", title: T}]`,
		"duplicate id": `books: [{id: "1", isbn: a, title: T}, {id: "1", isbn: b, title: U}]`,
		"bad rating":   `books: [{id: "1", isbn: a, title: T, reviews: {u: {rating: 7, comment: c}}}]`,
		"bad username": `users: [{username: "x", password_hash: h, role: user}]`,
		"bad role":     `users: [{username: "reader", password_hash: h, role: owner}]`,
		"missing hash": `users: [{username: "reader", role: user}]`,
		"not yaml":     "books: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing seed file")
	}
}
