// Package seed loads the catalogue and the accounts the service starts
// with. The embedded default mirrors the shop's launch catalogue; a YAML
// file with the same layout can replace it. Seed files are only read.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bookstore/bookstore-api/internal/auth"
	"bookstore/bookstore-api/internal/catalogue"
)

//go:embed default.yaml
var defaultYAML []byte

type File struct {
	Books []BookEntry `yaml:"books"`
	Users []UserEntry `yaml:"users"`
}

type BookEntry struct {
	ID      string                 `yaml:"id"`
	ISBN    string                 `yaml:"isbn"`
	Author  string                 `yaml:"author"`
	Title   string                 `yaml:"title"`
	Reviews map[string]ReviewEntry `yaml:"reviews"`
}

type ReviewEntry struct {
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
}

type UserEntry struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
	Email        string `yaml:"email"`
}

// Load reads path, or the embedded default when path is empty.
func Load(path string) (File, error) {
	b := defaultYAML
	path = strings.TrimSpace(path)
	if path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read seed file: %w", err)
		}
	}
	return Parse(b)
}

func Parse(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	if err := f.validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f File) validate() error {
	ids := make(map[string]struct{}, len(f.Books))
	for i, b := range f.Books {
		if b.ID == "" || b.ISBN == "" || b.Title == "" {
			return fmt.Errorf("seed book #%d: id, isbn and title are required", i+1)
		}
		if _, dup := ids[b.ID]; dup {
			return fmt.Errorf("seed book %q: duplicate id", b.ID)
		}
		ids[b.ID] = struct{}{}
		for user, r := range b.Reviews {
			if r.Rating < catalogue.MinRating || r.Rating > catalogue.MaxRating {
				return fmt.Errorf("seed book %q: review by %q has rating %d outside [%d,%d]",
					b.ID, user, r.Rating, catalogue.MinRating, catalogue.MaxRating)
			}
		}
	}

	names := make(map[string]struct{}, len(f.Users))
	for _, u := range f.Users {
		if !auth.ValidUsername(u.Username) {
			return fmt.Errorf("seed user %q: invalid username", u.Username)
		}
		if _, dup := names[u.Username]; dup {
			return fmt.Errorf("seed user %q: duplicate username", u.Username)
		}
		names[u.Username] = struct{}{}
		if u.PasswordHash == "" {
			return fmt.Errorf("seed user %q: password_hash is required", u.Username)
		}
		if u.Role != auth.RoleAdmin && u.Role != auth.RoleUser {
			return fmt.Errorf("seed user %q: unknown role %q", u.Username, u.Role)
		}
	}
	return nil
}

// CatalogueBooks converts the seed books, stamping seeded reviews with at.
func (f File) CatalogueBooks(at time.Time) []catalogue.Book {
	out := make([]catalogue.Book, 0, len(f.Books))
	for _, b := range f.Books {
		reviews := make(map[string]catalogue.Review, len(b.Reviews))
		for user, r := range b.Reviews {
			reviews[user] = catalogue.Review{Rating: r.Rating, Comment: r.Comment, ReviewedAt: at}
		}
		out = append(out, catalogue.Book{
			ID:      b.ID,
			ISBN:    b.ISBN,
			Author:  b.Author,
			Title:   b.Title,
			Reviews: reviews,
		})
	}
	return out
}

func (f File) AuthUsers(at time.Time) []auth.User {
	out := make([]auth.User, 0, len(f.Users))
	for _, u := range f.Users {
		out = append(out, auth.User{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			Email:        u.Email,
			RegisteredAt: at,
		})
	}
	return out
}
