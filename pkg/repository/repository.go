package repository

import (
	"apodweb"
	"context"

	"github.com/jmoiron/sqlx"
)

// Favorites keeps the pictures a session saved, in the order they were saved.
// A session holds at most one picture per date.
type Favorites interface {
	// Add appends p unless the session already has a picture for p.Date.
	// It reports whether p was stored.
	Add(ctx context.Context, session string, p *apodweb.Picture) (bool, error)
	// List returns the session favorites in insertion order.
	List(ctx context.Context, session string) ([]apodweb.Picture, error)
}

type Repository struct {
	Favorites
}

// NewRepository keeps favorites in the database when db is set and in memory otherwise.
func NewRepository(db *sqlx.DB) *Repository {
	if db == nil {
		return &Repository{
			Favorites: NewMemory(),
		}
	}

	return &Repository{
		Favorites: NewSQL(db),
	}
}
