package service

import (
	"apodweb"
	"context"

	"apodweb/pkg/apod"
	"apodweb/pkg/repository"
)

// Picture fetches an APOD entry, today's or a random one.
type Picture interface {
	Fetch(ctx context.Context, mode apod.Mode) (*apodweb.Picture, error)
}

type Service struct {
	Picture
	favorites repository.Favorites
}

func NewService(pictures Picture, repos *repository.Repository) *Service {
	return &Service{
		Picture:   pictures,
		favorites: repos.Favorites,
	}
}
