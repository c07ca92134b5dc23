package service

import (
	"apodweb"
	"context"
	"errors"
	"fmt"

	"apodweb/pkg/apod"
)

// ErrInvalidFavorite is returned for favorites without a usable date.
var ErrInvalidFavorite = errors.New("favorite needs a date in YYYY-MM-DD format, not before 1995-06-16")

// RequestPicture fetches a picture for the picturetype value "today" or "random".
func (s *Service) RequestPicture(ctx context.Context, pictureType string) (*apodweb.Picture, error) {
	return s.Fetch(ctx, apod.ParseMode(pictureType))
}

// AddFavorite saves p for the session unless a favorite with the same date exists.
func (s *Service) AddFavorite(ctx context.Context, session string, p *apodweb.Picture) (bool, error) {
	if p == nil || !apod.IsValidDate(p.Date) {
		return false, ErrInvalidFavorite
	}

	added, err := s.favorites.Add(ctx, session, p)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}

	return added, nil
}

func (s *Service) ListFavorites(ctx context.Context, session string) ([]apodweb.Picture, error) {
	list, err := s.favorites.List(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return list, nil
}
