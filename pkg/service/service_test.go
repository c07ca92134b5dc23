package service

import (
	"apodweb"
	"context"
	"testing"

	"apodweb/pkg/apod"
	"apodweb/pkg/repository"

	"github.com/stretchr/testify/require"
)

type fakePictures struct {
	modes []apod.Mode
	err   error
}

func (f *fakePictures) Fetch(_ context.Context, mode apod.Mode) (*apodweb.Picture, error) {
	f.modes = append(f.modes, mode)
	if f.err != nil {
		return nil, f.err
	}
	return &apodweb.Picture{Date: "2016-02-01", URL: "http://x/y.jpg"}, nil
}

func TestRequestPicture(t *testing.T) {

	f := &fakePictures{}
	s := NewService(f, repository.NewRepository(nil))

	for _, pt := range []string{"random", "today", "", "Random"} {
		_, err := s.RequestPicture(context.Background(), pt)
		require.NoError(t, err)
	}

	require.Equal(t, []apod.Mode{apod.Random, apod.Today, apod.Today, apod.Random}, f.modes)
}

func TestFailedFetchKeepsFavorites(t *testing.T) {

	f := &fakePictures{}
	s := NewService(f, repository.NewRepository(nil))
	ctx := context.Background()

	added, err := s.AddFavorite(ctx, "s1", &apodweb.Picture{Date: "2016-02-01", Title: "kept"})
	require.NoError(t, err)
	require.True(t, added)

	f.err = &apod.Error{Kind: apod.Transport}
	_, err = s.RequestPicture(ctx, "random")
	require.True(t, apod.IsKind(err, apod.Transport))

	list, err := s.ListFavorites(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "kept", list[0].Title)
}

func TestAddFavorite(t *testing.T) {

	s := NewService(&fakePictures{}, repository.NewRepository(nil))
	ctx := context.Background()

	tests := []struct {
		name     string
		picture  *apodweb.Picture
		expected bool
		err      error
	}{
		{name: "nil", picture: nil, err: ErrInvalidFavorite},
		{name: "no date", picture: &apodweb.Picture{Title: "x"}, err: ErrInvalidFavorite},
		{name: "before first apod", picture: &apodweb.Picture{Date: "1990-01-01"}, err: ErrInvalidFavorite},
		{name: "ok", picture: &apodweb.Picture{Date: "2016-02-01", Title: "first"}, expected: true},
		{name: "same date", picture: &apodweb.Picture{Date: "2016-02-01", Title: "second"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, err := s.AddFavorite(ctx, "s1", tt.picture)
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, tt.expected, added)
		})
	}

	list, err := s.ListFavorites(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "first", list[0].Title)
}
