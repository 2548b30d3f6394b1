package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsync/internal/model"
)

type CacheSuite struct {
	suite.Suite
	ctx context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *CacheSuite) TestFetchesOnce() {
	calls := 0
	cache := New(func(ctx context.Context) ([]model.Brand, error) {
		calls++
		return []model.Brand{{ID: "brand-1", Name: "Acme"}}, nil
	})

	for i := 0; i < 3; i++ {
		brands, err := cache.Get(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(brands, 1)
		s.Equal("brand-1", brands[0].ID)
	}
	s.Equal(1, calls)
}

func (s *CacheSuite) TestDefaultCatalogWhenUnpublished() {
	cache := New(func(ctx context.Context) ([]model.Brand, error) {
		return nil, nil
	})

	brands, err := cache.Get(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(brands, 1)
	s.Equal("default", brands[0].ID)
	s.Len(brands[0].Missions, 3)
}

func (s *CacheSuite) TestFetchErrorNotCached() {
	calls := 0
	cache := New(func(ctx context.Context) ([]model.Brand, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("remote down")
		}
		return []model.Brand{{ID: "brand-1"}}, nil
	})

	_, err := cache.Get(s.ctx)
	s.Require().Error(err)

	brands, err := cache.Get(s.ctx)
	s.Require().NoError(err)
	s.Len(brands, 1)
	s.Equal(2, calls)
}

func (s *CacheSuite) TestBrandLookup() {
	cache := New(func(ctx context.Context) ([]model.Brand, error) {
		return []model.Brand{
			{ID: "brand-1", Name: "Acme"},
			{ID: "brand-2", Name: "Globex"},
		}, nil
	})

	brand, err := cache.Brand(s.ctx, "brand-2")
	s.Require().NoError(err)
	s.Equal("Globex", brand.Name)

	_, err = cache.Brand(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrBrandNotFound)
}

func (s *CacheSuite) TestInvalidateForcesRefetch() {
	calls := 0
	cache := New(func(ctx context.Context) ([]model.Brand, error) {
		calls++
		return []model.Brand{{ID: "brand-1"}}, nil
	})

	_, err := cache.Get(s.ctx)
	s.Require().NoError(err)

	cache.Invalidate()

	_, err = cache.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, calls)
}
