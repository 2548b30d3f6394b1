package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsync/internal/kv"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *StoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(s.ctx, "points")
	s.ErrorIs(err, kv.ErrKeyNotFound)
}

func (s *StoreSuite) TestSetAndGet() {
	s.Require().NoError(s.store.Set(s.ctx, "points", "5"))

	value, err := s.store.Get(s.ctx, "points")
	s.Require().NoError(err)
	s.Equal("5", value)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.Set(s.ctx, "points", "5"))
	s.Require().NoError(s.store.Delete(s.ctx, "points"))

	_, err := s.store.Get(s.ctx, "points")
	s.ErrorIs(err, kv.ErrKeyNotFound)
}

func (s *StoreSuite) TestFailWrites() {
	boom := errors.New("disk full")
	s.store.FailWrites(boom)

	s.ErrorIs(s.store.Set(s.ctx, "points", "5"), boom)
	s.ErrorIs(s.store.Delete(s.ctx, "points"), boom)

	// Reads still work, and recovery restores writes
	_, err := s.store.Get(s.ctx, "points")
	s.ErrorIs(err, kv.ErrKeyNotFound)

	s.store.FailWrites(nil)
	s.NoError(s.store.Set(s.ctx, "points", "5"))
}
