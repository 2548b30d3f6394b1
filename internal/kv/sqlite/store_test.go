package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsync/internal/kv"
)

type StoreSuite struct {
	suite.Suite
	path  string
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "pointsync.db")

	store, err := Open(s.path)
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreSuite) TestOpenRequiresPath() {
	_, err := Open("")
	s.Error(err)
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

func (s *StoreSuite) TestSetOverwrites() {
	s.Require().NoError(s.store.Set(s.ctx, "points", "5"))
	s.Require().NoError(s.store.Set(s.ctx, "points", "8"))

	value, err := s.store.Get(s.ctx, "points")
	s.Require().NoError(err)
	s.Equal("8", value)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.Set(s.ctx, "points", "5"))
	s.Require().NoError(s.store.Delete(s.ctx, "points"))

	_, err := s.store.Get(s.ctx, "points")
	s.ErrorIs(err, kv.ErrKeyNotFound)

	// Deleting an absent key is not an error
	s.NoError(s.store.Delete(s.ctx, "points"))
}

func (s *StoreSuite) TestPersistsAcrossReopen() {
	s.Require().NoError(s.store.Set(s.ctx, "guest_id", "guest_abc"))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	value, err := s.store.Get(s.ctx, "guest_id")
	s.Require().NoError(err)
	s.Equal("guest_abc", value)
}
