package issuer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) seed(ids ...int64) {
	for _, id := range ids {
		err := s.store.Save(s.ctx, &IssuerRecord{ID: id, Name: "Issuer"})
		s.Require().NoError(err)
	}
}

func (s *InMemoryStoreSuite) TestListPreservesInsertionOrder() {
	s.seed(30, 10, 20)

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal(int64(30), records[0].ID)
	s.Equal(int64(10), records[1].ID)
	s.Equal(int64(20), records[2].ID)
}

func (s *InMemoryStoreSuite) TestSaveUpdateKeepsOrder() {
	s.seed(1, 2)

	err := s.store.Save(s.ctx, &IssuerRecord{ID: 1, Name: "Renamed"})
	s.Require().NoError(err)

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(int64(1), records[0].ID)
	s.Equal("Renamed", records[0].Name)
}

func (s *InMemoryStoreSuite) TestGetUnknownIDReturnsNotFound() {
	_, err := s.store.Get(s.ctx, 404)
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestSaveEnrichment() {
	s.seed(7)
	at := time.Now()

	err := s.store.SaveEnrichment(s.ctx, 7, []string{"US0000000001"}, TypeSovereign, at)
	s.Require().NoError(err)

	record, err := s.store.Get(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal([]string{"US0000000001"}, record.ISINs)
	s.Equal(TypeSovereign, record.Type)
	s.Require().NotNil(record.EnrichedAt)
	s.WithinDuration(at, *record.EnrichedAt, time.Second)
	s.True(record.Enriched())
}

func (s *InMemoryStoreSuite) TestSaveEnrichmentUnknownID() {
	err := s.store.SaveEnrichment(s.ctx, 404, []string{"X"}, TypeCorporate, time.Now())
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListReturnsCopies() {
	s.seed(1)

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	records[0].Name = "mutated"
	records[0].ISINs = []string{"clobbered"}

	fresh, err := s.store.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Issuer", fresh.Name)
	s.Nil(fresh.ISINs)
}

// Concurrent enrichment writers each own a disjoint record, mirroring how the
// enrichment pool partitions work.
func (s *InMemoryStoreSuite) TestConcurrentDisjointEnrichment() {
	const n = 32
	for i := int64(1); i <= n; i++ {
		s.seed(i)
	}

	var wg sync.WaitGroup
	for i := int64(1); i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := s.store.SaveEnrichment(s.ctx, id, []string{"ISIN"}, TypeCorporate, time.Now())
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	records, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, n)
	for _, record := range records {
		s.True(record.Enriched())
	}
}
