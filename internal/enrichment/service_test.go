package enrichment

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"isinhub/internal/audit"
	"isinhub/internal/issuer"
	"isinhub/internal/isin"
	"isinhub/internal/sector"
)

// stubFetcher simulates the external ISIN directory with configurable
// latency, per-issuer failures, and concurrency accounting.
type stubFetcher struct {
	latency time.Duration
	failIDs map[int64]error

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu      sync.Mutex
	results map[int64][]string
}

func newStubFetcher(latency time.Duration) *stubFetcher {
	return &stubFetcher{
		latency: latency,
		failIDs: make(map[int64]error),
		results: make(map[int64][]string),
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, issuerID int64) ([]string, error) {
	f.calls.Add(1)

	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if current <= max || f.maxInFlight.CompareAndSwap(max, current) {
			break
		}
	}

	if f.latency > 0 {
		time.Sleep(f.latency)
	}

	if err, ok := f.failIDs[issuerID]; ok {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if isins, ok := f.results[issuerID]; ok {
		return isins, nil
	}
	return []string{"ISIN-" + string(rune('A'+issuerID%26))}, nil
}

func sampleRecords(n int64) []*issuer.IssuerRecord {
	records := make([]*issuer.IssuerRecord, 0, n)
	for i := int64(1); i <= n; i++ {
		records = append(records, &issuer.IssuerRecord{ID: i, Name: "Issuer"})
	}
	return records
}

type ServiceSuite struct {
	suite.Suite
	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestNewServiceRejectsInvalidPool() {
	_, err := NewService(newStubFetcher(0), WithPoolSize(0))
	s.Error(err)

	_, err = NewService(newStubFetcher(0), WithPoolSize(-3))
	s.Error(err)

	_, err = NewService(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestRunEnrichesEveryRecord() {
	svc, err := NewService(newStubFetcher(0))
	s.Require().NoError(err)

	records := sampleRecords(5)
	report, err := svc.Run(s.ctx, records, nil)
	s.Require().NoError(err)

	s.Len(report.Succeeded(), 5)
	s.Empty(report.Failed())
	s.NotEmpty(report.RunID)

	for _, record := range records {
		s.True(record.Enriched(), "record %d should be enriched", record.ID)
		s.NotNil(record.ISINs)
		s.Equal(issuer.TypeCorporate, record.Type)
	}
}

func (s *ServiceSuite) TestClassificationFollowsSectorContext() {
	tests := []struct {
		name    string
		sectors sector.Context
		want    issuer.IssuerType
	}{
		{"empty context", sector.Context{}, issuer.TypeCorporate},
		{"provinces and municipalities", sector.Context{sector.LabelProvincesAndMunicipalities}, issuer.TypeMunicipality},
		{"sovereign", sector.Context{sector.LabelSovereign}, issuer.TypeSovereign},
		{"unknown label", sector.Context{"Other"}, issuer.TypeCorporate},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			svc, err := NewService(newStubFetcher(0))
			s.Require().NoError(err)

			records := sampleRecords(3)
			_, err = svc.Run(s.ctx, records, tt.sectors)
			s.Require().NoError(err)

			for _, record := range records {
				s.Equal(tt.want, record.Type)
			}
		})
	}
}

func (s *ServiceSuite) TestSingleFailureDoesNotAbortOthers() {
	fetcher := newStubFetcher(0)
	fetcher.failIDs[6] = isin.NewFetchError(isin.ErrorDirectoryOutage, 6, "directory returned status 502", nil)

	svc, err := NewService(fetcher)
	s.Require().NoError(err)

	records := sampleRecords(11)
	report, err := svc.Run(s.ctx, records, nil)
	s.Require().NoError(err, "a per-record failure must not surface at the run boundary")

	s.Len(report.Succeeded(), 10)

	failed := report.Failed()
	s.Require().Len(failed, 1)
	s.Equal(int64(6), failed[0].IssuerID)
	s.Equal(isin.ErrorDirectoryOutage, isin.CategoryOf(failed[0].Err))

	for _, record := range records {
		if record.ID == 6 {
			s.False(record.Enriched(), "failed record keeps its fields unset")
			s.Nil(record.ISINs)
			s.Empty(record.Type)
			continue
		}
		s.True(record.Enriched())
	}
}

func (s *ServiceSuite) TestPoolBoundsConcurrency() {
	fetcher := newStubFetcher(20 * time.Millisecond)

	svc, err := NewService(fetcher, WithPoolSize(3))
	s.Require().NoError(err)

	_, err = svc.Run(s.ctx, sampleRecords(12), nil)
	s.Require().NoError(err)

	s.Equal(int32(12), fetcher.calls.Load())
	s.LessOrEqual(fetcher.maxInFlight.Load(), int32(3))
}

// Eleven records through an eight-slot pool must finish well under eleven
// sequential calls.
func (s *ServiceSuite) TestPoolIsFasterThanSequential() {
	const latency = 50 * time.Millisecond
	fetcher := newStubFetcher(latency)

	svc, err := NewService(fetcher, WithPoolSize(8))
	s.Require().NoError(err)

	report, err := svc.Run(s.ctx, sampleRecords(11), nil)
	s.Require().NoError(err)

	sequential := 11 * latency
	s.Less(report.Duration(), sequential,
		"pooled run took %v, sequential lower bound is %v", report.Duration(), sequential)
	s.Len(report.Succeeded(), 11)
}

func (s *ServiceSuite) TestRunIsIdempotent() {
	fetcher := newStubFetcher(0)
	fetcher.results[1] = []string{"US0000000001"}
	fetcher.results[2] = []string{"US0000000002", "US0000000003"}

	svc, err := NewService(fetcher)
	s.Require().NoError(err)

	records := []*issuer.IssuerRecord{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Globex"},
	}

	_, err = svc.Run(s.ctx, records, sector.Context{sector.LabelSovereign})
	s.Require().NoError(err)
	firstISINs := [][]string{records[0].ISINs, records[1].ISINs}
	firstTypes := []issuer.IssuerType{records[0].Type, records[1].Type}

	_, err = svc.Run(s.ctx, records, sector.Context{sector.LabelSovereign})
	s.Require().NoError(err)

	s.Equal(firstISINs, [][]string{records[0].ISINs, records[1].ISINs})
	s.Equal(firstTypes, []issuer.IssuerType{records[0].Type, records[1].Type})
}

func (s *ServiceSuite) TestRunPreservesCollectionOrder() {
	svc, err := NewService(newStubFetcher(time.Millisecond), WithPoolSize(4))
	s.Require().NoError(err)

	records := sampleRecords(9)
	report, err := svc.Run(s.ctx, records, nil)
	s.Require().NoError(err)

	for i, record := range records {
		s.Equal(int64(i+1), record.ID, "records must not be reordered")
		s.Equal(record.ID, report.Outcomes[i].IssuerID, "outcomes follow input order")
	}
}

func (s *ServiceSuite) TestOutcomesAreCollected() {
	fetcher := newStubFetcher(0)
	fetcher.failIDs[2] = isin.NewFetchError(isin.ErrorNotFound, 2, "issuer unknown to directory", nil)

	svc, err := NewService(fetcher)
	s.Require().NoError(err)

	report, err := svc.Run(s.ctx, sampleRecords(3), nil)
	s.Require().NoError(err)

	for _, outcome := range report.Outcomes {
		s.True(outcome.Collected)
		s.Contains([]State{StateSucceeded, StateFailed}, outcome.State)
		s.Positive(outcome.IssuerID)
	}
}

func (s *ServiceSuite) TestPersistsThroughStore() {
	store := issuer.NewInMemoryStore()
	for _, record := range sampleRecords(4) {
		s.Require().NoError(store.Save(s.ctx, record))
	}

	svc, err := NewService(newStubFetcher(0), WithStore(store))
	s.Require().NoError(err)

	records, err := store.List(s.ctx)
	s.Require().NoError(err)

	_, err = svc.Run(s.ctx, records, sector.Context{sector.LabelProvincesAndMunicipalities})
	s.Require().NoError(err)

	persisted, err := store.List(s.ctx)
	s.Require().NoError(err)
	for _, record := range persisted {
		s.True(record.Enriched())
		s.Equal(issuer.TypeMunicipality, record.Type)
	}
}

func (s *ServiceSuite) TestStoreFailureIsCollectedPerRecord() {
	store := issuer.NewInMemoryStore()
	// Record 2 is never saved to the store, so its persist step fails.
	s.Require().NoError(store.Save(s.ctx, &issuer.IssuerRecord{ID: 1, Name: "Acme"}))
	s.Require().NoError(store.Save(s.ctx, &issuer.IssuerRecord{ID: 3, Name: "Initech"}))

	svc, err := NewService(newStubFetcher(0), WithStore(store))
	s.Require().NoError(err)

	records := sampleRecords(3)
	report, err := svc.Run(s.ctx, records, nil)
	s.Require().NoError(err)

	failed := report.Failed()
	s.Require().Len(failed, 1)
	s.Equal(int64(2), failed[0].IssuerID)
	s.False(records[1].Enriched(), "unpersisted record must not be mutated")
	s.Len(report.Succeeded(), 2)
}

func (s *ServiceSuite) TestAuditTrailPerOutcome() {
	fetcher := newStubFetcher(0)
	fetcher.failIDs[2] = isin.NewFetchError(isin.ErrorTimeout, 2, "directory call timed out", nil)
	publisher := audit.NewMemoryPublisher()

	svc, err := NewService(fetcher, WithAuditPublisher(publisher))
	s.Require().NoError(err)

	report, err := svc.Run(s.ctx, sampleRecords(3), nil)
	s.Require().NoError(err)

	enriched := publisher.ByAction(audit.ActionIssuerEnriched)
	s.Len(enriched, 2)

	failures := publisher.ByAction(audit.ActionEnrichmentFailed)
	s.Require().Len(failures, 1)
	s.Equal(int64(2), failures[0].IssuerID)
	s.Contains(failures[0].Reason, "timed out")
	s.Equal(report.RunID, failures[0].RunID)

	completed := publisher.ByAction(audit.ActionRunCompleted)
	s.Require().Len(completed, 1)
	s.Equal(report.RunID, completed[0].RunID)
}

func (s *ServiceSuite) TestEmptyCollection() {
	svc, err := NewService(newStubFetcher(0))
	s.Require().NoError(err)

	report, err := svc.Run(s.ctx, nil, nil)
	s.Require().NoError(err)
	s.Empty(report.Outcomes)
}
