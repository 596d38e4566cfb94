package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jiaming2012/financial-scores/src/models"
)

// fakeZScoreFetcher stands in for the sheets client. It counts calls so tests
// can assert whether the source was contacted.
type fakeZScoreFetcher struct {
	records []*models.ZScoreRecord
	err     error
	calls   int32

	// when set, FetchZScores blocks until release is closed
	entered chan struct{}
	release chan struct{}
}

func (f *fakeZScoreFetcher) FetchZScores(ctx context.Context) ([]*models.ZScoreRecord, error) {
	atomic.AddInt32(&f.calls, 1)

	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}

	if f.err != nil {
		return nil, f.err
	}

	// hand out copies so the store never aliases the fixture
	records := make([]*models.ZScoreRecord, 0, len(f.records))
	for _, r := range f.records {
		clone := *r
		records = append(records, &clone)
	}

	return records, nil
}

func (f *fakeZScoreFetcher) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

// fakeZScoreStore implements upsert-by-ticker semantics in memory.
type fakeZScoreStore struct {
	mu      sync.Mutex
	records map[string]*models.ZScoreRecord
	nextID  uint
}

func newFakeZScoreStore() *fakeZScoreStore {
	return &fakeZScoreStore{records: make(map[string]*models.ZScoreRecord)}
}

func (s *fakeZScoreStore) UpsertZScores(ctx context.Context, records []*models.ZScoreRecord) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted, updated := 0, 0
	for _, record := range records {
		record.UpdatedAt = time.Now().UTC()

		if existing, found := s.records[record.Ticker]; found {
			record.ID = existing.ID
			updated++
		} else {
			s.nextID++
			record.ID = s.nextID
			inserted++
		}

		clone := *record
		s.records[record.Ticker] = &clone
	}

	return inserted, updated, nil
}

func (s *fakeZScoreStore) GetAllZScores(ctx context.Context) ([]*models.ZScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*models.ZScoreRecord, 0, len(s.records))
	for _, record := range s.records {
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Ticker < records[j].Ticker })
	return records, nil
}

func (s *fakeZScoreStore) GetZScoreByTicker(ctx context.Context, ticker string) (*models.ZScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.records[ticker]
	if !found {
		return nil, models.ErrNotFound
	}

	clone := *record
	return &clone, nil
}

type fakeFScoreFetcher struct {
	records []*models.FScoreRecord
	err     error
	calls   int32
}

func (f *fakeFScoreFetcher) FetchFScores(ctx context.Context) ([]*models.FScoreRecord, error) {
	atomic.AddInt32(&f.calls, 1)

	if f.err != nil {
		return nil, f.err
	}

	records := make([]*models.FScoreRecord, 0, len(f.records))
	for _, r := range f.records {
		clone := *r
		records = append(records, &clone)
	}

	return records, nil
}

func (f *fakeFScoreFetcher) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

type fakeFScoreStore struct {
	mu      sync.Mutex
	records map[string]*models.FScoreRecord
	nextID  uint
}

func newFakeFScoreStore() *fakeFScoreStore {
	return &fakeFScoreStore{records: make(map[string]*models.FScoreRecord)}
}

func (s *fakeFScoreStore) UpsertFScores(ctx context.Context, records []*models.FScoreRecord) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted, updated := 0, 0
	for _, record := range records {
		record.UpdatedAt = time.Now().UTC()

		if existing, found := s.records[record.Ticker]; found {
			record.ID = existing.ID
			updated++
		} else {
			s.nextID++
			record.ID = s.nextID
			inserted++
		}

		clone := *record
		s.records[record.Ticker] = &clone
	}

	return inserted, updated, nil
}

func (s *fakeFScoreStore) GetAllFScores(ctx context.Context) ([]*models.FScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*models.FScoreRecord, 0, len(s.records))
	for _, record := range s.records {
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Ticker < records[j].Ticker })
	return records, nil
}

func (s *fakeFScoreStore) GetFScoreByTicker(ctx context.Context, ticker string) (*models.FScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.records[ticker]
	if !found {
		return nil, models.ErrNotFound
	}

	clone := *record
	return &clone, nil
}
