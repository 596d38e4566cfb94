package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/jiaming2012/financial-scores/src/models"
)

type FScoreFetcher interface {
	FetchFScores(ctx context.Context) ([]*models.FScoreRecord, error)
}

type FScoreStore interface {
	UpsertFScores(ctx context.Context, records []*models.FScoreRecord) (inserted int, updated int, err error)
	GetAllFScores(ctx context.Context) ([]*models.FScoreRecord, error)
	GetFScoreByTicker(ctx context.Context, ticker string) (*models.FScoreRecord, error)
}

// FScoreSnapshot is the full cached table at one point in time.
type FScoreSnapshot struct {
	Records     []*models.FScoreDTO
	TotalCount  int
	LastUpdated *time.Time
}

// FScoreService is the F-Score counterpart of ZScoreService.
type FScoreService struct {
	fetcher FScoreFetcher
	store   FScoreStore
	group   singleflight.Group
}

func NewFScoreService(fetcher FScoreFetcher, store FScoreStore) *FScoreService {
	return &FScoreService{
		fetcher: fetcher,
		store:   store,
	}
}

// Refresh runs one fetch-normalize-upsert cycle, coalescing concurrent
// callers onto a single in-flight sync. A failed sync leaves the stored table
// untouched.
func (s *FScoreService) Refresh(ctx context.Context) (*SyncStats, error) {
	result, err, shared := s.group.Do("f-score", func() (interface{}, error) {
		return s.sync(ctx)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.Debug("f-score refresh coalesced with an in-flight sync")
	}

	return result.(*SyncStats), nil
}

func (s *FScoreService) sync(ctx context.Context) (*SyncStats, error) {
	syncId := uuid.New()
	log.Infof("f-score sync %s: fetching from source", syncId)

	records, err := s.fetcher.FetchFScores(ctx)
	if err != nil {
		log.Errorf("f-score sync %s: fetch failed: %v", syncId, err)
		return nil, err
	}

	inserted, updated, err := s.store.UpsertFScores(ctx, records)
	if err != nil {
		log.Errorf("f-score sync %s: upsert failed: %v", syncId, err)
		return nil, err
	}

	stats := &SyncStats{
		Fetched:  len(records),
		Inserted: inserted,
		Updated:  updated,
	}

	log.Infof("f-score sync %s complete: fetched=%d inserted=%d updated=%d", syncId, stats.Fetched, stats.Inserted, stats.Updated)
	return stats, nil
}

// Get returns the current table, optionally refreshing it from the source
// first. With refresh false the spreadsheet is never contacted. A non-empty
// tickers set narrows the returned records; the sync itself always covers the
// whole sheet.
func (s *FScoreService) Get(ctx context.Context, tickers []string, refresh bool) (*FScoreSnapshot, *SyncStats, error) {
	var stats *SyncStats

	if refresh {
		var err error
		if stats, err = s.Refresh(ctx); err != nil {
			return nil, nil, err
		}
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(tickers) > 0 {
		wanted := tickerSet(tickers)

		filtered := make([]*models.FScoreDTO, 0, len(wanted))
		for _, record := range snapshot.Records {
			if _, found := wanted[record.Ticker]; found {
				filtered = append(filtered, record)
			}
		}

		snapshot.Records = filtered
		snapshot.TotalCount = len(filtered)
	}

	return snapshot, stats, nil
}

// GetOne returns one ticker's record, or models.ErrNotFound.
func (s *FScoreService) GetOne(ctx context.Context, ticker string) (*models.FScoreDTO, error) {
	record, err := s.store.GetFScoreByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return record.ToDTO(), nil
}

func (s *FScoreService) snapshot(ctx context.Context) (*FScoreSnapshot, error) {
	records, err := s.store.GetAllFScores(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &FScoreSnapshot{
		Records:    make([]*models.FScoreDTO, 0, len(records)),
		TotalCount: len(records),
	}

	for _, record := range records {
		snapshot.Records = append(snapshot.Records, record.ToDTO())

		if !record.UpdatedAt.IsZero() && (snapshot.LastUpdated == nil || record.UpdatedAt.After(*snapshot.LastUpdated)) {
			updatedAt := record.UpdatedAt
			snapshot.LastUpdated = &updatedAt
		}
	}

	return snapshot, nil
}
