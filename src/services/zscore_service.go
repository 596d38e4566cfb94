package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/jiaming2012/financial-scores/src/models"
)

type ZScoreFetcher interface {
	FetchZScores(ctx context.Context) ([]*models.ZScoreRecord, error)
}

type ZScoreStore interface {
	UpsertZScores(ctx context.Context, records []*models.ZScoreRecord) (inserted int, updated int, err error)
	GetAllZScores(ctx context.Context) ([]*models.ZScoreRecord, error)
	GetZScoreByTicker(ctx context.Context, ticker string) (*models.ZScoreRecord, error)
}

// ZScoreSnapshot is the full cached table at one point in time.
type ZScoreSnapshot struct {
	Records     []*models.ZScoreDTO
	TotalCount  int
	LastUpdated *time.Time
}

// ZScoreService decides, per request, whether to serve the cached table or to
// run a sync against the spreadsheet first.
type ZScoreService struct {
	fetcher ZScoreFetcher
	store   ZScoreStore
	group   singleflight.Group
}

func NewZScoreService(fetcher ZScoreFetcher, store ZScoreStore) *ZScoreService {
	return &ZScoreService{
		fetcher: fetcher,
		store:   store,
	}
}

// Refresh runs one fetch-normalize-upsert cycle. Concurrent callers are
// coalesced onto a single in-flight sync, so at most one upstream fetch runs
// at a time and no interleaved partial writes can occur. A failed sync leaves
// the stored table untouched.
func (s *ZScoreService) Refresh(ctx context.Context) (*SyncStats, error) {
	result, err, shared := s.group.Do("z-score", func() (interface{}, error) {
		return s.sync(ctx)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.Debug("z-score refresh coalesced with an in-flight sync")
	}

	return result.(*SyncStats), nil
}

func (s *ZScoreService) sync(ctx context.Context) (*SyncStats, error) {
	syncId := uuid.New()
	log.Infof("z-score sync %s: fetching from source", syncId)

	records, err := s.fetcher.FetchZScores(ctx)
	if err != nil {
		log.Errorf("z-score sync %s: fetch failed: %v", syncId, err)
		return nil, err
	}

	inserted, updated, err := s.store.UpsertZScores(ctx, records)
	if err != nil {
		log.Errorf("z-score sync %s: upsert failed: %v", syncId, err)
		return nil, err
	}

	stats := &SyncStats{
		Fetched:  len(records),
		Inserted: inserted,
		Updated:  updated,
	}

	log.Infof("z-score sync %s complete: fetched=%d inserted=%d updated=%d", syncId, stats.Fetched, stats.Inserted, stats.Updated)
	return stats, nil
}

// Get returns the current table, optionally refreshing it from the source
// first. With refresh false the spreadsheet is never contacted. A non-empty
// tickers set narrows the returned records; the sync itself always covers the
// whole sheet.
func (s *ZScoreService) Get(ctx context.Context, tickers []string, refresh bool) (*ZScoreSnapshot, *SyncStats, error) {
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

		filtered := make([]*models.ZScoreDTO, 0, len(wanted))
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
func (s *ZScoreService) GetOne(ctx context.Context, ticker string) (*models.ZScoreDTO, error) {
	record, err := s.store.GetZScoreByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return record.ToDTO(), nil
}

func (s *ZScoreService) snapshot(ctx context.Context) (*ZScoreSnapshot, error) {
	records, err := s.store.GetAllZScores(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &ZScoreSnapshot{
		Records:    make([]*models.ZScoreDTO, 0, len(records)),
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
