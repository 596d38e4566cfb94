package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/financial-scores/src/models"
)

func floatPtr(v float64) *float64 { return &v }

func zscoreFixtureRecords() []*models.ZScoreRecord {
	return []*models.ZScoreRecord{
		{Ticker: "AAA", Year2024: floatPtr(3.12), Year2023: floatPtr(2.95)},
		{Ticker: "BBB", Year2024: floatPtr(1.15), Year2021: floatPtr(0.87)},
	}
}

func TestZScoreServiceGet(t *testing.T) {
	t.Run("refresh true syncs and returns full snapshot", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{records: zscoreFixtureRecords()}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		snapshot, stats, err := service.Get(context.Background(), nil, true)

		require.NoError(t, err)
		assert.Equal(t, 1, fetcher.callCount())
		assert.Equal(t, 2, snapshot.TotalCount)
		require.NotNil(t, stats)
		assert.Equal(t, 2, stats.Fetched)
		assert.Equal(t, 2, stats.Inserted)
		assert.Equal(t, 0, stats.Updated)
		require.NotNil(t, snapshot.LastUpdated)

		assert.Equal(t, "AAA", snapshot.Records[0].Ticker)
		assert.Equal(t, "BBB", snapshot.Records[1].Ticker)
	})

	t.Run("refresh false never contacts the source", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{records: zscoreFixtureRecords()}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		_, _, err := service.Get(context.Background(), nil, true)
		require.NoError(t, err)
		require.Equal(t, 1, fetcher.callCount())

		snapshot, stats, err := service.Get(context.Background(), nil, false)

		require.NoError(t, err)
		assert.Equal(t, 1, fetcher.callCount(), "cached read must not fetch")
		assert.Nil(t, stats)
		assert.Equal(t, 2, snapshot.TotalCount)
	})

	t.Run("point lookup returns the record written by the refresh", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{records: zscoreFixtureRecords()}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		_, _, err := service.Get(context.Background(), nil, true)
		require.NoError(t, err)

		record, err := service.GetOne(context.Background(), "AAA")

		require.NoError(t, err)
		assert.Equal(t, "AAA", record.Ticker)
		require.NotNil(t, record.Year2024)
		assert.Equal(t, 3.12, *record.Year2024)
		assert.Equal(t, 1, fetcher.callCount(), "point lookup must not fetch")
	})

	t.Run("tickers filter narrows the snapshot", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{records: zscoreFixtureRecords()}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		snapshot, _, err := service.Get(context.Background(), []string{"bbb"}, true)

		require.NoError(t, err)
		assert.Equal(t, 1, snapshot.TotalCount)
		require.Len(t, snapshot.Records, 1)
		assert.Equal(t, "BBB", snapshot.Records[0].Ticker)

		snapshot, _, err = service.Get(context.Background(), []string{"ZZZ"}, false)

		require.NoError(t, err)
		assert.Equal(t, 0, snapshot.TotalCount)
		assert.Empty(t, snapshot.Records)
	})

	t.Run("missing ticker yields ErrNotFound", func(t *testing.T) {
		service := NewZScoreService(&fakeZScoreFetcher{}, newFakeZScoreStore())

		_, err := service.GetOne(context.Background(), "ZZZ")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestZScoreServiceRefresh(t *testing.T) {
	t.Run("re-syncing the same ticker keeps one record with latest values", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{records: zscoreFixtureRecords()}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		_, err := service.Refresh(context.Background())
		require.NoError(t, err)

		fetcher.records = []*models.ZScoreRecord{
			{Ticker: "AAA", Year2024: floatPtr(4.44)},
			{Ticker: "BBB", Year2024: floatPtr(1.15)},
		}

		stats, err := service.Refresh(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, stats.Inserted)
		assert.Equal(t, 2, stats.Updated)

		snapshot, _, err := service.Get(context.Background(), nil, false)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.TotalCount, "upsert must not duplicate tickers")

		record, err := service.GetOne(context.Background(), "AAA")
		require.NoError(t, err)
		require.NotNil(t, record.Year2024)
		assert.Equal(t, 4.44, *record.Year2024)
		assert.Nil(t, record.Year2023, "stale columns are replaced, not merged")
	})

	t.Run("failed fetch leaves the cached snapshot untouched", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{records: zscoreFixtureRecords()}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		_, err := service.Refresh(context.Background())
		require.NoError(t, err)

		before, _, err := service.Get(context.Background(), nil, false)
		require.NoError(t, err)

		fetcher.err = &models.SourceUnavailableError{Sheet: "Zscore", Err: context.DeadlineExceeded}

		_, refreshErr := service.Refresh(context.Background())
		require.Error(t, refreshErr)

		after, _, err := service.Get(context.Background(), nil, false)
		require.NoError(t, err)

		assert.Equal(t, before.TotalCount, after.TotalCount)
		assert.Equal(t, before.Records, after.Records)
		assert.Equal(t, before.LastUpdated, after.LastUpdated)
	})

	t.Run("concurrent refreshes coalesce onto one fetch", func(t *testing.T) {
		fetcher := &fakeZScoreFetcher{
			records: zscoreFixtureRecords(),
			entered: make(chan struct{}, 8),
			release: make(chan struct{}),
		}
		store := newFakeZScoreStore()
		service := NewZScoreService(fetcher, store)

		var wg sync.WaitGroup
		start := func() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.Refresh(context.Background())
				assert.NoError(t, err)
			}()
		}

		start()
		<-fetcher.entered

		// The first sync is now in flight; everyone joining here must share it.
		for i := 0; i < 4; i++ {
			start()
		}
		time.Sleep(50 * time.Millisecond)
		close(fetcher.release)

		wg.Wait()
		assert.Equal(t, 1, fetcher.callCount())
	})
}
