package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jiaming2012/financial-scores/src/models"
)

// Store persists score records in postgres. All writes for one sync happen in
// a single transaction so readers see either the pre- or post-sync snapshot.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

// UpsertZScores writes a batch of Z-Score records, replacing existing rows by
// ticker. The whole batch commits or rolls back together.
func (s *Store) UpsertZScores(ctx context.Context, records []*models.ZScoreRecord) (inserted int, updated int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			var existing models.ZScoreRecord
			findErr := tx.Where("ticker = ?", record.Ticker).First(&existing).Error

			if findErr == nil {
				record.ID = existing.ID
				if saveErr := tx.Save(record).Error; saveErr != nil {
					return fmt.Errorf("failed to update zscore %s: %w", record.Ticker, saveErr)
				}
				updated++
				continue
			}

			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to query zscore %s: %w", record.Ticker, findErr)
			}

			if createErr := tx.Create(record).Error; createErr != nil {
				return fmt.Errorf("failed to insert zscore %s: %w", record.Ticker, createErr)
			}
			inserted++
		}

		return nil
	})

	if err != nil {
		return 0, 0, err
	}

	return inserted, updated, nil
}

func (s *Store) GetAllZScores(ctx context.Context) ([]*models.ZScoreRecord, error) {
	var records []*models.ZScoreRecord
	if err := s.db.WithContext(ctx).Order("ticker").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load zscores: %w", err)
	}

	return records, nil
}

func (s *Store) GetZScoreByTicker(ctx context.Context, ticker string) (*models.ZScoreRecord, error) {
	var record models.ZScoreRecord
	err := s.db.WithContext(ctx).Where("ticker = ?", strings.ToUpper(ticker)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}

		return nil, fmt.Errorf("failed to load zscore %s: %w", ticker, err)
	}

	return &record, nil
}

// UpsertFScores writes a batch of F-Score records, replacing existing rows by
// ticker. The whole batch commits or rolls back together.
func (s *Store) UpsertFScores(ctx context.Context, records []*models.FScoreRecord) (inserted int, updated int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			var existing models.FScoreRecord
			findErr := tx.Where("ticker = ?", record.Ticker).First(&existing).Error

			if findErr == nil {
				record.ID = existing.ID
				if saveErr := tx.Save(record).Error; saveErr != nil {
					return fmt.Errorf("failed to update fscore %s: %w", record.Ticker, saveErr)
				}
				updated++
				continue
			}

			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to query fscore %s: %w", record.Ticker, findErr)
			}

			if createErr := tx.Create(record).Error; createErr != nil {
				return fmt.Errorf("failed to insert fscore %s: %w", record.Ticker, createErr)
			}
			inserted++
		}

		return nil
	})

	if err != nil {
		return 0, 0, err
	}

	return inserted, updated, nil
}

func (s *Store) GetAllFScores(ctx context.Context) ([]*models.FScoreRecord, error) {
	var records []*models.FScoreRecord
	if err := s.db.WithContext(ctx).Order("ticker").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load fscores: %w", err)
	}

	return records, nil
}

func (s *Store) GetFScoreByTicker(ctx context.Context, ticker string) (*models.FScoreRecord, error) {
	var record models.FScoreRecord
	err := s.db.WithContext(ctx).Where("ticker = ?", strings.ToUpper(ticker)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}

		return nil, fmt.Errorf("failed to load fscore %s: %w", ticker, err)
	}

	return &record, nil
}
