package models

import (
	"time"
)

// FScoreRecord stores the Piotroski F-Score of one ticker: per-year composite
// scores, the raw financial metrics behind them, and the nine boolean
// criteria. A year's score is the count of true criteria for that year; the
// sheet computes it upstream and the store does not re-derive it.
type FScoreRecord struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Ticker string `gorm:"column:ticker;type:varchar(10);uniqueIndex;not null"`

	Score2024 *int `gorm:"column:score_2024;type:integer"`
	Score2023 *int `gorm:"column:score_2023;type:integer"`
	Score2022 *int `gorm:"column:score_2022;type:integer"`
	Score2021 *int `gorm:"column:score_2021;type:integer"`
	Score2020 *int `gorm:"column:score_2020;type:integer"`

	Roa                *float64 `gorm:"column:roa;type:numeric"`
	Cfo                *float64 `gorm:"column:cfo;type:numeric"`
	DeltaRoa           *float64 `gorm:"column:delta_roa;type:numeric"`
	CfoLnst            *float64 `gorm:"column:cfo_lnst;type:numeric"`
	DeltaLongTermDebt  *float64 `gorm:"column:delta_long_term_debt;type:numeric"`
	DeltaCurrentRatio  *float64 `gorm:"column:delta_current_ratio;type:numeric"`
	SharesIssued       *float64 `gorm:"column:shares_issued;type:numeric"`
	DeltaGrossMargin   *float64 `gorm:"column:delta_gross_margin;type:numeric"`
	DeltaAssetTurnover *float64 `gorm:"column:delta_asset_turnover;type:numeric"`

	RoaPositive               bool `gorm:"column:roa_positive"`
	CfoPositive               bool `gorm:"column:cfo_positive"`
	DeltaRoaPositive          bool `gorm:"column:delta_roa_positive"`
	CfoGreaterThanNi          bool `gorm:"column:cfo_greater_than_ni"`
	DeltaDebtNegative         bool `gorm:"column:delta_debt_negative"`
	DeltaCurrentRatioPositive bool `gorm:"column:delta_current_ratio_positive"`
	NoNewShares               bool `gorm:"column:no_new_shares"`
	DeltaGrossMarginPositive  bool `gorm:"column:delta_gross_margin_positive"`
	DeltaAssetTurnoverPositive bool `gorm:"column:delta_asset_turnover_positive"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (FScoreRecord) TableName() string {
	return "fscores"
}

type FScoreScoresDTO struct {
	Year2024 *int `json:"2024"`
	Year2023 *int `json:"2023"`
	Year2022 *int `json:"2022"`
	Year2021 *int `json:"2021"`
	Year2020 *int `json:"2020"`
}

type FScoreMetricsDTO struct {
	Roa                *float64 `json:"roa"`
	Cfo                *float64 `json:"cfo"`
	DeltaRoa           *float64 `json:"delta_roa"`
	CfoLnst            *float64 `json:"cfo_lnst"`
	DeltaLongTermDebt  *float64 `json:"delta_long_term_debt"`
	DeltaCurrentRatio  *float64 `json:"delta_current_ratio"`
	SharesIssued       *float64 `json:"shares_issued"`
	DeltaGrossMargin   *float64 `json:"delta_gross_margin"`
	DeltaAssetTurnover *float64 `json:"delta_asset_turnover"`
}

type FScoreCriteriaDTO struct {
	RoaPositive               bool `json:"roa_positive"`
	CfoPositive               bool `json:"cfo_positive"`
	DeltaRoaPositive          bool `json:"delta_roa_positive"`
	CfoGreaterThanNi          bool `json:"cfo_greater_than_ni"`
	DeltaDebtNegative         bool `json:"delta_debt_negative"`
	DeltaCurrentRatioPositive bool `json:"delta_current_ratio_positive"`
	NoNewShares               bool `json:"no_new_shares"`
	DeltaGrossMarginPositive  bool `json:"delta_gross_margin_positive"`
	DeltaAssetTurnoverPositive bool `json:"delta_asset_turnover_positive"`
}

// FScoreDTO is the wire shape of an F-Score record, grouping the flat table
// columns into scores, metrics and criteria objects.
type FScoreDTO struct {
	ID        uint              `json:"id"`
	Ticker    string            `json:"ticker"`
	Scores    FScoreScoresDTO   `json:"scores"`
	Metrics   FScoreMetricsDTO  `json:"metrics"`
	Criteria  FScoreCriteriaDTO `json:"criteria"`
	UpdatedAt *time.Time        `json:"updated_at"`
}

func (f *FScoreRecord) ToDTO() *FScoreDTO {
	dto := &FScoreDTO{
		ID:     f.ID,
		Ticker: f.Ticker,
		Scores: FScoreScoresDTO{
			Year2024: f.Score2024,
			Year2023: f.Score2023,
			Year2022: f.Score2022,
			Year2021: f.Score2021,
			Year2020: f.Score2020,
		},
		Metrics: FScoreMetricsDTO{
			Roa:                f.Roa,
			Cfo:                f.Cfo,
			DeltaRoa:           f.DeltaRoa,
			CfoLnst:            f.CfoLnst,
			DeltaLongTermDebt:  f.DeltaLongTermDebt,
			DeltaCurrentRatio:  f.DeltaCurrentRatio,
			SharesIssued:       f.SharesIssued,
			DeltaGrossMargin:   f.DeltaGrossMargin,
			DeltaAssetTurnover: f.DeltaAssetTurnover,
		},
		Criteria: FScoreCriteriaDTO{
			RoaPositive:               f.RoaPositive,
			CfoPositive:               f.CfoPositive,
			DeltaRoaPositive:          f.DeltaRoaPositive,
			CfoGreaterThanNi:          f.CfoGreaterThanNi,
			DeltaDebtNegative:         f.DeltaDebtNegative,
			DeltaCurrentRatioPositive: f.DeltaCurrentRatioPositive,
			NoNewShares:               f.NoNewShares,
			DeltaGrossMarginPositive:  f.DeltaGrossMarginPositive,
			DeltaAssetTurnoverPositive: f.DeltaAssetTurnoverPositive,
		},
	}

	if !f.UpdatedAt.IsZero() {
		updatedAt := f.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}

	return dto
}

// CriteriaCount returns how many of the nine criteria flags are set.
func (f *FScoreRecord) CriteriaCount() int {
	count := 0
	for _, flag := range []bool{
		f.RoaPositive,
		f.CfoPositive,
		f.DeltaRoaPositive,
		f.CfoGreaterThanNi,
		f.DeltaDebtNegative,
		f.DeltaCurrentRatioPositive,
		f.NoNewShares,
		f.DeltaGrossMarginPositive,
		f.DeltaAssetTurnoverPositive,
	} {
		if flag {
			count++
		}
	}

	return count
}
