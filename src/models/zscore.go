package models

import (
	"time"
)

// ZScoreRecord stores the Altman Z-Score of one ticker, one value per fiscal
// year, as fetched from the Z-Score sheet.
type ZScoreRecord struct {
	ID       uint     `gorm:"primaryKey;autoIncrement"`
	Ticker   string   `gorm:"column:ticker;type:varchar(10);uniqueIndex;not null"`
	Year2024 *float64 `gorm:"column:year_2024;type:numeric"`
	Year2023 *float64 `gorm:"column:year_2023;type:numeric"`
	Year2022 *float64 `gorm:"column:year_2022;type:numeric"`
	Year2021 *float64 `gorm:"column:year_2021;type:numeric"`
	Year2020 *float64 `gorm:"column:year_2020;type:numeric"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ZScoreRecord) TableName() string {
	return "zscores"
}

// ZScoreDTO is the wire shape of a Z-Score record. The year keys keep the
// sheet's column labels (2024Y, 2023Y, ...).
type ZScoreDTO struct {
	ID        uint       `json:"id"`
	Ticker    string     `json:"ticker"`
	Year2024  *float64   `json:"2024Y"`
	Year2023  *float64   `json:"2023Y"`
	Year2022  *float64   `json:"2022Y"`
	Year2021  *float64   `json:"2021Y"`
	Year2020  *float64   `json:"2020Y"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (z *ZScoreRecord) ToDTO() *ZScoreDTO {
	dto := &ZScoreDTO{
		ID:       z.ID,
		Ticker:   z.Ticker,
		Year2024: z.Year2024,
		Year2023: z.Year2023,
		Year2022: z.Year2022,
		Year2021: z.Year2021,
		Year2020: z.Year2020,
	}

	if !z.UpdatedAt.IsZero() {
		updatedAt := z.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}

	return dto
}
