package sheets

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/financial-scores/src/models"
	"github.com/jiaming2012/financial-scores/src/utils"
)

var zscoreYearColumns = map[string]func(r *models.ZScoreRecord, v *float64){
	"2024Y": func(r *models.ZScoreRecord, v *float64) { r.Year2024 = v },
	"2023Y": func(r *models.ZScoreRecord, v *float64) { r.Year2023 = v },
	"2022Y": func(r *models.ZScoreRecord, v *float64) { r.Year2022 = v },
	"2021Y": func(r *models.ZScoreRecord, v *float64) { r.Year2021 = v },
	"2020Y": func(r *models.ZScoreRecord, v *float64) { r.Year2020 = v },
}

// FetchZScores reads the Z-Score tab and returns its normalized rows.
func (c *Client) FetchZScores(ctx context.Context) ([]*models.ZScoreRecord, error) {
	rows, err := c.fetchRows(ctx, c.zscoreSheetName)
	if err != nil {
		return nil, &models.SourceUnavailableError{Sheet: c.zscoreSheetName, Err: err}
	}

	records, err := NormalizeZScoreRows(rows)
	if err != nil {
		return nil, &models.SchemaMismatchError{Sheet: c.zscoreSheetName, Reason: err.Error()}
	}

	log.Infof("fetched %d Z-Score records from sheet %s", len(records), c.zscoreSheetName)
	return records, nil
}

// NormalizeZScoreRows maps a raw sheet table (header row followed by data
// rows) to Z-Score records. Rows without a ticker are skipped; unparseable
// numeric cells become nil.
func NormalizeZScoreRows(rows [][]interface{}) ([]*models.ZScoreRecord, error) {
	headerMap, err := buildHeaderMap(rows, zscoreColumnNames())
	if err != nil {
		return nil, err
	}

	records := make([]*models.ZScoreRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}

		ticker := strings.ToUpper(strings.TrimSpace(utils.CellString(row[0])))
		if ticker == "" {
			continue
		}

		record := &models.ZScoreRecord{Ticker: ticker}
		for column, assign := range zscoreYearColumns {
			idx, found := headerMap[column]
			if !found || idx >= len(row) {
				continue
			}

			assign(record, utils.ParseFloatCell(utils.CellString(row[idx])))
		}

		records = append(records, record)
	}

	return records, nil
}

func zscoreColumnNames() []string {
	names := make([]string, 0, len(zscoreYearColumns))
	for name := range zscoreYearColumns {
		names = append(names, name)
	}

	return names
}
