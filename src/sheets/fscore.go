package sheets

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/financial-scores/src/models"
	"github.com/jiaming2012/financial-scores/src/utils"
)

// Column labels as they appear in the F-Score tab. The metric and criteria
// labels mix English and Vietnamese because the source workbook does.
var fscoreScoreColumns = map[string]func(r *models.FScoreRecord, v *int){
	"2024": func(r *models.FScoreRecord, v *int) { r.Score2024 = v },
	"2023": func(r *models.FScoreRecord, v *int) { r.Score2023 = v },
	"2022": func(r *models.FScoreRecord, v *int) { r.Score2022 = v },
	"2021": func(r *models.FScoreRecord, v *int) { r.Score2021 = v },
	"2020": func(r *models.FScoreRecord, v *int) { r.Score2020 = v },
}

var fscoreMetricColumns = map[string]func(r *models.FScoreRecord, v *float64){
	"ROA":             func(r *models.FScoreRecord, v *float64) { r.Roa = v },
	"CFO":             func(r *models.FScoreRecord, v *float64) { r.Cfo = v },
	"ΔROA":            func(r *models.FScoreRecord, v *float64) { r.DeltaRoa = v },
	"CFO_LNST":        func(r *models.FScoreRecord, v *float64) { r.CfoLnst = v },
	"Δno dai han":     func(r *models.FScoreRecord, v *float64) { r.DeltaLongTermDebt = v },
	"ΔCurrent Ratio":  func(r *models.FScoreRecord, v *float64) { r.DeltaCurrentRatio = v },
	"SLCP_PH":         func(r *models.FScoreRecord, v *float64) { r.SharesIssued = v },
	"ΔGross Margin":   func(r *models.FScoreRecord, v *float64) { r.DeltaGrossMargin = v },
	"ΔAsset Turnover": func(r *models.FScoreRecord, v *float64) { r.DeltaAssetTurnover = v },
}

var fscoreCriteriaColumns = map[string]func(r *models.FScoreRecord, v bool){
	"ROA>0":               func(r *models.FScoreRecord, v bool) { r.RoaPositive = v },
	"CFO>0":               func(r *models.FScoreRecord, v bool) { r.CfoPositive = v },
	"ΔROA>0":              func(r *models.FScoreRecord, v bool) { r.DeltaRoaPositive = v },
	"CFO>LNST":            func(r *models.FScoreRecord, v bool) { r.CfoGreaterThanNi = v },
	"ΔNợ dài hạn<0":       func(r *models.FScoreRecord, v bool) { r.DeltaDebtNegative = v },
	"ΔCurrent Ratio>0":    func(r *models.FScoreRecord, v bool) { r.DeltaCurrentRatioPositive = v },
	"Không phát hành CP":  func(r *models.FScoreRecord, v bool) { r.NoNewShares = v },
	"ΔGross Margin>0":     func(r *models.FScoreRecord, v bool) { r.DeltaGrossMarginPositive = v },
	"ΔAsset Turnover>0":   func(r *models.FScoreRecord, v bool) { r.DeltaAssetTurnoverPositive = v },
}

// FetchFScores reads the F-Score tab and returns its normalized rows.
func (c *Client) FetchFScores(ctx context.Context) ([]*models.FScoreRecord, error) {
	rows, err := c.fetchRows(ctx, c.fscoreSheetName)
	if err != nil {
		return nil, &models.SourceUnavailableError{Sheet: c.fscoreSheetName, Err: err}
	}

	records, err := NormalizeFScoreRows(rows)
	if err != nil {
		return nil, &models.SchemaMismatchError{Sheet: c.fscoreSheetName, Reason: err.Error()}
	}

	log.Infof("fetched %d F-Score records from sheet %s", len(records), c.fscoreSheetName)
	return records, nil
}

// NormalizeFScoreRows maps a raw sheet table to F-Score records. Rows without
// a ticker are skipped; unparseable numeric cells become nil and missing
// criteria cells stay false.
func NormalizeFScoreRows(rows [][]interface{}) ([]*models.FScoreRecord, error) {
	headerMap, err := buildHeaderMap(rows, fscoreColumnNames())
	if err != nil {
		return nil, err
	}

	records := make([]*models.FScoreRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}

		ticker := strings.ToUpper(strings.TrimSpace(utils.CellString(row[0])))
		if ticker == "" {
			continue
		}

		record := &models.FScoreRecord{Ticker: ticker}

		for column, assign := range fscoreScoreColumns {
			if idx, found := headerMap[column]; found && idx < len(row) {
				assign(record, utils.ParseIntCell(utils.CellString(row[idx])))
			}
		}

		for column, assign := range fscoreMetricColumns {
			if idx, found := headerMap[column]; found && idx < len(row) {
				assign(record, utils.ParseFloatCell(utils.CellString(row[idx])))
			}
		}

		for column, assign := range fscoreCriteriaColumns {
			if idx, found := headerMap[column]; found && idx < len(row) {
				assign(record, utils.ParseBoolCell(utils.CellString(row[idx])))
			}
		}

		records = append(records, record)
	}

	return records, nil
}

func fscoreColumnNames() []string {
	names := make([]string, 0, len(fscoreScoreColumns)+len(fscoreMetricColumns)+len(fscoreCriteriaColumns))
	for name := range fscoreScoreColumns {
		names = append(names, name)
	}
	for name := range fscoreMetricColumns {
		names = append(names, name)
	}
	for name := range fscoreCriteriaColumns {
		names = append(names, name)
	}

	return names
}
