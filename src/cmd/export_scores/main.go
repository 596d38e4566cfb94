package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/financial-scores/src/data"
	"github.com/jiaming2012/financial-scores/src/dbutils"
	"github.com/jiaming2012/financial-scores/src/models"
	"github.com/jiaming2012/financial-scores/src/utils"
)

type zscoreCsvRow struct {
	Ticker    string   `csv:"ticker"`
	Year2024  *float64 `csv:"2024Y"`
	Year2023  *float64 `csv:"2023Y"`
	Year2022  *float64 `csv:"2022Y"`
	Year2021  *float64 `csv:"2021Y"`
	Year2020  *float64 `csv:"2020Y"`
	UpdatedAt string   `csv:"updated_at"`
}

type fscoreCsvRow struct {
	Ticker    string `csv:"ticker"`
	Score2024 *int   `csv:"2024"`
	Score2023 *int   `csv:"2023"`
	Score2022 *int   `csv:"2022"`
	Score2021 *int   `csv:"2021"`
	Score2020 *int   `csv:"2020"`
	Criteria  int    `csv:"criteria_true"`
	UpdatedAt string `csv:"updated_at"`
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/export_scores/main.go --outdir exports",
	Short: "Dump the cached score tables to CSV files",
	Run: func(cmd *cobra.Command, args []string) {
		outdir, err := cmd.Flags().GetString("outdir")
		if err != nil {
			log.Fatalf("error getting outdir: %v", err)
		}

		if err := Run(outdir); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(outdir string) error {
	ctx := context.Background()

	if err := utils.InitEnvironmentVariables(); err != nil {
		return err
	}

	utils.InitLogger()

	databaseUrl, err := utils.GetEnv("DATABASE_URL")
	if err != nil {
		return err
	}

	db, err := dbutils.InitPostgresWithUrl(databaseUrl)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outdir, 0755); err != nil {
		return fmt.Errorf("failed to create outdir: %w", err)
	}

	store := data.NewStore(db)

	zscores, err := store.GetAllZScores(ctx)
	if err != nil {
		return err
	}

	if err := exportZScores(zscores, filepath.Join(outdir, "zscores.csv")); err != nil {
		return err
	}

	fscores, err := store.GetAllFScores(ctx)
	if err != nil {
		return err
	}

	if err := exportFScores(fscores, filepath.Join(outdir, "fscores.csv")); err != nil {
		return err
	}

	printSummary(zscores, fscores)
	return nil
}

func exportZScores(records []*models.ZScoreRecord, path string) error {
	rows := make([]*zscoreCsvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &zscoreCsvRow{
			Ticker:    r.Ticker,
			Year2024:  r.Year2024,
			Year2023:  r.Year2023,
			Year2022:  r.Year2022,
			Year2021:  r.Year2021,
			Year2020:  r.Year2020,
			UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Infof("wrote %d records to %s", len(rows), path)
	return nil
}

func exportFScores(records []*models.FScoreRecord, path string) error {
	rows := make([]*fscoreCsvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &fscoreCsvRow{
			Ticker:    r.Ticker,
			Score2024: r.Score2024,
			Score2023: r.Score2023,
			Score2022: r.Score2022,
			Score2021: r.Score2021,
			Score2020: r.Score2020,
			Criteria:  r.CriteriaCount(),
			UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Infof("wrote %d records to %s", len(rows), path)
	return nil
}

func printSummary(zscores []*models.ZScoreRecord, fscores []*models.FScoreRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sheet", "Records", "Last Updated"})

	table.Append([]string{"z-score", strconv.Itoa(len(zscores)), lastUpdatedZ(zscores)})
	table.Append([]string{"f-score", strconv.Itoa(len(fscores)), lastUpdatedF(fscores)})

	table.Render()
}

func lastUpdatedZ(records []*models.ZScoreRecord) string {
	var last time.Time
	for _, r := range records {
		if r.UpdatedAt.After(last) {
			last = r.UpdatedAt
		}
	}

	if last.IsZero() {
		return "-"
	}

	return last.Format(time.RFC3339)
}

func lastUpdatedF(records []*models.FScoreRecord) string {
	var last time.Time
	for _, r := range records {
		if r.UpdatedAt.After(last) {
			last = r.UpdatedAt
		}
	}

	if last.IsZero() {
		return "-"
	}

	return last.Format(time.RFC3339)
}

func main() {
	runCmd.Flags().String("outdir", ".", "Directory to write the CSV files to")

	if err := runCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
