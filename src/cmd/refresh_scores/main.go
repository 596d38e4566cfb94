package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/financial-scores/src/data"
	"github.com/jiaming2012/financial-scores/src/dbutils"
	"github.com/jiaming2012/financial-scores/src/services"
	"github.com/jiaming2012/financial-scores/src/sheets"
	"github.com/jiaming2012/financial-scores/src/utils"
)

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/refresh_scores/main.go --sheet z-score",
	Short: "Fetch the score sheets and update the cached tables",
	Run: func(cmd *cobra.Command, args []string) {
		sheet, err := cmd.Flags().GetString("sheet")
		if err != nil {
			log.Fatalf("error getting sheet: %v", err)
		}

		if err := Run(sheet); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(sheet string) error {
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

	sheetsClient, err := sheets.NewClientFromEnv(ctx)
	if err != nil {
		return err
	}

	store := data.NewStore(db)

	if sheet == "z-score" || sheet == "all" {
		stats, err := services.NewZScoreService(sheetsClient, store).Refresh(ctx)
		if err != nil {
			return err
		}

		log.Infof("z-score: fetched=%d inserted=%d updated=%d", stats.Fetched, stats.Inserted, stats.Updated)
	}

	if sheet == "f-score" || sheet == "all" {
		stats, err := services.NewFScoreService(sheetsClient, store).Refresh(ctx)
		if err != nil {
			return err
		}

		log.Infof("f-score: fetched=%d inserted=%d updated=%d", stats.Fetched, stats.Inserted, stats.Updated)
	}

	return nil
}

func main() {
	runCmd.Flags().String("sheet", "all", "Which sheet to refresh: z-score, f-score or all")

	if err := runCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
