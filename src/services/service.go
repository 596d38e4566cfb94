package services

import "strings"

// SyncStats reports the outcome of one fetch-and-upsert cycle.
type SyncStats struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

func tickerSet(tickers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tickers))
	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			continue
		}

		set[ticker] = struct{}{}
	}

	return set
}
