package sheets

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/sheets/v4"
)

const fetchTimeout = 30 * time.Second

// Client reads score tables from one spreadsheet.
type Client struct {
	srv             *sheets.Service
	spreadsheetId   string
	zscoreSheetName string
	fscoreSheetName string
}

func NewClient(srv *sheets.Service, spreadsheetId string, zscoreSheetName string, fscoreSheetName string) *Client {
	return &Client{
		srv:             srv,
		spreadsheetId:   spreadsheetId,
		zscoreSheetName: zscoreSheetName,
		fscoreSheetName: fscoreSheetName,
	}
}

// fetchRows reads all populated rows of one sheet tab. The call is bounded by
// fetchTimeout and retried once on failure, unless the caller's context has
// already been cancelled.
func (c *Client) fetchRows(ctx context.Context, sheetName string) ([][]interface{}, error) {
	sheetRange := fmt.Sprintf("%s!A:Z", sheetName)

	fetch := func() ([][]interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		response, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetId, sheetRange).Context(fetchCtx).Do()
		if err != nil {
			return nil, err
		}

		if response.HTTPStatusCode != 200 {
			return nil, fmt.Errorf("invalid http status code: %v", response.HTTPStatusCode)
		}

		return response.Values, nil
	}

	rows, err := fetch()
	if err == nil {
		return rows, nil
	}

	if ctx.Err() != nil {
		return nil, err
	}

	log.Warnf("fetchRows: retrying %s after error: %v", sheetName, err)
	return fetch()
}
