package sheets

import (
	"fmt"

	"github.com/jiaming2012/financial-scores/src/utils"
)

// buildHeaderMap indexes the header row by column label and verifies that the
// sheet still carries at least one of the columns we know how to read.
// Individual missing columns are tolerated; a header with none of them means
// the tab was renamed or restructured.
func buildHeaderMap(rows [][]interface{}, expectedColumns []string) (map[string]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet returned no rows")
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		name := utils.CellString(cell)
		if name == "" {
			continue
		}

		headerMap[name] = i
	}

	for _, column := range expectedColumns {
		if _, found := headerMap[column]; found {
			return headerMap, nil
		}
	}

	return nil, fmt.Errorf("header %v contains none of the expected columns", rows[0])
}
