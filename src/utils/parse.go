package utils

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CellString converts a raw spreadsheet cell to its string form. The Sheets
// API returns cells as interface{} values; anything that is not already a
// string comes back empty.
func CellString(cell interface{}) string {
	if cell == nil {
		return ""
	}

	s, ok := cell.(string)
	if !ok {
		return ""
	}

	return s
}

// ParseFloatCell parses a numeric cell, accepting comma as the decimal
// separator. Unparseable cells yield nil rather than an error so that a
// single bad cell never fails a whole sheet sync.
func ParseFloatCell(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	cleaned := strings.ReplaceAll(trimmed, ",", ".")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Warnf("could not parse numeric cell: %v", value)
		return nil
	}

	return &f
}

// ParseIntCell parses an integer cell, yielding nil on bad input.
func ParseIntCell(value string) *int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	i, err := strconv.Atoi(trimmed)
	if err != nil {
		log.Warnf("could not parse integer cell: %v", value)
		return nil
	}

	return &i
}

// ParseBoolCell parses a criteria cell. The sheet encodes criteria as "1"/"0"
// with the occasional textual variant.
func ParseBoolCell(value string) bool {
	switch strings.TrimSpace(value) {
	case "1", "true", "True", "TRUE":
		return true
	default:
		return false
	}
}
