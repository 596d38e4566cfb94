package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zscoreFixture() [][]interface{} {
	return [][]interface{}{
		{"Ticker", "2024Y", "2023Y", "2022Y", "2021Y", "2020Y"},
		{"aaa", "3,12", "2.95", "2,51", "1.98", "2,02"},
		{"BBB", "1.15", "", "n/a", "0,87", "1.22"},
	}
}

func TestNormalizeZScoreRows(t *testing.T) {
	t.Run("normalizes fixture rows", func(t *testing.T) {
		records, err := NormalizeZScoreRows(zscoreFixture())

		require.NoError(t, err)
		require.Len(t, records, 2)

		aaa := records[0]
		assert.Equal(t, "AAA", aaa.Ticker)
		require.NotNil(t, aaa.Year2024)
		assert.Equal(t, 3.12, *aaa.Year2024)
		require.NotNil(t, aaa.Year2023)
		assert.Equal(t, 2.95, *aaa.Year2023)
		require.NotNil(t, aaa.Year2020)
		assert.Equal(t, 2.02, *aaa.Year2020)

		bbb := records[1]
		assert.Equal(t, "BBB", bbb.Ticker)
		assert.Nil(t, bbb.Year2023, "empty cell should be nil")
		assert.Nil(t, bbb.Year2022, "unparseable cell should be nil")
		require.NotNil(t, bbb.Year2021)
		assert.Equal(t, 0.87, *bbb.Year2021)
	})

	t.Run("skips rows without ticker", func(t *testing.T) {
		rows := zscoreFixture()
		rows = append(rows, []interface{}{"", "1.0", "1.0", "1.0", "1.0", "1.0"})
		rows = append(rows, []interface{}{"   ", "1.0", "1.0", "1.0", "1.0", "1.0"})

		records, err := NormalizeZScoreRows(rows)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("skips short rows", func(t *testing.T) {
		rows := zscoreFixture()
		rows = append(rows, []interface{}{"CCC"})

		records, err := NormalizeZScoreRows(rows)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("tolerates missing year columns", func(t *testing.T) {
		rows := [][]interface{}{
			{"Ticker", "2024Y"},
			{"DDD", "1.5"},
		}

		records, err := NormalizeZScoreRows(rows)

		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].Year2024)
		assert.Equal(t, 1.5, *records[0].Year2024)
		assert.Nil(t, records[0].Year2023)
	})

	t.Run("header only yields no records", func(t *testing.T) {
		records, err := NormalizeZScoreRows(zscoreFixture()[:1])

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("empty sheet is a schema error", func(t *testing.T) {
		_, err := NormalizeZScoreRows(nil)

		assert.Error(t, err)
	})

	t.Run("unrecognized header is a schema error", func(t *testing.T) {
		_, err := NormalizeZScoreRows([][]interface{}{
			{"Symbol", "Q1", "Q2"},
			{"AAA", "1.0", "2.0"},
		})

		assert.Error(t, err)
	})
}
