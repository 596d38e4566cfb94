package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatCell(t *testing.T) {
	t.Run("plain decimal", func(t *testing.T) {
		v := ParseFloatCell("3.25")

		assert.NotNil(t, v)
		assert.Equal(t, 3.25, *v)
	})

	t.Run("comma as decimal separator", func(t *testing.T) {
		v := ParseFloatCell("2,87")

		assert.NotNil(t, v)
		assert.Equal(t, 2.87, *v)
	})

	t.Run("negative value", func(t *testing.T) {
		v := ParseFloatCell("-0,41")

		assert.NotNil(t, v)
		assert.Equal(t, -0.41, *v)
	})

	t.Run("empty cell", func(t *testing.T) {
		assert.Nil(t, ParseFloatCell(""))
		assert.Nil(t, ParseFloatCell("   "))
	})

	t.Run("unparseable cell yields nil", func(t *testing.T) {
		assert.Nil(t, ParseFloatCell("n/a"))
	})
}

func TestParseIntCell(t *testing.T) {
	t.Run("valid integer", func(t *testing.T) {
		v := ParseIntCell("7")

		assert.NotNil(t, v)
		assert.Equal(t, 7, *v)
	})

	t.Run("whitespace", func(t *testing.T) {
		v := ParseIntCell(" 4 ")

		assert.NotNil(t, v)
		assert.Equal(t, 4, *v)
	})

	t.Run("empty and invalid cells yield nil", func(t *testing.T) {
		assert.Nil(t, ParseIntCell(""))
		assert.Nil(t, ParseIntCell("4.5"))
		assert.Nil(t, ParseIntCell("abc"))
	})
}

func TestParseBoolCell(t *testing.T) {
	assert.True(t, ParseBoolCell("1"))
	assert.True(t, ParseBoolCell("true"))
	assert.True(t, ParseBoolCell("True"))
	assert.True(t, ParseBoolCell("TRUE"))
	assert.True(t, ParseBoolCell(" 1 "))

	assert.False(t, ParseBoolCell("0"))
	assert.False(t, ParseBoolCell(""))
	assert.False(t, ParseBoolCell("yes"))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "AAA", CellString("AAA"))
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "", CellString(42.0))
}
