package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSpecial(t *testing.T) {
	raws := []RawMeal{{
		Title:       "Essie Mae's",
		Description: `Open late tonight!<b>Weekly Special</b>: Mozzarella Sticks &amp; Marinara`,
	}}

	line, ok := ExtractSpecial(raws)

	require.True(t, ok)
	assert.Equal(t, ": Mozzarella Sticks & Marinara", line)
}

func TestExtractSpecial_NoRecords(t *testing.T) {
	_, ok := ExtractSpecial(nil)
	assert.False(t, ok)
}

func TestExtractSpecial_NoKeywordSegment(t *testing.T) {
	raws := []RawMeal{{Description: `<b>Hours</b> open until midnight`}}

	_, ok := ExtractSpecial(raws)

	assert.False(t, ok)
}

func TestExtractSpecial_KeywordCaseInsensitive(t *testing.T) {
	raws := []RawMeal{{Description: `<b>SPECIAL</b> grilled cheese`}}

	line, ok := ExtractSpecial(raws)

	require.True(t, ok)
	assert.Equal(t, "grilled cheese", line)
}

func TestExtractSpecial_OnlyFirstRecordConsidered(t *testing.T) {
	raws := []RawMeal{
		{Description: `no bold segments here`},
		{Description: `<b>Special</b> ignored`},
	}

	_, ok := ExtractSpecial(raws)

	assert.False(t, ok)
}

func TestExtractSpecial_EmptyAfterKeyword(t *testing.T) {
	raws := []RawMeal{{Description: `<b>special</b>`}}

	line, ok := ExtractSpecial(raws)

	require.True(t, ok)
	assert.Equal(t, "", line)
}
