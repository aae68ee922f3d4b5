package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortMainDishes_PriorityOrder(t *testing.T) {
	block := "<b>Main 1</b>: Rice, Steak Frites, Chicken Parm, Green Beans"

	got := sortMainDishes(block)

	// chicken outranks steak; unmatched dishes trail in input order.
	assert.Equal(t, "<b>Main 1</b>: <b>Chicken Parm</b>, <b>Steak Frites</b>, Rice, Green Beans", got)
}

func TestSortMainDishes_Dedup(t *testing.T) {
	block := "<b>Main 1</b>: Tacos, Tacos, Rice, Rice"

	got := sortMainDishes(block)

	assert.Equal(t, "<b>Main 1</b>: <b>Tacos</b>, Rice", got)
}

func TestSortMainDishes_AmpersandPrefixStripped(t *testing.T) {
	block := "<b>Main 1</b>: Mac & Cheese, & Collard Greens"

	got := sortMainDishes(block)

	assert.Equal(t, "<b>Main 1</b>: Mac & Cheese, Collard Greens", got)
}

func TestSortMainDishes_NoSeparatorPassthrough(t *testing.T) {
	assert.Equal(t, "Happy Thanksgiving!", sortMainDishes("Happy Thanksgiving!"))
}

func TestSortMainDishes_MultisetPreserved(t *testing.T) {
	tests := []struct {
		name   string
		dishes []string
	}{
		{"no matches", []string{"Rice", "Beans", "Greens"}},
		{"all match", []string{"Chicken Wings", "Beef Stew", "Fish Tacos"}},
		{"mixed", []string{"Soup", "Pulled Pork", "Cornbread", "Seitan Strips"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortMainDishes("<b>Main 1</b>: " + strings.Join(tt.dishes, ", "))

			_, rest, ok := strings.Cut(got, ": ")
			require.True(t, ok)

			out := make(map[string]int)
			for _, d := range strings.Split(rest, ", ") {
				out[StripTags(d)]++
			}
			require.Len(t, out, len(tt.dishes), "no dish may be dropped or duplicated")
			for _, d := range tt.dishes {
				assert.Equal(t, 1, out[d], "dish %q", d)
			}
		})
	}
}

func TestSortMainDishes_KeywordPriorityAcrossDishes(t *testing.T) {
	// Every keyword-matched dish must precede every unmatched one, and
	// earlier keywords must precede later keywords.
	got := sortMainDishes("<b>Main 2</b>: Veg Fried Rice, Fish Tacos, Plain Naan")

	_, rest, ok := strings.Cut(got, ": ")
	require.True(t, ok)
	dishes := strings.Split(rest, ", ")
	require.Len(t, dishes, 3)

	// "taco" ranks ahead of "fried rice"; Plain Naan matches nothing.
	assert.Equal(t, "<b>Fish Tacos</b>", dishes[0])
	assert.Equal(t, "<b>Veg Fried Rice</b>", dishes[1])
	assert.Equal(t, "Plain Naan", dishes[2])
}
