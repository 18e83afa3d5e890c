package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `brand,drink_name,type,calories
五十嵐,珍珠奶茶,奶茶,350
五十嵐,四季春茶,茶,5
清心福全,紅茶拿鐵,拿鐵,280
麻古茶坊,楊枝甘露,特調,400
`

func TestParseAndFindDrink(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, c.All(), 4)

	d, ok := c.FindDrink("五十嵐", "珍珠奶茶")
	require.True(t, ok)
	assert.Equal(t, 350, d.Calories)
	assert.Equal(t, "奶茶", d.Type)

	// Exact match only: same drink under the wrong brand misses.
	_, ok = c.FindDrink("清心福全", "珍珠奶茶")
	assert.False(t, ok)
}

func TestParseAcceptsReorderedColumns(t *testing.T) {
	csv := `calories,brand,type,drink_name
350,五十嵐,奶茶,珍珠奶茶
`
	c, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	d, ok := c.FindDrink("五十嵐", "珍珠奶茶")
	require.True(t, ok)
	assert.Equal(t, 350, d.Calories)
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse(strings.NewReader("brand,drink_name,calories\n五十嵐,珍珠奶茶,350\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")

	_, err = Parse(strings.NewReader(`brand,drink_name,type,calories
五十嵐,珍珠奶茶,奶茶,很多
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDrinksForBrandPreservesFileOrder(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"珍珠奶茶", "四季春茶"}, c.DrinksForBrand("五十嵐"))
	assert.Empty(t, c.DrinksForBrand("不存在的店"))
}

func TestSimilarDrinksMatchesBrandOrName(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// Known brand with an unknown drink: the brand's rows come back.
	similar := c.SimilarDrinks("五十嵐", "不存在")
	require.Len(t, similar, 2)

	// Unknown brand with a known drink: the name match comes back.
	similar = c.SimilarDrinks("不存在", "楊枝甘露")
	require.Len(t, similar, 1)
	assert.Equal(t, "麻古茶坊", similar[0].Brand)

	assert.Empty(t, c.SimilarDrinks("不存在", "也不存在"))
}
