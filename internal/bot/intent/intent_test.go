package intent

import (
	"testing"

	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIdleMenuLabels(t *testing.T) {
	cases := []struct {
		text string
		menu Menu
	}{
		{"查詢飲料熱量", MenuSearchCalories},
		{"飲料熱量比較", MenuCompareCalories},
		{"AI 飲料推薦", MenuRecommend},
		{"點餐資料儲存", MenuOrder},
		{"歷史紀錄查詢", MenuHistory},
		{"官網菜單連結", MenuWebsiteLinks},
	}
	for _, tc := range cases {
		it := Classify(model.PhaseIdle, tc.text)
		require.Equal(t, KindMenuPrompt, it.Kind, tc.text)
		assert.Equal(t, tc.menu, it.Menu, tc.text)
	}
}

func TestClassifyIdleComparison(t *testing.T) {
	it := Classify(model.PhaseIdle, "比較五十嵐的珍珠奶茶和清心福全的紅茶拿鐵")
	require.Equal(t, KindCompareDrinks, it.Kind)
	assert.Equal(t, BrandDrink{Brand: "五十嵐", Drink: "珍珠奶茶"}, it.Pair[0])
	assert.Equal(t, BrandDrink{Brand: "清心福全", Drink: "紅茶拿鐵"}, it.Pair[1])
}

func TestClassifyIdleComparisonMalformed(t *testing.T) {
	cases := []string{
		"比較",
		"比較五十嵐的珍珠奶茶",                  // no conjunction
		"比較五十嵐珍珠奶茶和清心烏龍綠茶",           // missing 的 on both sides
		"比較五十嵐的珍珠奶茶和清心的烏龍綠茶和麻古的楊枝甘露", // two conjunctions
		"比較五十嵐的和清心的烏龍綠茶",              // empty drink on one side
	}
	for _, text := range cases {
		it := Classify(model.PhaseIdle, text)
		assert.Equal(t, KindMalformedCompare, it.Kind, text)
	}
}

func TestClassifyIdleRecommendPrefix(t *testing.T) {
	for _, text := range []string{"想要低熱量的飲料", "我想喝有珍珠的"} {
		it := Classify(model.PhaseIdle, text)
		require.Equal(t, KindRecommendDrinks, it.Kind, text)
		assert.Equal(t, text, it.Text)
	}
}

func TestClassifyIdleSearch(t *testing.T) {
	it := Classify(model.PhaseIdle, "五十嵐的珍珠奶茶")
	require.Equal(t, KindSearchDrink, it.Kind)
	assert.Equal(t, BrandDrink{Brand: "五十嵐", Drink: "珍珠奶茶"}, it.Query)

	// Split happens on the first 的 only.
	it = Classify(model.PhaseIdle, "麻古茶坊的芝士奶蓋的綠茶")
	require.Equal(t, KindSearchDrink, it.Kind)
	assert.Equal(t, BrandDrink{Brand: "麻古茶坊", Drink: "芝士奶蓋的綠茶"}, it.Query)
}

func TestClassifyIdleSearchMalformed(t *testing.T) {
	for _, text := range []string{"的珍珠奶茶", "五十嵐的"} {
		it := Classify(model.PhaseIdle, text)
		assert.Equal(t, KindMalformedSearch, it.Kind, text)
	}
}

func TestClassifyIdleBrandFallback(t *testing.T) {
	it := Classify(model.PhaseIdle, "五十嵐")
	require.Equal(t, KindSelectStoreForOrder, it.Kind)
	assert.Equal(t, "五十嵐", it.Brand)
}

// The same text maps to different intents depending on the phase.
func TestClassifyIsPhaseSensitive(t *testing.T) {
	text := "五十嵐的珍珠奶茶"

	assert.Equal(t, KindSearchDrink, Classify(model.PhaseIdle, text).Kind)
	assert.Equal(t, KindProvideDrinkName, Classify(model.PhaseAwaitingDrink, text).Kind)
	assert.Equal(t, KindProvideStoreIndex, Classify(model.PhaseAwaitingStoreSelection, text).Kind)
	assert.Equal(t, KindProvideHistoryStartDate, Classify(model.PhaseAwaitingHistoryStart, text).Kind)
	assert.Equal(t, KindProvideHistoryEndDate, Classify(model.PhaseAwaitingHistoryEnd, text).Kind)
	assert.Equal(t, KindProvideStatsDecision, Classify(model.PhaseAwaitingStatsDecision, text).Kind)
	assert.Equal(t, KindAwaitingLocationText, Classify(model.PhaseAwaitingLocation, text).Kind)
}

func TestClassifyTrimsSlotText(t *testing.T) {
	it := Classify(model.PhaseAwaitingStoreSelection, " 2 ")
	require.Equal(t, KindProvideStoreIndex, it.Kind)
	assert.Equal(t, "2", it.Text)
}
