// Package intent resolves a free-text message plus the current conversation
// phase into exactly one intent of a closed set. Resolution is total: every
// input maps to some intent, with "treat unmatched text as a brand name" as
// the documented last-resort rule of the Idle phase.
package intent

import (
	"strings"

	"github.com/drinkcal-bot/server/internal/bot/model"
)

// Kind enumerates every intent the classifier can produce.
type Kind int

const (
	KindUnknown Kind = iota

	// Idle-phase intents, in precedence order.
	KindMenuPrompt
	KindCompareDrinks
	KindMalformedCompare
	KindRecommendDrinks
	KindSearchDrink
	KindMalformedSearch
	KindSelectStoreForOrder

	// Phase-specific slot intents.
	KindProvideStoreIndex
	KindProvideDrinkName
	KindProvideHistoryStartDate
	KindProvideHistoryEndDate
	KindProvideStatsDecision

	// Guidance: text arrived while a location share was expected.
	KindAwaitingLocationText
)

// Menu identifies which fixed menu label matched.
type Menu int

const (
	MenuNone Menu = iota
	MenuSearchCalories
	MenuCompareCalories
	MenuRecommend
	MenuOrder
	MenuHistory
	MenuWebsiteLinks
)

// Menu command labels as they appear on the rich menu.
const (
	labelSearchCalories  = "查詢飲料熱量"
	labelCompareCalories = "飲料熱量比較"
	labelRecommend       = "AI 飲料推薦"
	labelOrder           = "點餐資料儲存"
	labelHistory         = "歷史紀錄查詢"
	labelWebsiteLinks    = "官網菜單連結"
)

// Marker tokens of the structured Idle commands.
const (
	compareMarker    = "比較"
	conjunctionToken = "和"
	possessiveToken  = "的"
	desirePrefixA    = "想要"
	desirePrefixB    = "我想"
)

// BrandDrink is one parsed "[brand]的[drink]" clause.
type BrandDrink struct {
	Brand string
	Drink string
}

// Intent is the classification result. Kind is always set; the payload
// fields are populated per kind.
type Intent struct {
	Kind  Kind
	Menu  Menu          // KindMenuPrompt
	Query BrandDrink    // KindSearchDrink
	Pair  [2]BrandDrink // KindCompareDrinks
	Brand string        // KindSelectStoreForOrder
	Text  string        // raw text, for slot intents and recommendation
}

// Classify maps (phase, raw text) to one intent. Awaiting* phases do not
// re-run the Idle rules: the text is taken as the slot value the phase
// expects.
func Classify(phase model.Phase, text string) Intent {
	trimmed := strings.TrimSpace(text)

	switch phase {
	case model.PhaseAwaitingLocation:
		return Intent{Kind: KindAwaitingLocationText, Text: trimmed}
	case model.PhaseAwaitingStoreSelection:
		return Intent{Kind: KindProvideStoreIndex, Text: trimmed}
	case model.PhaseAwaitingDrink:
		return Intent{Kind: KindProvideDrinkName, Text: trimmed}
	case model.PhaseAwaitingHistoryStart:
		return Intent{Kind: KindProvideHistoryStartDate, Text: trimmed}
	case model.PhaseAwaitingHistoryEnd:
		return Intent{Kind: KindProvideHistoryEndDate, Text: trimmed}
	case model.PhaseAwaitingStatsDecision:
		return Intent{Kind: KindProvideStatsDecision, Text: trimmed}
	}

	return classifyIdle(trimmed)
}

// classifyIdle applies the ordered Idle rules; the first match wins.
func classifyIdle(text string) Intent {
	if menu := matchMenu(text); menu != MenuNone {
		return Intent{Kind: KindMenuPrompt, Menu: menu}
	}

	if strings.Contains(text, compareMarker) {
		pair, ok := parseComparison(text)
		if !ok {
			return Intent{Kind: KindMalformedCompare, Text: text}
		}
		return Intent{Kind: KindCompareDrinks, Pair: pair}
	}

	if strings.HasPrefix(text, desirePrefixA) || strings.HasPrefix(text, desirePrefixB) {
		return Intent{Kind: KindRecommendDrinks, Text: text}
	}

	if strings.Contains(text, possessiveToken) {
		bd, ok := splitBrandDrink(text)
		if !ok {
			return Intent{Kind: KindMalformedSearch, Text: text}
		}
		return Intent{Kind: KindSearchDrink, Query: bd}
	}

	return Intent{Kind: KindSelectStoreForOrder, Brand: text}
}

func matchMenu(text string) Menu {
	switch text {
	case labelSearchCalories:
		return MenuSearchCalories
	case labelCompareCalories:
		return MenuCompareCalories
	case labelRecommend:
		return MenuRecommend
	case labelOrder:
		return MenuOrder
	case labelHistory:
		return MenuHistory
	case labelWebsiteLinks:
		return MenuWebsiteLinks
	}
	return MenuNone
}

// splitBrandDrink splits one "[brand]的[drink]" clause on the first 的.
// Both sides must be non-empty after trimming.
func splitBrandDrink(s string) (BrandDrink, bool) {
	parts := strings.SplitN(s, possessiveToken, 2)
	if len(parts) != 2 {
		return BrandDrink{}, false
	}
	brand := strings.TrimSpace(parts[0])
	drink := strings.TrimSpace(parts[1])
	if brand == "" || drink == "" {
		return BrandDrink{}, false
	}
	return BrandDrink{Brand: brand, Drink: drink}, true
}

// parseComparison parses "比較[A]的[X]和[B]的[Y]": strip the marker, split
// on the conjunction into exactly two parts, then parse each clause.
func parseComparison(text string) ([2]BrandDrink, bool) {
	var pair [2]BrandDrink

	stripped := strings.ReplaceAll(text, compareMarker, "")
	parts := strings.Split(stripped, conjunctionToken)
	if len(parts) != 2 {
		return pair, false
	}
	for i, part := range parts {
		bd, ok := splitBrandDrink(strings.TrimSpace(part))
		if !ok {
			return pair, false
		}
		pair[i] = bd
	}
	return pair, true
}
