// Package reply turns structured results into the user-facing Traditional
// Chinese texts of the bot.
package reply

import (
	"fmt"
	"strings"

	"github.com/drinkcal-bot/server/internal/bot/model"
)

// Canned instructional replies for the fixed menu commands.
const (
	SearchHelp = "🔎請輸入飲料資訊。\n格式：[店家]的[飲料名稱]\n例如：五十嵐的珍珠奶茶"

	CompareHelp = "🔥請輸入兩店家的飲料資訊\n格式：比較店家A的飲料A和店家B的飲料B\n例如：比較五十嵐的珍珠奶茶和清心福全的紅茶拿鐵"

	RecommendHelp = "💬請告訴我你想要什麼樣的飲料，例如：\n- 想要低熱量的飲料\n- 想要茶類的飲料\n- 想要有珍珠的飲料"

	OrderHelp = "請先幫我選擇飲料店～🧋\n（五十嵐、清心福全、麻古茶坊）"

	HistoryStartPrompt = "請輸入開始日期（格式：YYYY/MM/DD）"
)

// Format-help replies for malformed structured commands.
const (
	MalformedSearch = "請使用正確的格式：[店家]的[飲料名稱]\n例如：五十嵐的珍珠奶茶"

	MalformedCompare = "請使用正確的格式：比較[店家A]的[飲料A]和[店家B]的[飲料B]\n例如：比較五十嵐的珍珠奶茶和清心的烏龍綠茶"
)

// Order-flow replies.
const (
	AskLocation = "📍請傳送您的位置資訊～\n我會幫您搜尋附近的飲料店！"

	LocationGuidance = "📍請用 LINE 的位置訊息傳送您的位置，我才能搜尋附近的店家喔！"

	LocationWithoutBrand = "請先幫我選擇飲料店～🧋（五十嵐、清心福全、麻古茶坊）"

	NoStoresFound = "找不到附近的店家噢～請重新選擇位置。"

	InvalidStoreIndex = "請輸入有效的店家編號（1-3）"

	OrderSaved = "訂單已成功儲存🎉"

	OrderSaveFailed = "儲存訂單時發生錯誤，請稍後再試。"

	RestartOrderFlow = "請重新開始點餐流程"
)

// History-flow replies.
const (
	HistoryEndPrompt = "請輸入結束日期（格式：YYYY/MM/DD）"

	BadDateFormat = "日期格式錯誤，請使用 YYYY/MM/DD 格式（例如：2024/04/30）"

	StatsPrompt = "\n想要查看統計資料嗎😁我能幫你畫出圖表喔～\n\n👉🏻請回答「要」或「不要」"

	StatsReprompt = "請回答「要」或「不要」"

	StatsThanks = "謝謝您的使用！如果之後需要查看統計資料，隨時都可以查詢歷史紀錄。"

	ChartFailed = "生成統計圖表時發生錯誤，請稍後再試。"
)

// Generic failure replies.
const (
	SearchFailed = "處理查詢時發生錯誤，請稍後再試。"

	RecommendFailed = "抱歉，在處理您的請求時發生錯誤，請稍後再試。"

	SessionCorrupt = "對話狀態異常，請重新開始流程。"

	SystemBusy = "系統忙碌中，請稍後再試。"

	LocationSearchFailed = "處理位置資訊時發生錯誤，請稍後再試。"

	HistoryQueryFailed = "查詢歷史紀錄時發生錯誤，請稍後再試。"
)

// StoreList renders the numbered candidate list after a location search.
func StoreList(stores []model.Store) string {
	var b strings.Builder
	b.WriteString("以下是我找到的店家👉🏻\n請選擇一間😊\n\n")
	for i, s := range stores {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Name)
		fmt.Fprintf(&b, "   評分：%s\n", ratingText(s.Rating))
		fmt.Fprintf(&b, "   距離：%d 公尺\n\n", s.Distance)
	}
	b.WriteString("請輸入店家的編號（1-3）")
	return b.String()
}

func ratingText(r *float64) string {
	if r == nil {
		return "無評分"
	}
	return fmt.Sprintf("%.1f", *r)
}

// StoreChosen confirms the selected store and asks for the drink name.
func StoreChosen(s model.Store) string {
	return fmt.Sprintf("收到🫡\n您選擇了：%s\n最後請輸入您要點的飲料名稱", s.Name)
}

// UnknownDrink lists the brand's full menu when an ordered drink is not in
// the catalog.
func UnknownDrink(drinkName, brand string, menu []string) string {
	return fmt.Sprintf("找不到飲料：%s\n\n%s的飲料有：\n%s", drinkName, brand, strings.Join(menu, "\n"))
}

// DrinkInfo renders one calorie lookup result.
func DrinkInfo(d model.Drink) string {
	return fmt.Sprintf("%s %s：\n- 熱量：%d 大卡", d.Brand, d.Name, d.Calories)
}

// DrinkNotFound is the answer when neither an exact nor a similar match
// exists.
const DrinkNotFound = "找不到這個飲料，請確認店家名稱和飲料名稱是否正確"

// SimilarDrinks renders the alternatives offered after a failed exact
// lookup.
func SimilarDrinks(drinks []model.Drink) string {
	var b strings.Builder
	b.WriteString("找不到完全符合的飲料，以下是相似的飲料：\n\n")
	for _, d := range drinks {
		fmt.Fprintf(&b, "%s %s：%d 大卡\n", d.Brand, d.Name, d.Calories)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Comparison renders both drinks and their absolute calorie difference.
func Comparison(a, b model.Drink) string {
	diff := a.Calories - b.Calories
	if diff < 0 {
		diff = -diff
	}
	return fmt.Sprintf("%s\n\n%s\n\n熱量差異：%d 大卡", DrinkInfo(a), DrinkInfo(b), diff)
}

// ComparisonMiss reports a failed comparison lookup with per-side
// alternatives.
func ComparisonMiss(brand1 string, similar1 []model.Drink, brand2 string, similar2 []model.Drink) string {
	var b strings.Builder
	b.WriteString("找不到指定的飲料，請確認店家名稱和飲料名稱是否正確\n")
	if len(similar1) > 0 {
		fmt.Fprintf(&b, "\n在 %s 找到的相似飲料：\n", brand1)
		for _, d := range similar1 {
			fmt.Fprintf(&b, "- %s\n", d.Name)
		}
	}
	if len(similar2) > 0 {
		fmt.Fprintf(&b, "\n在 %s 找到的相似飲料：\n", brand2)
		for _, d := range similar2 {
			fmt.Fprintf(&b, "- %s\n", d.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NoOrders reports an empty history range.
func NoOrders(start, end string) string {
	return fmt.Sprintf("在 %s 到 %s 期間沒有找到您的訂單紀錄", start, end)
}

// OrderHistory renders the enumerated order list followed by the
// statistics prompt.
func OrderHistory(start, end string, orders []model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s 到 %s 的訂單紀錄：\n\n", start, end)
	for i, o := range orders {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, o.Brand, o.DrinkName)
		fmt.Fprintf(&b, "   地點：%s\n", o.Location)
		fmt.Fprintf(&b, "   熱量：%d 卡路里\n", o.Calories)
		fmt.Fprintf(&b, "   時間：%s\n\n", o.CreatedAt)
	}
	b.WriteString(StatsPrompt)
	return b.String()
}
