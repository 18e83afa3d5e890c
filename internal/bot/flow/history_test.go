package flow

import (
	"errors"
	"testing"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/stretchr/testify/require"
)

func seedOrders(h *harness) {
	h.orders.orders = []model.Order{
		model.NewOrder("u1", "五十嵐", "50嵐 信義店", "珍珠奶茶", 350,
			time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)),
		model.NewOrder("u1", "清心福全", "清心福全 松山店", "紅茶拿鐵", 280,
			time.Date(2024, 4, 10, 18, 30, 0, 0, time.UTC)),
		model.NewOrder("u2", "麻古茶坊", "麻古 大安店", "楊枝甘露", 400,
			time.Date(2024, 4, 5, 12, 0, 0, 0, time.UTC)),
	}
}

func TestHistoryMenuLabelStartsFlow(t *testing.T) {
	h := newHarness(t)

	out := h.text(t, "u1", "歷史紀錄查詢")
	require.Contains(t, out.Text, "開始日期")
	require.Equal(t, model.PhaseAwaitingHistoryStart, h.phase(t, "u1"))
}

func TestHistoryBadStartDateKeepsPhase(t *testing.T) {
	h := newHarness(t)

	h.text(t, "u1", "歷史紀錄查詢")
	out := h.text(t, "u1", "2024-04-01")
	require.Contains(t, out.Text, "日期格式錯誤")
	require.Equal(t, model.PhaseAwaitingHistoryStart, h.phase(t, "u1"))
}

func TestHistoryStartThenEndPrompts(t *testing.T) {
	h := newHarness(t)

	h.text(t, "u1", "歷史紀錄查詢")
	out := h.text(t, "u1", "2024/04/01")
	require.Contains(t, out.Text, "結束日期")
	require.Equal(t, model.PhaseAwaitingHistoryEnd, h.phase(t, "u1"))

	out = h.text(t, "u1", "30/04/2024")
	require.Contains(t, out.Text, "日期格式錯誤")
	require.Equal(t, model.PhaseAwaitingHistoryEnd, h.phase(t, "u1"))
}

func TestHistoryEmptyRangeClearsAndReports(t *testing.T) {
	h := newHarness(t)

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	out := h.text(t, "u1", "2024/04/30")
	require.Contains(t, out.Text, "沒有找到您的訂單紀錄")
	require.Contains(t, out.Text, "2024-04-01 到 2024-04-30")
	require.Equal(t, model.PhaseIdle, h.phase(t, "u1"))
}

func TestHistoryReportsOwnOrdersNewestFirst(t *testing.T) {
	h := newHarness(t)
	seedOrders(h)

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	out := h.text(t, "u1", "2024/04/30")

	require.Contains(t, out.Text, "訂單紀錄")
	// Newest first; u2's order is not visible.
	require.Contains(t, out.Text, "1. 清心福全 - 紅茶拿鐵")
	require.Contains(t, out.Text, "2. 五十嵐 - 珍珠奶茶")
	require.NotContains(t, out.Text, "楊枝甘露")
	require.Contains(t, out.Text, "請回答「要」或「不要」")
	require.Equal(t, model.PhaseAwaitingStatsDecision, h.phase(t, "u1"))
}

// Reversed ranges are not validated: they read back as empty and end the
// flow with a "no orders" report.
func TestHistoryReversedRangeReadsAsEmpty(t *testing.T) {
	h := newHarness(t)
	seedOrders(h)

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/30")
	out := h.text(t, "u1", "2024/04/01")
	require.Contains(t, out.Text, "沒有找到您的訂單紀錄")
	require.Equal(t, model.PhaseIdle, h.phase(t, "u1"))
}

func TestHistoryQueryFailureClearsFlow(t *testing.T) {
	h := newHarness(t)
	h.orders.queryErr = errors.New("log unavailable")

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	out := h.text(t, "u1", "2024/04/30")
	require.Contains(t, out.Text, "發生錯誤")
	require.Equal(t, model.PhaseIdle, h.phase(t, "u1"))
}

func TestStatsYesRendersChart(t *testing.T) {
	h := newHarness(t)
	seedOrders(h)

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	h.text(t, "u1", "2024/04/30")

	out := h.text(t, "u1", "要")
	require.Equal(t, model.ReplyImage, out.Kind)
	require.Equal(t, "https://quickchart.example/c/abc123", out.ImageURL)
	require.Equal(t, model.PhaseIdle, h.phase(t, "u1"))
}

func TestStatsNoThanksAndClears(t *testing.T) {
	h := newHarness(t)
	seedOrders(h)

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	h.text(t, "u1", "2024/04/30")

	out := h.text(t, "u1", "不要")
	require.Contains(t, out.Text, "謝謝您的使用")
	require.Equal(t, model.PhaseIdle, h.phase(t, "u1"))
}

func TestStatsOtherAnswerReprompts(t *testing.T) {
	h := newHarness(t)
	seedOrders(h)

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	h.text(t, "u1", "2024/04/30")

	out := h.text(t, "u1", "好啊")
	require.Contains(t, out.Text, "請回答「要」或「不要」")
	require.Equal(t, model.PhaseAwaitingStatsDecision, h.phase(t, "u1"))
}

func TestChartFailureClearsWithError(t *testing.T) {
	h := newHarness(t)
	seedOrders(h)
	h.charts.err = errors.New("renderer down")

	h.text(t, "u1", "歷史紀錄查詢")
	h.text(t, "u1", "2024/04/01")
	h.text(t, "u1", "2024/04/30")

	out := h.text(t, "u1", "要")
	require.Contains(t, out.Text, "生成統計圖表時發生錯誤")
	require.Equal(t, model.PhaseIdle, h.phase(t, "u1"))
}
