package flow

import (
	"context"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/drinkcal-bot/server/internal/bot/reply"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// Date input arrives as YYYY/MM/DD and is normalized to the zero-padded
// YYYY-MM-DD form the order log is filtered on.
const (
	dateInputLayout  = "2006/01/02"
	dateStoredLayout = "2006-01-02"
)

func parseDateInput(text string) (string, bool) {
	t, err := time.Parse(dateInputLayout, text)
	if err != nil {
		return "", false
	}
	return t.Format(dateStoredLayout), true
}

// provideHistoryStart collects the range start. A malformed date keeps the
// phase unchanged.
func (e *Engine) provideHistoryStart(ctx context.Context, userID, text string) model.Reply {
	start, ok := parseDateInput(text)
	if !ok {
		return model.TextReply(reply.BadDateFormat)
	}

	if err := e.sessions.Save(ctx, userID, model.AtAwaitingHistoryEnd(start)); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to save session")
		return e.clearAndReply(ctx, userID, reply.SystemBusy)
	}
	return model.TextReply(reply.HistoryEndPrompt)
}

// provideHistoryEnd collects the range end and runs the query. A reversed
// range is not validated here: it reads as an empty result, which clears
// the state and reports "no orders".
func (e *Engine) provideHistoryEnd(ctx context.Context, userID string, sess model.Session, text string) model.Reply {
	slots, err := sess.HistoryEndSlots()
	if err != nil {
		return e.restart(ctx, userID, err)
	}

	end, ok := parseDateInput(text)
	if !ok {
		return model.TextReply(reply.BadDateFormat)
	}

	queryCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	orders, err := e.orders.QueryRange(queryCtx, userID, slots.Start, end)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("order history query failed")
		return e.clearAndReply(ctx, userID, reply.HistoryQueryFailed)
	}
	if len(orders) == 0 {
		return e.clearAndReply(ctx, userID, reply.NoOrders(slots.Start, end))
	}

	if err := e.sessions.Save(ctx, userID, model.AtAwaitingStatsDecision(slots.Start, end)); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to save session")
		return e.clearAndReply(ctx, userID, reply.SystemBusy)
	}
	return model.TextReply(reply.OrderHistory(slots.Start, end, orders))
}

// provideStatsDecision handles the 要/不要 answer. Anything else re-prompts
// with the phase unchanged.
func (e *Engine) provideStatsDecision(ctx context.Context, userID string, sess model.Session, text string) model.Reply {
	slots, err := sess.StatsDecisionSlots()
	if err != nil {
		return e.restart(ctx, userID, err)
	}

	switch text {
	case "要":
		return e.renderStatistics(ctx, userID, slots)
	case "不要":
		return e.clearAndReply(ctx, userID, reply.StatsThanks)
	default:
		return model.TextReply(reply.StatsReprompt)
	}
}

// renderStatistics re-queries the decided range and hands the order set to
// the chart renderer. The flow ends here either way: success returns the
// chart image, failure clears the state with an error reply.
func (e *Engine) renderStatistics(ctx context.Context, userID string, slots model.StatsDecisionSlots) model.Reply {
	queryCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	orders, err := e.orders.QueryRange(queryCtx, userID, slots.Start, slots.End)
	if err != nil || len(orders) == 0 {
		logx.Error().Err(err).Str("userID", userID).Msg("statistics query failed")
		return e.clearAndReply(ctx, userID, reply.ChartFailed)
	}

	renderCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	url, err := e.charts.Render(renderCtx, orders)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("chart rendering failed")
		return e.clearAndReply(ctx, userID, reply.ChartFailed)
	}

	if err := e.sessions.Clear(ctx, userID); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to clear session after chart")
	}
	return model.ImageReply(url)
}
