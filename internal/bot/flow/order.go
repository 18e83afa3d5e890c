package flow

import (
	"context"
	"strconv"

	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/drinkcal-bot/server/internal/bot/reply"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// startOrder begins the order flow: the whole message is taken as a brand
// name, the documented last-resort rule of the Idle phase.
func (e *Engine) startOrder(ctx context.Context, userID, brand string) model.Reply {
	if err := e.sessions.Save(ctx, userID, model.AtAwaitingLocation(brand)); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to save session")
		return model.TextReply(reply.SystemBusy)
	}
	return model.TextReply(reply.AskLocation)
}

// handleLocation accepts a location share. Only AwaitingLocation proceeds;
// Idle gets a "pick a brand first" error, any other phase a guidance
// message with the phase unchanged.
func (e *Engine) handleLocation(ctx context.Context, userID string, sess model.Session, loc model.LatLng) model.Reply {
	switch sess.Phase {
	case model.PhaseAwaitingLocation:
		// fall through to the search below
	case model.PhaseIdle:
		return model.TextReply(reply.LocationWithoutBrand)
	default:
		return model.TextReply(phasePrompt(sess.Phase))
	}

	slots, err := sess.LocationSlots()
	if err != nil {
		return e.restart(ctx, userID, err)
	}

	searchCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	stores, err := e.stores.SearchNearby(searchCtx, slots.Brand, loc)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Str("brand", slots.Brand).Msg("store search failed")
		return e.clearAndReply(ctx, userID, reply.LocationSearchFailed)
	}
	if len(stores) == 0 {
		// Stay in AwaitingLocation so the user can try another spot.
		return model.TextReply(reply.NoStoresFound)
	}

	if err := e.sessions.Save(ctx, userID, model.AtAwaitingStoreSelection(slots.Brand, stores)); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to save session")
		return e.clearAndReply(ctx, userID, reply.SystemBusy)
	}
	return model.TextReply(reply.StoreList(stores))
}

// provideStoreIndex resolves the numbered store choice. An index that does
// not parse or is out of [1, len(stores)] keeps the phase unchanged.
func (e *Engine) provideStoreIndex(ctx context.Context, userID string, sess model.Session, text string) model.Reply {
	slots, err := sess.StoreSelectionSlots()
	if err != nil {
		return e.restart(ctx, userID, err)
	}

	k, err := strconv.Atoi(text)
	if err != nil || k < 1 || k > len(slots.Stores) {
		return model.TextReply(reply.InvalidStoreIndex)
	}
	selected := slots.Stores[k-1]

	if err := e.sessions.Save(ctx, userID, model.AtAwaitingDrink(slots.Brand, selected)); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to save session")
		return e.clearAndReply(ctx, userID, reply.SystemBusy)
	}
	return model.TextReply(reply.StoreChosen(selected))
}

// provideDrink finishes the order flow: look up calories, persist the
// order, clear the state. An unknown drink lists the brand menu and stays
// in AwaitingDrink; a persistence failure also stays so the user can retry
// by resending the drink name.
func (e *Engine) provideDrink(ctx context.Context, userID string, sess model.Session, drinkName string) model.Reply {
	slots, err := sess.DrinkSlots()
	if err != nil {
		return e.restart(ctx, userID, err)
	}

	drink, ok := e.catalog.FindDrink(slots.Brand, drinkName)
	if !ok {
		menu := e.catalog.DrinksForBrand(slots.Brand)
		return model.TextReply(reply.UnknownDrink(drinkName, slots.Brand, menu))
	}

	order := model.NewOrder(userID, slots.Brand, slots.SelectedStore.Name, drink.Name, drink.Calories, e.now())

	persistCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.orders.Append(persistCtx, order); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to persist order")
		return model.TextReply(reply.OrderSaveFailed)
	}

	if err := e.sessions.Clear(ctx, userID); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to clear session after order")
	}
	return model.TextReply(reply.OrderSaved)
}

// phasePrompt repeats what the current phase is waiting for. Used when a
// message cannot be a valid transition for the phase it arrived in.
func phasePrompt(p model.Phase) string {
	switch p {
	case model.PhaseAwaitingLocation:
		return reply.AskLocation
	case model.PhaseAwaitingStoreSelection:
		return reply.InvalidStoreIndex
	case model.PhaseAwaitingDrink:
		return reply.RestartOrderFlow
	case model.PhaseAwaitingHistoryStart:
		return reply.HistoryStartPrompt
	case model.PhaseAwaitingHistoryEnd:
		return reply.HistoryEndPrompt
	case model.PhaseAwaitingStatsDecision:
		return reply.StatsReprompt
	}
	return reply.SystemBusy
}
