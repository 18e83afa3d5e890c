// Package flow drives the per-user conversational state machines: the
// order flow (store pick → location → store selection → drink) and the
// history-query flow (date range → report → optional statistics), plus the
// stateless Idle-phase handlers.
package flow

import (
	"context"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/intent"
	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/drinkcal-bot/server/internal/bot/reply"
	"github.com/drinkcal-bot/server/internal/bot/session"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// Config wires the engine's collaborators.
type Config struct {
	Sessions    *session.Store
	Orders      model.OrderRepository
	Catalog     model.Catalog
	Stores      model.StoreSearcher
	Recommender model.Recommender
	Charts      model.ChartRenderer

	// ExternalTimeout bounds every collaborator call.
	ExternalTimeout time.Duration

	// Now is the order timestamp clock; defaults to time.Now.
	Now func() time.Time
}

// Engine classifies each inbound message against the user's current phase
// and dispatches it to the owning state machine. Every path, including
// every failure, produces a user-visible reply; errors never reach the
// transport layer.
type Engine struct {
	sessions    *session.Store
	orders      model.OrderRepository
	catalog     model.Catalog
	stores      model.StoreSearcher
	recommender model.Recommender
	charts      model.ChartRenderer
	timeout     time.Duration
	now         func() time.Time
}

func New(cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	timeout := cfg.ExternalTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		sessions:    cfg.Sessions,
		orders:      cfg.Orders,
		catalog:     cfg.Catalog,
		stores:      cfg.Stores,
		recommender: cfg.Recommender,
		charts:      cfg.Charts,
		timeout:     timeout,
		now:         now,
	}
}

// Handle processes one inbound event and returns the reply. Handling is
// serialized per user, so concurrent messages from the same user cannot
// race a phase transition.
func (e *Engine) Handle(ctx context.Context, in model.Inbound) model.Reply {
	release := e.sessions.Acquire(in.UserID)
	defer release()

	sess, err := e.sessions.Load(ctx, in.UserID)
	if err != nil {
		logx.Error().Err(err).Str("userID", in.UserID).Msg("failed to load session")
		return model.TextReply(reply.SystemBusy)
	}

	if in.Location != nil {
		return e.handleLocation(ctx, in.UserID, sess, *in.Location)
	}

	it := intent.Classify(sess.Phase, in.Text)

	switch it.Kind {
	case intent.KindMenuPrompt:
		return e.menuPrompt(ctx, in.UserID, it.Menu)
	case intent.KindCompareDrinks:
		return e.compareDrinks(it.Pair)
	case intent.KindMalformedCompare:
		return model.TextReply(reply.MalformedCompare)
	case intent.KindRecommendDrinks:
		return e.recommendDrinks(ctx, it.Text)
	case intent.KindSearchDrink:
		return e.searchDrink(it.Query)
	case intent.KindMalformedSearch:
		return model.TextReply(reply.MalformedSearch)
	case intent.KindSelectStoreForOrder:
		return e.startOrder(ctx, in.UserID, it.Brand)

	case intent.KindAwaitingLocationText:
		// Free text while a location share is expected: guidance only,
		// phase unchanged.
		return model.TextReply(reply.LocationGuidance)
	case intent.KindProvideStoreIndex:
		return e.provideStoreIndex(ctx, in.UserID, sess, it.Text)
	case intent.KindProvideDrinkName:
		return e.provideDrink(ctx, in.UserID, sess, it.Text)
	case intent.KindProvideHistoryStartDate:
		return e.provideHistoryStart(ctx, in.UserID, it.Text)
	case intent.KindProvideHistoryEndDate:
		return e.provideHistoryEnd(ctx, in.UserID, sess, it.Text)
	case intent.KindProvideStatsDecision:
		return e.provideStatsDecision(ctx, in.UserID, sess, it.Text)
	}

	logx.Warn().Str("userID", in.UserID).Str("phase", string(sess.Phase)).Msg("unclassified message")
	return model.TextReply(reply.SystemBusy)
}

// withTimeout bounds a collaborator call.
func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// restart clears the user's state and reports a corrupt-session reply. The
// degraded path for slot data that does not match its phase.
func (e *Engine) restart(ctx context.Context, userID string, cause error) model.Reply {
	logx.Warn().Err(cause).Str("userID", userID).Msg("session slots invalid, restarting conversation")
	if err := e.sessions.Clear(ctx, userID); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to clear session")
	}
	return model.TextReply(reply.SessionCorrupt)
}

// clearAndReply clears flow state after an unrecoverable mid-flow failure
// so the conversation cannot get stuck.
func (e *Engine) clearAndReply(ctx context.Context, userID, text string) model.Reply {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to clear session")
	}
	return model.TextReply(text)
}
