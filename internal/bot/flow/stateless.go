package flow

import (
	"context"

	"github.com/drinkcal-bot/server/internal/bot/intent"
	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/drinkcal-bot/server/internal/bot/reply"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// menuPrompt answers a fixed menu command with its canned instructional
// reply. History is the one label that also transitions phase.
func (e *Engine) menuPrompt(ctx context.Context, userID string, menu intent.Menu) model.Reply {
	switch menu {
	case intent.MenuSearchCalories:
		return model.TextReply(reply.SearchHelp)
	case intent.MenuCompareCalories:
		return model.TextReply(reply.CompareHelp)
	case intent.MenuRecommend:
		return model.TextReply(reply.RecommendHelp)
	case intent.MenuOrder:
		return model.TextReply(reply.OrderHelp)
	case intent.MenuHistory:
		if err := e.sessions.Save(ctx, userID, model.AtAwaitingHistoryStart()); err != nil {
			logx.Error().Err(err).Str("userID", userID).Msg("failed to save session")
			return model.TextReply(reply.SystemBusy)
		}
		return model.TextReply(reply.HistoryStartPrompt)
	case intent.MenuWebsiteLinks:
		return model.MenuLinksReply()
	}
	return model.TextReply(reply.SystemBusy)
}

// searchDrink answers one calorie lookup. A miss falls back to the
// similar-drink listing, then to a plain not-found reply.
func (e *Engine) searchDrink(q intent.BrandDrink) model.Reply {
	if d, ok := e.catalog.FindDrink(q.Brand, q.Drink); ok {
		return model.TextReply(reply.DrinkInfo(d))
	}

	similar := e.catalog.SimilarDrinks(q.Brand, q.Drink)
	if len(similar) == 0 {
		return model.TextReply(reply.DrinkNotFound)
	}
	return model.TextReply(reply.SimilarDrinks(similar))
}

// compareDrinks answers a two-drink calorie comparison. If either side
// misses, both sides' alternatives are listed instead.
func (e *Engine) compareDrinks(pair [2]intent.BrandDrink) model.Reply {
	a, okA := e.catalog.FindDrink(pair[0].Brand, pair[0].Drink)
	b, okB := e.catalog.FindDrink(pair[1].Brand, pair[1].Drink)
	if okA && okB {
		return model.TextReply(reply.Comparison(a, b))
	}

	similar1 := e.catalog.SimilarDrinks(pair[0].Brand, pair[0].Drink)
	similar2 := e.catalog.SimilarDrinks(pair[1].Brand, pair[1].Drink)
	return model.TextReply(reply.ComparisonMiss(pair[0].Brand, similar1, pair[1].Brand, similar2))
}

// recommendDrinks delegates the verbatim request to the recommendation
// collaborator. Failures become an apologetic text.
func (e *Engine) recommendDrinks(ctx context.Context, text string) model.Reply {
	recCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	answer, err := e.recommender.Recommend(recCtx, text)
	if err != nil {
		logx.Error().Err(err).Msg("recommendation failed")
		return model.TextReply(reply.RecommendFailed)
	}
	return model.TextReply(answer)
}
