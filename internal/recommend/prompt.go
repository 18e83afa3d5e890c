package recommend

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/drinkcal-bot/server/internal/bot/model"
)

//go:embed template/recommend_prompt.txt
var recommendSystemPrompt string

// renderSystemPrompt renders the recommendation system prompt with the
// whole catalog inlined as grounding context.
func renderSystemPrompt(ctx context.Context, drinks []model.Drink) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(recommendSystemPrompt),
	)
	vars := map[string]any{
		"CatalogContext": catalogContext(drinks),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("recommend prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("recommend prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// catalogContext flattens the catalog into one line per drink, the shape
// the prompt template expects.
func catalogContext(drinks []model.Drink) string {
	var b strings.Builder
	for i, d := range drinks {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "店家：%s，飲料：%s，類型：%s，熱量：%d大卡", d.Brand, d.Name, d.Type, d.Calories)
	}
	return b.String()
}
