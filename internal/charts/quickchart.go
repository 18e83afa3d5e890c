// Package charts renders order statistics through the QuickChart service.
// The renderer is an opaque external collaborator: it takes an order set
// and hands back a hosted image URL.
package charts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/model"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// QuickChartRenderer posts a chart definition to /chart/create and returns
// the short URL of the rendered artifact.
type QuickChartRenderer struct {
	baseURL    string
	httpClient *http.Client
}

func NewQuickChartRenderer(cfg model.ChartConfig) *QuickChartRenderer {
	return &QuickChartRenderer{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createRequest struct {
	Chart  any    `json:"chart"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

type createResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

func (q *QuickChartRenderer) Render(ctx context.Context, orders []model.Order) (string, error) {
	if len(orders) == 0 {
		return "", fmt.Errorf("render chart: empty order set")
	}

	body, err := json.Marshal(createRequest{
		Chart:  dailyCountChart(orders),
		Width:  800,
		Height: 400,
		Format: "png",
	})
	if err != nil {
		return "", fmt.Errorf("render chart: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+"/chart/create", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := q.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("render chart: request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("render chart: unexpected status %d", httpResp.StatusCode)
	}

	var resp createResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("render chart: decode: %w", err)
	}
	if !resp.Success || resp.URL == "" {
		return "", fmt.Errorf("render chart: provider reported failure")
	}

	logx.Debug().Int("orders", len(orders)).Str("url", resp.URL).Msg("statistics chart rendered")
	return resp.URL, nil
}

// dailyCountChart builds a Chart.js definition: a bar series of drinks per
// day with the brand distribution alongside as a doughnut-style breakdown
// in the legend labels.
func dailyCountChart(orders []model.Order) any {
	daily := make(map[string]int)
	brands := make(map[string]int)
	for _, o := range orders {
		daily[o.Date()]++
		brands[o.Brand]++
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	counts := make([]int, len(days))
	for i, d := range days {
		counts[i] = daily[d]
	}

	brandNames := make([]string, 0, len(brands))
	for b := range brands {
		brandNames = append(brandNames, b)
	}
	sort.Strings(brandNames)
	legend := make([]string, len(brandNames))
	for i, b := range brandNames {
		legend[i] = fmt.Sprintf("%s x%d", b, brands[b])
	}

	return map[string]any{
		"type": "bar",
		"data": map[string]any{
			"labels": days,
			"datasets": []map[string]any{
				{
					"label":           fmt.Sprintf("Daily Drink Count (%v)", legend),
					"data":            counts,
					"backgroundColor": "#66B2FF",
				},
			},
		},
		"options": map[string]any{
			"title": map[string]any{
				"display": true,
				"text":    "Drink Order Statistics",
			},
		},
	}
}

var _ model.ChartRenderer = (*QuickChartRenderer)(nil)
