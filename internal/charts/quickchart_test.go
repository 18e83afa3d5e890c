package charts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders(t *testing.T) []model.Order {
	t.Helper()
	at := func(s string) time.Time {
		tm, err := time.Parse(model.OrderTimeLayout, s)
		require.NoError(t, err)
		return tm
	}
	return []model.Order{
		model.NewOrder("u1", "五十嵐", "50嵐 信義店", "珍珠奶茶", 350, at("2024-04-02 09:00:00")),
		model.NewOrder("u1", "五十嵐", "50嵐 信義店", "四季春茶", 5, at("2024-04-02 15:00:00")),
		model.NewOrder("u1", "清心福全", "清心福全 松山店", "紅茶拿鐵", 280, at("2024-04-10 18:30:00")),
	}
}

func TestRenderPostsChartAndReturnsURL(t *testing.T) {
	var captured createRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chart/create", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(createResponse{Success: true, URL: "https://quickchart.io/chart/render/sf-abc"})
	}))
	defer srv.Close()

	r := NewQuickChartRenderer(model.ChartConfig{BaseURL: srv.URL})
	url, err := r.Render(context.Background(), sampleOrders(t))
	require.NoError(t, err)
	assert.Equal(t, "https://quickchart.io/chart/render/sf-abc", url)

	assert.Equal(t, 800, captured.Width)
	assert.Equal(t, 400, captured.Height)
	assert.Equal(t, "png", captured.Format)

	chart := captured.Chart.(map[string]any)
	assert.Equal(t, "bar", chart["type"])
	data := chart["data"].(map[string]any)
	assert.Equal(t, []any{"2024-04-02", "2024-04-10"}, data["labels"])
}

func TestRenderEmptyOrderSetIsAnError(t *testing.T) {
	r := NewQuickChartRenderer(model.ChartConfig{BaseURL: "http://unused.invalid"})
	_, err := r.Render(context.Background(), nil)
	require.Error(t, err)
}

func TestRenderProviderFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(createResponse{Success: false})
	}))
	defer srv.Close()

	r := NewQuickChartRenderer(model.ChartConfig{BaseURL: srv.URL})
	_, err := r.Render(context.Background(), sampleOrders(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider reported failure")
}

func TestDailyCountChartAggregates(t *testing.T) {
	chart := dailyCountChart(sampleOrders(t)).(map[string]any)

	data := chart["data"].(map[string]any)
	assert.Equal(t, []string{"2024-04-02", "2024-04-10"}, data["labels"])

	datasets := data["datasets"].([]map[string]any)
	require.Len(t, datasets, 1)
	assert.Equal(t, []int{2, 1}, datasets[0]["data"])
	// Brand breakdown is carried in the legend label, alphabetical.
	assert.Contains(t, datasets[0]["label"], "五十嵐 x2")
	assert.Contains(t, datasets[0]["label"], "清心福全 x1")
}
