// Package stores locates nearby branded drink stores through the Google
// Places nearby-search API. The call is network-bound and guarded by a
// circuit breaker; callers additionally bound it with a context timeout.
package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/model"
	logx "github.com/drinkcal-bot/server/pkg/logger"
	"github.com/sony/gobreaker"
)

// brandKeywords maps a catalog brand to the keywords its storefronts are
// registered under on the map provider.
var brandKeywords = map[string][]string{
	"五十嵐":  {"50嵐"},
	"清心福全": {"清心福全"},
	"麻古茶坊": {"麻古茶坊", "麻古"},
}

// PlacesClient implements model.StoreSearcher against the Places HTTP API.
type PlacesClient struct {
	apiKey  string
	baseURL string
	radius  int
	cutoff  int
	max     int

	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewPlacesClient(cfg model.PlacesConfig) *PlacesClient {
	return &PlacesClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		radius:  cfg.RadiusMeters,
		cutoff:  cfg.CutoffMeters,
		max:     cfg.MaxResults,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "places-nearby-search",
			MaxRequests: 3,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logx.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("places circuit breaker state changed")
			},
		}),
	}
}

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string   `json:"name"`
		Vicinity string   `json:"vicinity"`
		Rating   *float64 `json:"rating"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// SearchNearby searches every keyword of the brand, keeps keyword-matching
// stores within the distance cutoff, dedupes by name, and returns at most
// MaxResults stores sorted ascending by distance.
func (p *PlacesClient) SearchNearby(ctx context.Context, brand string, loc model.LatLng) ([]model.Store, error) {
	keywords, ok := brandKeywords[brand]
	if !ok {
		keywords = []string{brand}
	}

	seen := make(map[string]bool)
	var all []model.Store

	for _, keyword := range keywords {
		resp, err := p.nearbySearch(ctx, keyword, loc)
		if err != nil {
			return nil, err
		}
		for _, place := range resp.Results {
			if !containsAny(place.Name, keywords) {
				continue
			}
			distance := int(haversineMeters(loc.Lat, loc.Lng, place.Geometry.Location.Lat, place.Geometry.Location.Lng))
			if distance > p.cutoff {
				continue
			}
			if seen[place.Name] {
				continue
			}
			seen[place.Name] = true
			all = append(all, model.Store{
				Name:     place.Name,
				Address:  place.Vicinity,
				Rating:   place.Rating,
				Distance: distance,
			})
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })
	if len(all) > p.max {
		all = all[:p.max]
	}

	logx.Debug().Str("brand", brand).Int("stores", len(all)).Msg("nearby search completed")
	return all, nil
}

func (p *PlacesClient) nearbySearch(ctx context.Context, keyword string, loc model.LatLng) (*placesResponse, error) {
	out, err := p.breaker.Execute(func() (any, error) {
		q := url.Values{}
		q.Set("location", fmt.Sprintf("%f,%f", loc.Lat, loc.Lng))
		q.Set("radius", fmt.Sprintf("%d", p.radius))
		q.Set("keyword", keyword)
		q.Set("language", "zh-TW")
		q.Set("key", p.apiKey)

		endpoint := p.baseURL + "/maps/api/place/nearbysearch/json?" + q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		httpResp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("nearby search request: %w", err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("nearby search: unexpected status %d", httpResp.StatusCode)
		}

		var resp placesResponse
		if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
			return nil, fmt.Errorf("nearby search decode: %w", err)
		}
		// ZERO_RESULTS is a valid empty answer, not a provider failure.
		if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
			return nil, fmt.Errorf("nearby search: provider status %s", resp.Status)
		}
		return &resp, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*placesResponse), nil
}

func containsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

const earthRadiusMeters = 6371000

// haversineMeters is the straight-line distance between two coordinates.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

var _ model.StoreSearcher = (*PlacesClient)(nil)
