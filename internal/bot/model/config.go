package model

// ================ Config ================

type SessionConfig struct {
	// TTL is the idle expiry of a stuck conversation. Refreshed on every
	// touch; an abandoned flow falls back to Idle once it elapses.
	TTL string `envconfig:"SESSION_TTL" default:"15m"`
}

type ExternalConfig struct {
	// Timeout bounds every collaborator call (search, persistence,
	// recommendation, chart render). A timeout is reported to the user
	// as a retryable failure.
	Timeout string `envconfig:"EXTERNAL_CALL_TIMEOUT" default:"10s"`
}

type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH" default:"data/drink_data.csv"`
}

type PlacesConfig struct {
	APIKey       string `envconfig:"GOOGLE_MAPS_API_KEY" required:"true"`
	BaseURL      string `envconfig:"PLACES_BASE_URL" default:"https://maps.googleapis.com"`
	RadiusMeters int    `envconfig:"PLACES_SEARCH_RADIUS" default:"2000"`
	CutoffMeters int    `envconfig:"PLACES_DISTANCE_CUTOFF" default:"1000"`
	MaxResults   int    `envconfig:"PLACES_MAX_RESULTS" default:"3"`
}

type RecommendModelConfig struct {
	Model       string  `envconfig:"RECOMMEND_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"RECOMMEND_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RECOMMEND_TEMPERATURE" default:"0.4"`
}

type ChartConfig struct {
	BaseURL string `envconfig:"CHART_BASE_URL" default:"https://quickchart.io"`
}

type LineConfig struct {
	ChannelSecret string `envconfig:"LINE_CHANNEL_SECRET" required:"true"`
	ChannelToken  string `envconfig:"LINE_CHANNEL_ACCESS_TOKEN" required:"true"`
}
