package model

import "context"

// SessionRepository persists per-user dialogue state.
type SessionRepository interface {
	// Load retrieves the session for a user. A user with no stored
	// session gets an Idle session, not an error.
	Load(ctx context.Context, userID string) (Session, error)

	// Save stores the session for a user, refreshing any idle TTL.
	Save(ctx context.Context, userID string, s Session) error

	// Clear removes the session for a user, returning them to Idle.
	Clear(ctx context.Context, userID string) error
}

// OrderRepository is the append-only order log.
type OrderRepository interface {
	// Append records one order. No update or delete is exposed.
	Append(ctx context.Context, o Order) error

	// QueryRange returns the user's orders whose date falls in
	// [start, end] inclusive (YYYY-MM-DD), newest first.
	QueryRange(ctx context.Context, userID, start, end string) ([]Order, error)
}

// Catalog is the tabular drink-calorie dataset.
type Catalog interface {
	// FindDrink looks up one drink by exact brand and name match.
	FindDrink(brand, name string) (Drink, bool)

	// DrinksForBrand lists all drink names known for a brand.
	DrinksForBrand(brand string) []string

	// SimilarDrinks lists drinks matching the brand or the name, for
	// display when an exact lookup misses.
	SimilarDrinks(brand, name string) []Drink

	// All returns every catalog row.
	All() []Drink
}

// StoreSearcher locates nearby branded stores. Network-bound; may fail or
// return an empty slice.
type StoreSearcher interface {
	SearchNearby(ctx context.Context, brand string, loc LatLng) ([]Store, error)
}

// Recommender answers a free-text drink request with a catalog-grounded
// recommendation.
type Recommender interface {
	Recommend(ctx context.Context, query string) (string, error)
}

// ChartRenderer turns an order set into a chart artifact URL.
type ChartRenderer interface {
	Render(ctx context.Context, orders []Order) (string, error)
}
