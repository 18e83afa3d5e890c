package model

import "time"

// OrderTimeLayout is the timestamp format stored with each order. Its
// zero-padded form makes stored timestamps comparable lexicographically,
// which the history range filter relies on.
const OrderTimeLayout = "2006-01-02 15:04:05"

// Drink is one catalog row.
type Drink struct {
	Brand    string `json:"brand"`
	Name     string `json:"drink_name"`
	Type     string `json:"type"`
	Calories int    `json:"calories"`
}

// Store is a nearby-search result. Transient: held in session slots only,
// never persisted on its own.
type Store struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Rating   *float64 `json:"rating,omitempty"`
	Distance int      `json:"distance"` // meters
}

// Order is one row of the append-only order log.
type Order struct {
	UserID    string `json:"user_id"`
	Brand     string `json:"brand"`
	Location  string `json:"location"` // store name
	DrinkName string `json:"drink_name"`
	Calories  int    `json:"calories"`
	CreatedAt string `json:"created_at"` // OrderTimeLayout
}

// NewOrder stamps an order with the given wall-clock time.
func NewOrder(userID, brand, location, drinkName string, calories int, now time.Time) Order {
	return Order{
		UserID:    userID,
		Brand:     brand,
		Location:  location,
		DrinkName: drinkName,
		Calories:  calories,
		CreatedAt: now.Format(OrderTimeLayout),
	}
}

// Date returns the YYYY-MM-DD part of the order timestamp.
func (o Order) Date() string {
	if len(o.CreatedAt) < 10 {
		return o.CreatedAt
	}
	return o.CreatedAt[:10]
}
