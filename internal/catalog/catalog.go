// Package catalog loads the drink-calorie dataset and answers exact and
// similarity lookups against it. The dataset is read once at startup and
// is immutable afterwards.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/drinkcal-bot/server/internal/bot/model"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

type key struct {
	brand string
	name  string
}

// Catalog is the in-memory drink dataset.
type Catalog struct {
	drinks  []model.Drink
	byKey   map[key]model.Drink
	byBrand map[string][]model.Drink
}

// Load reads a CSV file with a brand,drink_name,type,calories header.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	logx.Info().Str("path", path).Int("drinks", len(c.drinks)).Msg("drink catalog loaded")
	return c, nil
}

// Parse reads catalog rows from an already-open CSV stream.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{"brand", "drink_name", "type", "calories"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("missing column %q", want)
		}
	}

	c := &Catalog{
		byKey:   make(map[key]model.Drink),
		byBrand: make(map[string][]model.Drink),
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cal, err := strconv.Atoi(strings.TrimSpace(rec[col["calories"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: calories: %w", line, err)
		}
		d := model.Drink{
			Brand:    strings.TrimSpace(rec[col["brand"]]),
			Name:     strings.TrimSpace(rec[col["drink_name"]]),
			Type:     strings.TrimSpace(rec[col["type"]]),
			Calories: cal,
		}
		c.drinks = append(c.drinks, d)
		c.byKey[key{d.Brand, d.Name}] = d
		c.byBrand[d.Brand] = append(c.byBrand[d.Brand], d)
	}
	return c, nil
}

// FindDrink looks up one drink by exact brand and name match.
func (c *Catalog) FindDrink(brand, name string) (model.Drink, bool) {
	d, ok := c.byKey[key{brand, name}]
	return d, ok
}

// DrinksForBrand lists every drink name known for a brand, in file order.
func (c *Catalog) DrinksForBrand(brand string) []string {
	rows := c.byBrand[brand]
	names := make([]string, 0, len(rows))
	for _, d := range rows {
		names = append(names, d.Name)
	}
	return names
}

// SimilarDrinks returns rows matching the brand or the drink name. Used to
// offer alternatives when an exact lookup misses; not a fuzzy match.
func (c *Catalog) SimilarDrinks(brand, name string) []model.Drink {
	var out []model.Drink
	for _, d := range c.drinks {
		if d.Brand == brand || d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// All returns every catalog row.
func (c *Catalog) All() []model.Drink {
	return c.drinks
}

var _ model.Catalog = (*Catalog)(nil)
