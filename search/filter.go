// Package search turns restaurant listing query parameters into an explicit
// filter and applies it as a gorm scope.
package search

import (
	"strings"

	"mealmatch/models"

	"gorm.io/gorm"
)

// Sentinel values sent by the front-end dropdowns meaning "no filter".
const (
	AllAreas    = "All Areas"
	AllCuisines = "All Cuisines"
	AllPrices   = "All Prices"
)

// HalalToken is the cuisine dropdown entry that filters on the halal flag
// instead of the cuisine column. The front-end lists it among cuisines, so the
// overload is resolved here, at the input boundary, and nowhere else.
const HalalToken = "Halal"

type cuisineKind int

const (
	cuisineAny cuisineKind = iota
	cuisineExact
	cuisineHalal
)

// CuisineFilter is either no filter, an exact cuisine match, or a filter on
// the halal flag.
type CuisineFilter struct {
	kind  cuisineKind
	value string
}

func AnyCuisine() CuisineFilter { return CuisineFilter{} }
func ByCuisine(c string) CuisineFilter { return CuisineFilter{kind: cuisineExact, value: c} }
func ByHalalFlag() CuisineFilter { return CuisineFilter{kind: cuisineHalal} }
func (f CuisineFilter) IsHalal() bool { return f.kind == cuisineHalal }
func (f CuisineFilter) Cuisine() string { return f.value }
func (f CuisineFilter) IsExact() bool { return f.kind == cuisineExact }

// Filter holds the AND-combined restaurant filters. Zero values mean absent.
type Filter struct {
	Query   string // lower-cased name substring
	Area    string
	Cuisine CuisineFilter
	Price   models.PriceTier
}

// Parse maps raw query parameters to a Filter. Sentinels and blanks become
// absent filters; "Halal" becomes ByHalalFlag. A price that is not a known
// tier is kept verbatim so it simply matches nothing.
func Parse(q, area, cuisine, price string) Filter {
	var f Filter
	f.Query = strings.ToLower(strings.TrimSpace(q))

	if area != "" && area != AllAreas {
		f.Area = area
	}

	switch {
	case cuisine == "" || cuisine == AllCuisines:
		f.Cuisine = AnyCuisine()
	case cuisine == HalalToken:
		f.Cuisine = ByHalalFlag()
	default:
		f.Cuisine = ByCuisine(cuisine)
	}

	if price != "" && price != AllPrices {
		if tier, ok := models.ParsePriceTier(price); ok {
			f.Price = tier
		} else {
			f.Price = models.PriceTier(price)
		}
	}
	return f
}

// Scope applies the filter and the listing order (name, then id).
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	if f.Query != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+f.Query+"%")
	}
	if f.Area != "" {
		db = db.Where("area = ?", f.Area)
	}
	switch f.Cuisine.kind {
	case cuisineHalal:
		db = db.Where("halal = ?", true)
	case cuisineExact:
		db = db.Where("cuisine = ?", f.Cuisine.value)
	}
	if f.Price != "" {
		db = db.Where("price_level = ?", f.Price)
	}
	return db.Order("name ASC").Order("id ASC")
}
