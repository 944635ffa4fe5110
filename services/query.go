package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snap-point/directory-api/types"
)

// SearchRadiusMeters is the fixed radius sent with coordinate-biased searches.
const SearchRadiusMeters = 25000

// defaultPlaceTypes covers categories that are missing from placeTypeHints.
var defaultPlaceTypes = []string{"car_repair", "car_dealer", "car_wash", "gas_station"}

var placeTypeHints = map[types.Category][]string{
	types.CategoryRegularMaintenance: {"car_repair", "car_dealer"},
	types.CategoryDetailing:          {"car_wash", "car_repair"},
	types.CategoryCustomBuilds:       {"car_repair"},
	types.CategoryTuning:             {"car_repair"},
	types.CategoryWheelsAndTires:     {"car_repair", "store"},
	types.CategoryAutoPartsYard:      {"store", "car_dealer"},
}

// PlaceTypeHints returns the ordered provider place-type hints for a
// category. Unknown categories get the default automotive list. The returned
// slice is a copy.
func PlaceTypeHints(category types.Category) []string {
	hints, ok := placeTypeHints[category]
	if !ok {
		hints = defaultPlaceTypes
	}
	out := make([]string, len(hints))
	copy(out, hints)
	return out
}

// CategoryTable returns every known category with its hints, in display
// order.
func CategoryTable() []CategoryHints {
	table := make([]CategoryHints, 0, len(types.Categories))
	for _, c := range types.Categories {
		table = append(table, CategoryHints{Category: c, PlaceTypes: PlaceTypeHints(c)})
	}
	return table
}

type CategoryHints struct {
	Category   types.Category `json:"category"`
	PlaceTypes []string       `json:"place_types"`
}

// cacheKeyFields fixes the field order of the encoded key.
type cacheKeyFields struct {
	Keyword  string   `json:"keyword"`
	Location string   `json:"location"`
	Category string   `json:"category"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

// CacheKey derives the result-cache key for a request. Unit is not part of
// the key.
func CacheKey(req types.SearchRequest) string {
	fields := cacheKeyFields{
		Keyword:  req.Keyword,
		Location: req.Location,
		Category: string(req.Category),
	}
	if c := req.UserCoordinates; c != nil {
		lat, lng := unsignedZero(c.Lat), unsignedZero(c.Lng)
		fields.Lat, fields.Lng = &lat, &lng
	}

	// Marshalling a struct of strings and float pointers cannot fail.
	raw, _ := json.Marshal(fields)
	sum := sha256.Sum256(raw)
	return "search:" + hex.EncodeToString(sum[:])
}

// BuildProviderQuery turns a request into the provider's query text and
// location bias.
func BuildProviderQuery(req types.SearchRequest) (types.ProviderQuery, error) {
	if req.Location == "" && req.UserCoordinates == nil {
		return types.ProviderQuery{}, types.ErrInvalidLocation
	}

	terms := make([]string, 0, 4)
	if req.Keyword != "" {
		terms = append(terms, req.Keyword)
	}
	if req.Category != "" {
		terms = append(terms, string(req.Category))
		if hints := PlaceTypeHints(req.Category); len(hints) > 0 {
			terms = append(terms, hints[0])
		}
	}

	q := types.ProviderQuery{Radius: SearchRadiusMeters}
	if c := req.UserCoordinates; c != nil {
		q.Location = fmt.Sprintf("%f,%f", unsignedZero(c.Lat), unsignedZero(c.Lng))
	} else {
		terms = append(terms, "in "+req.Location)
	}
	q.Text = strings.Join(terms, " ")

	return q, nil
}

// unsignedZero maps -0 to 0 so both spellings of the equator or the prime
// meridian produce the same key and query.
func unsignedZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
