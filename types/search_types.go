package types

import (
	"encoding/json"
	"fmt"

	"github.com/snap-point/directory-api/utils"
)

// SearchRequest is an immutable search query. Callers trim free-text fields
// before building it.
type SearchRequest struct {
	Keyword         string
	Category        Category
	Location        string
	UserCoordinates *Coordinates
	Unit            Unit
}

// Validate checks the keyword/category and location/coordinates invariants.
func (r SearchRequest) Validate() error {
	if r.Keyword == "" && r.Category == "" {
		return ErrMissingKeyword
	}
	if r.Location == "" && r.UserCoordinates == nil {
		return ErrInvalidLocation
	}
	if c := r.UserCoordinates; c != nil && !utils.ValidCoordinates(c.Lat, c.Lng) {
		return fmt.Errorf("%w: coordinates (%v, %v) out of range", ErrInvalidLocation, c.Lat, c.Lng)
	}
	return nil
}

// Business is one ranked result before it is shaped for the response.
type Business struct {
	ID             string
	Name           string
	Rating         float64
	RatingCount    int
	Address        string
	Coordinates    *Coordinates
	PhotoReference string
	OpeningHours   json.RawMessage
	Types          []string
	DistanceKm     *float64
	DistanceMiles  *float64
}

type BusinessResult struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Rating           float64         `json:"rating"`
	UserRatingsTotal int             `json:"user_ratings_total"`
	Address          string          `json:"address"`
	Location         *Coordinates    `json:"location,omitempty"`
	PhotoReference   string          `json:"photo_reference,omitempty"`
	DistanceKm       *float64        `json:"distance_km,omitempty"`
	DistanceMiles    *float64        `json:"distance_miles,omitempty"`
	Distance         *float64        `json:"distance,omitempty"`
	DistanceUnit     Unit            `json:"distance_unit"`
	OpeningHours     json.RawMessage `json:"opening_hours,omitempty"`
	Types            []string        `json:"types"`
}

// SearchResponse is what the search endpoint returns and what the result
// cache stores. It is never modified after it is built.
type SearchResponse struct {
	Businesses []BusinessResult `json:"businesses"`
	Count      int              `json:"count"`
	Unit       Unit             `json:"unit"`
}

type BusinessDetails struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Address          string          `json:"address"`
	Phone            string          `json:"phone,omitempty"`
	Website          string          `json:"website,omitempty"`
	MapsURL          string          `json:"maps_url,omitempty"`
	Rating           float64         `json:"rating"`
	UserRatingsTotal int             `json:"user_ratings_total"`
	Location         *Coordinates    `json:"location,omitempty"`
	OpeningHours     json.RawMessage `json:"opening_hours,omitempty"`
	Types            []string        `json:"types"`
	PhotoReference   string          `json:"photo_reference,omitempty"`
	PhotoURL         string          `json:"photo_url,omitempty"`
}
