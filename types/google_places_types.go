package types

import "encoding/json"

// Provider status values returned in the "status" field of every Places
// web service response.
const (
	StatusOK            = "OK"
	StatusZeroResults   = "ZERO_RESULTS"
	StatusRequestDenied = "REQUEST_DENIED"
	StatusNotFound      = "NOT_FOUND"
)

type GooglePlacesResponse struct {
	HTMLAttributions []string      `json:"html_attributions"`
	NextPageToken    string        `json:"next_page_token,omitempty"`
	Results          []PlaceResult `json:"results"`
	Status           string        `json:"status"`
	ErrorMessage     string        `json:"error_message,omitempty"`
}

type GooglePlaceDetailsResponse struct {
	HTMLAttributions []string     `json:"html_attributions"`
	Result           PlaceDetails `json:"result"`
	Status           string       `json:"status"`
	ErrorMessage     string       `json:"error_message,omitempty"`
}

// PlaceResult is one text-search hit. Optional provider fields are pointers
// so an omitted rating can be told apart from a zero rating.
type PlaceResult struct {
	BusinessStatus   *string         `json:"business_status,omitempty"`
	FormattedAddress string          `json:"formatted_address,omitempty"`
	Geometry         *Geometry       `json:"geometry,omitempty"`
	Name             string          `json:"name"`
	OpeningHours     json.RawMessage `json:"opening_hours,omitempty"`
	Photos           []Photo         `json:"photos,omitempty"`
	PlaceID          string          `json:"place_id"`
	Rating           *float64        `json:"rating,omitempty"`
	Types            []string        `json:"types,omitempty"`
	UserRatingsTotal *int            `json:"user_ratings_total,omitempty"`
	Vicinity         *string         `json:"vicinity,omitempty"`
}

// PlaceDetails is the richer record returned by the details endpoint.
type PlaceDetails struct {
	PlaceID              string          `json:"place_id"`
	Name                 string          `json:"name"`
	FormattedAddress     string          `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string          `json:"formatted_phone_number,omitempty"`
	Website              string          `json:"website,omitempty"`
	URL                  string          `json:"url,omitempty"`
	Geometry             *Geometry       `json:"geometry,omitempty"`
	OpeningHours         json.RawMessage `json:"opening_hours,omitempty"`
	Photos               []Photo         `json:"photos,omitempty"`
	Rating               *float64        `json:"rating,omitempty"`
	Types                []string        `json:"types,omitempty"`
	UserRatingsTotal     *int            `json:"user_ratings_total,omitempty"`
}

type Geometry struct {
	Location Location  `json:"location"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Viewport struct {
	Northeast Location `json:"northeast"`
	Southwest Location `json:"southwest"`
}

type Photo struct {
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions"`
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
}
