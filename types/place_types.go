package types

// Category is a logical automotive business category offered to searchers.
type Category string

const (
	CategoryRegularMaintenance Category = "Regular Maintenance"
	CategoryDetailing          Category = "Detailing"
	CategoryCustomBuilds       Category = "Custom Builds"
	CategoryTuning             Category = "Tuning"
	CategoryWheelsAndTires     Category = "Wheels and Tires"
	CategoryAutoPartsYard      Category = "Auto Parts Yard"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryRegularMaintenance,
	CategoryDetailing,
	CategoryCustomBuilds,
	CategoryTuning,
	CategoryWheelsAndTires,
	CategoryAutoPartsYard,
}

// Known reports whether c is one of the predefined categories.
func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Unit selects how distances are presented to the caller.
type Unit string

const (
	UnitMiles      Unit = "miles"
	UnitKilometers Unit = "kilometers"
)

// Normalize returns the unit to use for formatting. Anything that is not
// kilometers is reported in miles.
func (u Unit) Normalize() Unit {
	if u == UnitKilometers {
		return UnitKilometers
	}
	return UnitMiles
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ProviderQuery is the provider-ready form of a SearchRequest.
type ProviderQuery struct {
	Text     string
	Location string // "lat,lng" or empty
	Radius   int    // meters
}
