package services

import (
	"sort"

	"github.com/snap-point/directory-api/types"
	"github.com/snap-point/directory-api/utils"
)

// MaxResults is the number of businesses kept after ranking.
const MaxResults = 20

// BuildBusinesses converts raw provider results into businesses, attaching
// distances when the request carries user coordinates.
func BuildBusinesses(results []types.PlaceResult, req types.SearchRequest) []types.Business {
	businesses := make([]types.Business, 0, len(results))
	for _, r := range results {
		b := types.Business{
			ID:           r.PlaceID,
			Name:         r.Name,
			Address:      r.FormattedAddress,
			OpeningHours: r.OpeningHours,
			Types:        r.Types,
		}
		if b.Types == nil {
			b.Types = []string{}
		}
		if r.Rating != nil {
			b.Rating = *r.Rating
		}
		if r.UserRatingsTotal != nil {
			b.RatingCount = *r.UserRatingsTotal
		}
		if len(r.Photos) > 0 {
			b.PhotoReference = r.Photos[0].PhotoReference
		}
		if r.Geometry != nil {
			b.Coordinates = &types.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
		}

		if u := req.UserCoordinates; u != nil && b.Coordinates != nil {
			km := utils.Haversine(u.Lat, u.Lng, b.Coordinates.Lat, b.Coordinates.Lng)
			miles := utils.KmToMiles(km)
			b.DistanceKm = &km
			b.DistanceMiles = &miles
		}

		businesses = append(businesses, b)
	}
	return businesses
}

// SortBusinesses orders businesses in place. With user coordinates, entries
// with a distance come first in ascending distance and the rest follow by
// descending rating. Without coordinates the order is descending rating.
// Equal entries keep their provider order.
func SortBusinesses(businesses []types.Business, byDistance bool) {
	sort.SliceStable(businesses, func(i, j int) bool {
		a, b := businesses[i], businesses[j]
		if byDistance {
			switch {
			case a.DistanceKm != nil && b.DistanceKm != nil:
				return *a.DistanceKm < *b.DistanceKm
			case a.DistanceKm != nil:
				return true
			case b.DistanceKm != nil:
				return false
			}
		}
		return a.Rating > b.Rating
	})
}

// RankBusinesses sorts and truncates to at most limit entries.
func RankBusinesses(businesses []types.Business, req types.SearchRequest, limit int) []types.Business {
	SortBusinesses(businesses, req.UserCoordinates != nil)
	if limit > 0 && len(businesses) > limit {
		businesses = businesses[:limit]
	}
	return businesses
}

// FormatResponse maps ranked businesses to the response shape.
func FormatResponse(businesses []types.Business, unit types.Unit) *types.SearchResponse {
	unit = unit.Normalize()

	results := make([]types.BusinessResult, 0, len(businesses))
	for _, b := range businesses {
		r := types.BusinessResult{
			ID:               b.ID,
			Name:             b.Name,
			Rating:           b.Rating,
			UserRatingsTotal: b.RatingCount,
			Address:          b.Address,
			Location:         b.Coordinates,
			PhotoReference:   b.PhotoReference,
			DistanceKm:       b.DistanceKm,
			DistanceMiles:    b.DistanceMiles,
			DistanceUnit:     unit,
			OpeningHours:     b.OpeningHours,
			Types:            b.Types,
		}
		if unit == types.UnitKilometers {
			r.Distance = b.DistanceKm
		} else {
			r.Distance = b.DistanceMiles
		}
		results = append(results, r)
	}

	return &types.SearchResponse{
		Businesses: results,
		Count:      len(results),
		Unit:       unit,
	}
}
