package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/snap-point/directory-api/types"
)

// DetailsBatchResult holds the outcome of a batch details lookup. Details
// keep the order of the first occurrence of each id in the request.
type DetailsBatchResult struct {
	Details []*types.BusinessDetails `json:"details"`
	Errors  map[string]BatchError    `json:"errors,omitempty"`
}

type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetBusinessDetails fetches the detail record for one business, reading
// through the details store when one is configured.
func (s *SearchService) GetBusinessDetails(ctx context.Context, placeID string) (*types.BusinessDetails, error) {
	if placeID == "" {
		return nil, fmt.Errorf("%w: empty place id", types.ErrProviderNotFound)
	}

	if s.detailsStore != nil {
		stored, ok, err := s.detailsStore.Get(ctx, placeID)
		if err != nil {
			s.logger.Warn("details store lookup failed", "place_id", placeID, "err", err)
		} else if ok {
			stored.PhotoURL = s.provider.PhotoURL(stored.PhotoReference, 0)
			return stored, nil
		}
	}

	raw, err := s.provider.Details(ctx, placeID)
	if err != nil {
		s.logger.Error("places details failed", "place_id", placeID, "err", err)
		return nil, err
	}

	details := FormatDetails(raw)
	if details.ID == "" {
		details.ID = placeID
	}
	if s.detailsStore != nil {
		if err := s.detailsStore.Put(ctx, details); err != nil {
			s.logger.Warn("details store write failed", "place_id", placeID, "err", err)
		}
	}

	details.PhotoURL = s.provider.PhotoURL(details.PhotoReference, 0)
	return details, nil
}

// GetBusinessDetailsBatch fetches details for several businesses concurrently
// on the service's worker pool. Duplicate ids are looked up once. Per-id
// failures are reported in Errors and do not fail the batch.
func (s *SearchService) GetBusinessDetailsBatch(ctx context.Context, placeIDs []string) (*DetailsBatchResult, error) {
	unique := make([]string, 0, len(placeIDs))
	seen := make(map[string]bool, len(placeIDs))
	for _, id := range placeIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		details = make([]*types.BusinessDetails, len(unique))
		errs    = make(map[string]BatchError)
	)

	record := func(id string, err error) {
		mu.Lock()
		errs[id] = BatchError{Code: types.ErrorCode(err), Message: err.Error()}
		mu.Unlock()
	}

	for i, id := range unique {
		i, id := i, id
		wg.Add(1)
		err := s.detailPool.Submit(func() {
			defer wg.Done()
			d, err := s.GetBusinessDetails(ctx, id)
			if err != nil {
				record(id, err)
				return
			}
			details[i] = d
		})
		if err != nil {
			wg.Done()
			record(id, err)
		}
	}
	wg.Wait()

	result := &DetailsBatchResult{Details: make([]*types.BusinessDetails, 0, len(unique))}
	for _, d := range details {
		if d != nil {
			result.Details = append(result.Details, d)
		}
	}
	if len(errs) > 0 {
		result.Errors = errs
	}
	return result, ctx.Err()
}

// FormatDetails maps a provider detail record to the response shape, without
// the photo URL.
func FormatDetails(raw *types.PlaceDetails) *types.BusinessDetails {
	d := &types.BusinessDetails{
		ID:           raw.PlaceID,
		Name:         raw.Name,
		Address:      raw.FormattedAddress,
		Phone:        raw.FormattedPhoneNumber,
		Website:      raw.Website,
		MapsURL:      raw.URL,
		OpeningHours: raw.OpeningHours,
		Types:        raw.Types,
	}
	if d.Types == nil {
		d.Types = []string{}
	}
	if raw.Rating != nil {
		d.Rating = *raw.Rating
	}
	if raw.UserRatingsTotal != nil {
		d.UserRatingsTotal = *raw.UserRatingsTotal
	}
	if raw.Geometry != nil {
		d.Location = &types.Coordinates{Lat: raw.Geometry.Location.Lat, Lng: raw.Geometry.Location.Lng}
	}
	if len(raw.Photos) > 0 {
		d.PhotoReference = raw.Photos[0].PhotoReference
	}
	return d
}
