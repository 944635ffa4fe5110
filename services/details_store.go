package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/snap-point/directory-api/models"
	"github.com/snap-point/directory-api/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultDetailsTTL is how long a persisted detail record is served before
// the provider is asked again.
const DefaultDetailsTTL = 24 * time.Hour

// DetailsStore persists business detail records between requests.
type DetailsStore interface {
	Get(ctx context.Context, placeID string) (*types.BusinessDetails, bool, error)
	Put(ctx context.Context, details *types.BusinessDetails) error
}

// GormDetailsStore keeps detail records in the place_details table.
type GormDetailsStore struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time
}

func NewGormDetailsStore(db *gorm.DB, ttl time.Duration) *GormDetailsStore {
	if ttl <= 0 {
		ttl = DefaultDetailsTTL
	}
	return &GormDetailsStore{DB: db, TTL: ttl, Now: time.Now}
}

func (s *GormDetailsStore) Get(ctx context.Context, placeID string) (*types.BusinessDetails, bool, error) {
	var row models.PlaceDetail
	err := s.DB.WithContext(ctx).
		Where("place_id = ? AND expires_at > ?", placeID, s.Now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return detailsFromRow(row), true, nil
}

func (s *GormDetailsStore) Put(ctx context.Context, details *types.BusinessDetails) error {
	now := s.Now()
	row := rowFromDetails(details)
	row.FetchedAt = now
	row.ExpiresAt = now.Add(s.TTL)

	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// PurgeExpired deletes rows past their expiry and returns how many were
// removed.
func (s *GormDetailsStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where("expires_at <= ?", s.Now()).
		Delete(&models.PlaceDetail{})
	return result.RowsAffected, result.Error
}

func rowFromDetails(d *types.BusinessDetails) models.PlaceDetail {
	row := models.PlaceDetail{
		PlaceID:          d.ID,
		Name:             d.Name,
		Address:          d.Address,
		Phone:            d.Phone,
		Website:          d.Website,
		MapsURL:          d.MapsURL,
		Rating:           d.Rating,
		UserRatingsTotal: d.UserRatingsTotal,
		Types:            pq.StringArray(d.Types),
		PhotoReference:   d.PhotoReference,
	}
	if len(d.OpeningHours) > 0 {
		row.OpeningHours = []byte(d.OpeningHours)
	}
	if d.Location != nil {
		lat, lng := d.Location.Lat, d.Location.Lng
		row.Latitude, row.Longitude = &lat, &lng
	}
	return row
}

func detailsFromRow(row models.PlaceDetail) *types.BusinessDetails {
	d := &types.BusinessDetails{
		ID:               row.PlaceID,
		Name:             row.Name,
		Address:          row.Address,
		Phone:            row.Phone,
		Website:          row.Website,
		MapsURL:          row.MapsURL,
		Rating:           row.Rating,
		UserRatingsTotal: row.UserRatingsTotal,
		Types:            []string(row.Types),
		PhotoReference:   row.PhotoReference,
	}
	if d.Types == nil {
		d.Types = []string{}
	}
	if len(row.OpeningHours) > 0 {
		d.OpeningHours = json.RawMessage(row.OpeningHours)
	}
	if row.Latitude != nil && row.Longitude != nil {
		d.Location = &types.Coordinates{Lat: *row.Latitude, Lng: *row.Longitude}
	}
	return d
}
