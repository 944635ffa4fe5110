package models

import (
	"time"

	"github.com/lib/pq"
)

// PlaceDetail is a persisted snapshot of a provider detail record. Photo URLs
// are not stored because they embed the provider key.
type PlaceDetail struct {
	PlaceID          string         `json:"placeId" gorm:"primaryKey;size:255"`
	Name             string         `json:"name" gorm:"not null"`
	Address          string         `json:"address"`
	Phone            string         `json:"phone"`
	Website          string         `json:"website"`
	MapsURL          string         `json:"mapsUrl"`
	Rating           float64        `json:"rating" gorm:"not null;default:0;type:decimal(3,2)"`
	UserRatingsTotal int            `json:"userRatingsTotal" gorm:"not null;default:0"`
	Latitude         *float64       `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude        *float64       `json:"longitude" gorm:"type:decimal(11,8)"`
	OpeningHours     []byte         `json:"openingHours" gorm:"type:jsonb"`
	Types            pq.StringArray `json:"types" gorm:"type:text[]"`
	PhotoReference   string         `json:"photoReference"`
	FetchedAt        time.Time      `json:"fetchedAt" gorm:"not null"`
	ExpiresAt        time.Time      `json:"expiresAt" gorm:"not null;index"`
}

func (PlaceDetail) TableName() string {
	return "place_details"
}
