package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Discovery event kinds
const (
	EventRecommendations = "recommendations"
	EventSimilar         = "similar"
	EventListing         = "listing"
)

// DiscoveryEvent records one discovery computation made on behalf of a user
type DiscoveryEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	Kind        string    `gorm:"not null" json:"kind"`
	Query       string    `json:"query,omitempty"`
	FocalID     string    `json:"focal_id,omitempty"`
	ResultCount int       `json:"result_count"`
	Searches    int       `json:"searches"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
}

// TableName returns the table name for the DiscoveryEvent model
func (DiscoveryEvent) TableName() string {
	return "discovery_events"
}

// BeforeCreate assigns an id; sqlite has no gen_random_uuid()
func (e *DiscoveryEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
