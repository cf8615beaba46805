package db_models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Trip is one generated travel plan. Rows are written once and never updated.
type Trip struct {
	BaseModel
	OwnerID         string         `gorm:"type:varchar(128);index;not null"`
	OwnerEmail      string         `gorm:"type:varchar(320)"`
	Destination     string         `gorm:"type:varchar(255);not null"`
	Days            int            `gorm:"not null"`
	TravelerType    string         `gorm:"type:varchar(32);not null"`
	Budget          string         `gorm:"type:varchar(32);not null"`
	Status          string         `gorm:"type:varchar(48);not null"`
	Success         bool           `gorm:"not null;default:false"`
	PlaceholderDays int            `gorm:"not null;default:0"`
	Backend         string         `gorm:"type:varchar(128)"`
	Places          pq.StringArray `gorm:"type:text[]"`
	Plan            datatypes.JSON `gorm:"type:jsonb;not null"`
}
