package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"academos/internal/shared/constants"
)

// EstablishmentModel represents the registry row for an establishment.
// This is the anti-corruption layer between domain and database.
//
// Deactivation is always soft (IsActive = false); rows are never physically
// removed so tenant data and audit trails stay addressable.
type EstablishmentModel struct {
	ID          uint              `gorm:"primarykey"`
	Name        string            `gorm:"not null;size:150"`
	Slug        string            `gorm:"not null;size:63;index:idx_establishments_slug"`
	Description string            `gorm:"type:text"`
	Logo        string            `gorm:"size:500"`
	Domain      string            `gorm:"size:255;index:idx_establishments_domain"`
	IsActive    bool              `gorm:"not null;default:true;index:idx_establishments_active"`
	Settings    datatypes.JSONMap `gorm:"type:json"`
	Version     int               `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (EstablishmentModel) TableName() string {
	return constants.TableEstablishments
}

// BeforeCreate hook for GORM
func (e *EstablishmentModel) BeforeCreate(tx *gorm.DB) error {
	if e.Version == 0 {
		e.Version = 1
	}
	if e.Settings == nil {
		e.Settings = datatypes.JSONMap{}
	}
	return nil
}

// BeforeUpdate hook for GORM
func (e *EstablishmentModel) BeforeUpdate(tx *gorm.DB) error {
	// Increment version for optimistic locking
	tx.Statement.SetColumn("version", e.Version+1)
	return nil
}
