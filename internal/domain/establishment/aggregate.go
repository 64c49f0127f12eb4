// Package establishment contains the establishment aggregate: one isolated
// organizational tenant of the platform. The registry database holds one row
// per establishment; all of its operational data lives in a dedicated tenant
// database addressed through the tenant router.
package establishment

import (
	"fmt"
	"time"

	vo "academos/internal/domain/establishment/value_objects"
)

// Establishment represents the establishment aggregate root (pure domain
// model without persistence concerns).
type Establishment struct {
	id          uint
	name        *vo.Name
	slug        *vo.Slug
	description string
	logo        string
	domain      string
	isActive    bool
	settings    map[string]interface{}
	createdAt   time.Time
	updatedAt   time.Time
	version     int
}

// NewEstablishment creates a new active establishment aggregate
func NewEstablishment(name *vo.Name, slug *vo.Slug) (*Establishment, error) {
	if name == nil {
		return nil, fmt.Errorf("name is required")
	}
	if slug == nil {
		return nil, fmt.Errorf("slug is required")
	}

	now := time.Now()
	return &Establishment{
		name:      name,
		slug:      slug,
		isActive:  true,
		settings:  map[string]interface{}{},
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ReconstructEstablishment reconstructs an establishment from persistence
func ReconstructEstablishment(
	id uint,
	name *vo.Name,
	slug *vo.Slug,
	description, logo, domain string,
	isActive bool,
	settings map[string]interface{},
	createdAt, updatedAt time.Time,
	version int,
) (*Establishment, error) {
	if id == 0 {
		return nil, fmt.Errorf("establishment ID cannot be zero")
	}
	if name == nil {
		return nil, fmt.Errorf("name is required")
	}
	if slug == nil {
		return nil, fmt.Errorf("slug is required")
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}

	return &Establishment{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		logo:        logo,
		domain:      domain,
		isActive:    isActive,
		settings:    settings,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
	}, nil
}

// SetID sets the establishment ID after persistence. The ID is immutable once
// assigned.
func (e *Establishment) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("establishment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("establishment ID cannot be zero")
	}
	e.id = id
	return nil
}

// Rename changes the display name. The slug and ID are unaffected; tenant
// data stays addressable under the same database name.
func (e *Establishment) Rename(name *vo.Name) error {
	if name == nil {
		return fmt.Errorf("name is required")
	}
	e.name = name
	e.touch()
	return nil
}

// UpdateProfile updates the optional descriptive fields. A nil pointer leaves
// the field unchanged.
func (e *Establishment) UpdateProfile(description, logo, domain *string) {
	if description != nil {
		e.description = *description
	}
	if logo != nil {
		e.logo = *logo
	}
	if domain != nil {
		e.domain = *domain
	}
	e.touch()
}

// UpdateSettings replaces the opaque settings blob
func (e *Establishment) UpdateSettings(settings map[string]interface{}) {
	if settings == nil {
		settings = map[string]interface{}{}
	}
	e.settings = settings
	e.touch()
}

// Deactivate soft-deletes the establishment. Tenant data is retained; only
// live routing is cut off.
func (e *Establishment) Deactivate() error {
	if !e.isActive {
		return fmt.Errorf("establishment is already inactive")
	}
	e.isActive = false
	e.touch()
	return nil
}

// Reactivate restores routing for a previously deactivated establishment
func (e *Establishment) Reactivate() error {
	if e.isActive {
		return fmt.Errorf("establishment is already active")
	}
	e.isActive = true
	e.touch()
	return nil
}

func (e *Establishment) touch() {
	e.updatedAt = time.Now()
}

// Getters

func (e *Establishment) ID() uint                         { return e.id }
func (e *Establishment) Name() *vo.Name                   { return e.name }
func (e *Establishment) Slug() *vo.Slug                   { return e.slug }
func (e *Establishment) Description() string              { return e.description }
func (e *Establishment) Logo() string                     { return e.logo }
func (e *Establishment) Domain() string                   { return e.domain }
func (e *Establishment) IsActive() bool                   { return e.isActive }
func (e *Establishment) Settings() map[string]interface{} { return e.settings }
func (e *Establishment) CreatedAt() time.Time             { return e.createdAt }
func (e *Establishment) UpdatedAt() time.Time             { return e.updatedAt }
func (e *Establishment) Version() int                     { return e.version }
