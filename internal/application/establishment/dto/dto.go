package dto

import (
	"time"
)

// CreateEstablishmentRequest represents the request to register an establishment
type CreateEstablishmentRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
	Slug string `json:"slug,omitempty" binding:"omitempty,min=2,max=63,slug"`
}

// UpdateEstablishmentRequest represents the request to update an establishment.
// Nil fields are left unchanged.
type UpdateEstablishmentRequest struct {
	Name        *string                `json:"name,omitempty" binding:"omitempty,min=2,max=150"`
	Description *string                `json:"description,omitempty"`
	Logo        *string                `json:"logo,omitempty" binding:"omitempty,url"`
	Domain      *string                `json:"domain,omitempty" binding:"omitempty,fqdn"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// ListEstablishmentsRequest represents the request to list establishments
type ListEstablishmentsRequest struct {
	ActiveOnly bool `json:"active_only" form:"active_only"`
}

// EstablishmentResponse represents an establishment for API consumers
type EstablishmentResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description,omitempty"`
	Logo        string                 `json:"logo,omitempty"`
	Domain      string                 `json:"domain,omitempty"`
	IsActive    bool                   `json:"is_active"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// CreateEstablishmentResponse includes the provisioning outcome alongside the
// new establishment. A failed eager provisioning does not fail creation; the
// tenant database is provisioned on first access instead.
type CreateEstablishmentResponse struct {
	Establishment *EstablishmentResponse `json:"establishment"`
	Provisioned   bool                   `json:"provisioned"`
}

// ListEstablishmentsResponse represents the response for listing establishments
type ListEstablishmentsResponse struct {
	Establishments []*EstablishmentResponse `json:"establishments"`
	Total          int                      `json:"total"`
}

// EstablishmentStatsResponse carries per-tenant record counts
type EstablishmentStatsResponse struct {
	EstablishmentID uint  `json:"establishment_id"`
	Users           int64 `json:"users"`
	Courses         int64 `json:"courses"`
	Themes          int64 `json:"themes"`
}

// PublicProfileResponse is the unauthenticated establishment profile
type PublicProfileResponse struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Logo            string `json:"logo,omitempty"`
	Domain          string `json:"domain,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
}
