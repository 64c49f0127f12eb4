package models

import (
	"time"

	"academos/internal/shared/constants"
)

// Tenant business tables. These live in each establishment's dedicated
// database, never in the registry. Only the tables the tenant core seeds or
// counts are modeled here; the rest of the business schema is owned by the
// application layers consuming the tenant handle.

// TenantUserModel represents a user inside one tenant database
type TenantUserModel struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	Name         string `gorm:"not null;size:100"`
	Role         string `gorm:"not null;default:student;size:20;index:idx_users_role"`
	PasswordHash string `gorm:"size:255"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TenantUserModel) TableName() string {
	return constants.TableTenantUsers
}

// TenantThemeModel represents a presentation theme inside one tenant database
type TenantThemeModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;not null;size:100"`
	IsDefault bool   `gorm:"not null;default:false"`
	Palette   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TenantThemeModel) TableName() string {
	return constants.TableTenantThemes
}

// TenantCourseModel represents a course inside one tenant database
type TenantCourseModel struct {
	ID          uint   `gorm:"primarykey"`
	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"`
	CreatedBy   uint   `gorm:"index:idx_courses_created_by"`
	IsPublished bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TenantCourseModel) TableName() string {
	return constants.TableTenantCourses
}

// TenantModels returns every model migrated into a tenant database
func TenantModels() []interface{} {
	return []interface{}{
		&TenantUserModel{},
		&TenantThemeModel{},
		&TenantCourseModel{},
	}
}

// RegistryModels returns every model migrated into the registry database
func RegistryModels() []interface{} {
	return []interface{}{
		&EstablishmentModel{},
	}
}
