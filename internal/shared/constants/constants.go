// Package constants defines shared constants used across the application.
package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Registry database table names
const (
	TableEstablishments = "establishments"
)

// Tenant database table names
const (
	TableTenantUsers   = "users"
	TableTenantThemes  = "themes"
	TableTenantCourses = "courses"
)

// Tenant user roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Default seed values for a freshly provisioned establishment
const (
	DefaultAdminEmail = "admin@localhost"
	DefaultAdminName  = "Administrator"
	DefaultThemeName  = "Default"
)
