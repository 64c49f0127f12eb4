// Package config defines the configuration structures shared across layers.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseDomain     string   `mapstructure:"base_domain"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig describes the registry database connection. The registry is
// the single shared database that lists all establishments.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // mysql or sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"` // sqlite file path
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

// TenantConfig describes how per-establishment databases are created and how
// their cached handles are bounded.
type TenantConfig struct {
	Driver                  string `mapstructure:"driver"` // mysql or sqlite
	Host                    string `mapstructure:"host"`   // mysql server hosting tenant databases
	Port                    int    `mapstructure:"port"`
	Username                string `mapstructure:"username"`
	Password                string `mapstructure:"password"`
	DataDir                 string `mapstructure:"data_dir"`  // sqlite tenant files live here
	DBPrefix                string `mapstructure:"db_prefix"` // deterministic database name prefix
	MaxOpenConns            int    `mapstructure:"max_open_conns"`
	MaxIdleConns            int    `mapstructure:"max_idle_conns"`
	IdleTTLMinutes          int    `mapstructure:"idle_ttl_minutes"`
	MaxCachedHandles        int    `mapstructure:"max_cached_handles"`
	ProvisionTimeoutSeconds int    `mapstructure:"provision_timeout_seconds"`
}

// GetServerDSN returns a mysql DSN without a database selected, used for
// CREATE DATABASE during provisioning.
func (t *TenantConfig) GetServerDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local",
		t.Username, t.Password, t.Host, t.Port)
}

// GetDSN returns a mysql DSN for one tenant database.
func (t *TenantConfig) GetDSN(dbName string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		t.Username, t.Password, t.Host, t.Port, dbName)
}

func (t *TenantConfig) IdleTTL() time.Duration {
	return time.Duration(t.IdleTTLMinutes) * time.Minute
}

func (t *TenantConfig) ProvisionTimeout() time.Duration {
	return time.Duration(t.ProvisionTimeoutSeconds) * time.Second
}

// DatabaseName returns the deterministic tenant database name for an
// establishment ID. Derived from the immutable ID, never from the slug, so a
// rename never orphans tenant data.
func (t *TenantConfig) DatabaseName(establishmentID uint) string {
	prefix := t.DBPrefix
	if prefix == "" {
		prefix = "tenant_"
	}
	return fmt.Sprintf("%s%d", prefix, establishmentID)
}

// SQLitePath returns the sqlite file path for an establishment ID.
func (t *TenantConfig) SQLitePath(establishmentID uint) string {
	return filepath.Join(t.DataDir, t.DatabaseName(establishmentID)+".db")
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// SeedConfig holds defaults for the rows written into a freshly provisioned
// tenant database.
type SeedConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminName     string `mapstructure:"admin_name"`
	AdminPassword string `mapstructure:"admin_password"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	Seed     SeedConfig     `mapstructure:"seed"`
}
