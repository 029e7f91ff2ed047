package types

import "errors"

// Config holds backend selection and parameters for Temple.Open.
type Config struct {
	Backend    string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir    string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	QuotaBytes int64  `json:"quota_bytes" yaml:"quota_bytes,omitempty" mapstructure:"quota_bytes"`

	AdminUsername     string `json:"admin_username" yaml:"admin_username,omitempty" mapstructure:"admin_username"`
	AdminPasswordHash string `json:"admin_password_hash" yaml:"admin_password_hash,omitempty" mapstructure:"admin_password_hash"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// DefaultQuotaBytes caps a single partition value when Config.QuotaBytes is zero.
const DefaultQuotaBytes int64 = 5 << 20

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrQuotaInvalid   = errors.New("quota must not be negative")
)

var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendFiles:  true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.QuotaBytes < 0 {
		return ErrQuotaInvalid
	}
	return nil
}

// Quota returns the effective per-partition quota in bytes.
func (c Config) Quota() int64 {
	if c.QuotaBytes == 0 {
		return DefaultQuotaBytes
	}
	return c.QuotaBytes
}
