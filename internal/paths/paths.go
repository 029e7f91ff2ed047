// Package paths resolves the configuration and data directories.
//
// Both default to hidden directories under the working directory so that
// each site checkout carries its own records.
package paths

import (
	"os"
	"path/filepath"
)

// Directory names created under the working directory when nothing
// overrides them.
const (
	DefaultConfigDirName = ".temple"
	DefaultDataDirName   = ".temple-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TEMPLE_CONFIG_DIR"
	EnvDataDir   = "TEMPLE_DATA_DIR"
)

// getwd is replaced in tests.
var getwd = os.Getwd

// ResolveConfigDir returns the configuration directory:
// flag > TEMPLE_CONFIG_DIR > $(CWD)/.temple.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return underCWD(DefaultConfigDirName)
}

// ResolveDataDir returns the data directory:
// flag > data_dir from config.yaml > TEMPLE_DATA_DIR > $(CWD)/.temple-db.
// A relative config value is taken relative to configDir.
func ResolveDataDir(flag, configValue, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		if !filepath.IsAbs(configValue) && configDir != "" {
			configValue = filepath.Join(configDir, configValue)
		}
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return underCWD(DefaultDataDirName)
}

func underCWD(name string) (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
