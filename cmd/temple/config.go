package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/temple/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "TEMPLE"

	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeyQuotaBytes        = "quota_bytes"
	cfgKeyLogLevel          = "log_level"
	cfgKeyLogFormat         = "log_format"
	cfgKeyMetricsTextfile   = "metrics_textfile"
	cfgKeyAdminUsername     = "admin_username"
	cfgKeyAdminPasswordHash = "admin_password_hash"

	defaultBackend   = types.BackendFiles
	defaultLogLevel  = "warn"
	defaultLogFormat = "console"
)

// envKeys are overridable as TEMPLE_<KEY>. data_dir is resolved by the
// paths package so that config.yaml takes precedence over TEMPLE_DATA_DIR.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyQuotaBytes,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
	cfgKeyMetricsTextfile,
	cfgKeyAdminUsername,
	cfgKeyAdminPasswordHash,
}

// fileConfig is the shape of the config.yaml written on first run.
type fileConfig struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir"`
	QuotaBytes int64  `yaml:"quota_bytes"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

var keyComments = map[string]string{
	cfgKeyBackend:    "Storage backend: memory, files, or sqlite",
	cfgKeyDataDir:    "Data directory; empty means $(CWD)/.temple-db. Relative paths are under this directory",
	cfgKeyQuotaBytes: "Largest serialized partition accepted, in bytes",
	cfgKeyLogLevel:   "trace, debug, info, warn, or error",
	cfgKeyLogFormat:  "console or json",
}

// defaultConfigYAML renders the first-run config.yaml with comments.
func defaultConfigYAML() ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(fileConfig{
		Backend:    defaultBackend,
		QuotaBytes: types.DefaultQuotaBytes,
		LogLevel:   defaultLogLevel,
		LogFormat:  defaultLogFormat,
	}); err != nil {
		return nil, err
	}
	node.HeadComment = "Temple CLI configuration"
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if c, ok := keyComments[key.Value]; ok {
			key.HeadComment = c
		}
	}
	return yaml.Marshal(&node)
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyQuotaBytes, types.DefaultQuotaBytes)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	data, err := defaultConfigYAML()
	if err != nil {
		return fmt.Errorf("render default config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// storeConfig builds the store configuration from v and a resolved data
// directory.
func storeConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:           v.GetString(cfgKeyBackend),
		DataDir:           dataDir,
		QuotaBytes:        v.GetInt64(cfgKeyQuotaBytes),
		AdminUsername:     v.GetString(cfgKeyAdminUsername),
		AdminPasswordHash: v.GetString(cfgKeyAdminPasswordHash),
	}
}
