package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cloo-solutions/ordlens/internal/backend"
	"github.com/cloo-solutions/ordlens/internal/present"
)

// UserConfig is the per-user config.yaml.
type UserConfig struct {
	APIURL    string `yaml:"api_url,omitempty"`
	ShareBase string `yaml:"share_base,omitempty"`
	MintURL   string `yaml:"mint_url,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
}

const (
	envAPIURL    = "ORDLENS_API_URL"
	envShareBase = "ORDLENS_SHARE_BASE"
	envMintURL   = "ORDLENS_MINT_URL"
	envLogLevel  = "ORDLENS_LOG_LEVEL"

	defaultLogLevel = "warn"
)

var (
	getConfigDirFunc  = defaultGetConfigDir
	getConfigPathFunc = defaultGetConfigPath
)

func defaultGetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "ordlens"), nil
}

func defaultGetConfigPath() (string, error) {
	configDir, err := getConfigDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetConfigPath returns the full path to config.yaml
func GetConfigPath() (string, error) {
	return getConfigPathFunc()
}

// LoadUserConfig reads config.yaml. A missing file yields an empty config.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config UserConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// SaveUserConfig writes config.yaml, creating its directory.
func SaveUserConfig(config *UserConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// configFields maps config.yaml keys to their fields.
func (c *UserConfig) configFields() map[string]*string {
	return map[string]*string{
		"api_url":    &c.APIURL,
		"share_base": &c.ShareBase,
		"mint_url":   &c.MintURL,
		"log_level":  &c.LogLevel,
	}
}

// ConfigKeys lists the settable keys in order.
func ConfigKeys() []string {
	keys := make([]string, 0, 4)
	for k := range (&UserConfig{}).configFields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one key. An empty value clears it.
func (c *UserConfig) Set(key, value string) error {
	field, ok := c.configFields()[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	*field = value
	return nil
}

// Get returns the value of one key.
func (c *UserConfig) Get(key string) (string, bool) {
	field, ok := c.configFields()[key]
	if !ok {
		return "", false
	}
	return *field, true
}

// Settings is the resolved configuration of one CLI invocation.
type Settings struct {
	APIURL    string
	ShareBase string
	MintURL   string
	LogLevel  string
	Timeout   time.Duration
	JSON      bool
	Copy      bool
	Details   bool
}

// ResolveSettings applies the cascade flag → env → config.yaml → default
// to every setting. cmd may be nil, in which case flags are skipped.
func ResolveSettings(cmd *cobra.Command) (*Settings, error) {
	_ = godotenv.Load()

	userConfig, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	s := &Settings{
		APIURL:    resolve(cmd, "api-url", envAPIURL, userConfig.APIURL, backend.DefaultBaseURL),
		ShareBase: resolve(cmd, "share-base", envShareBase, userConfig.ShareBase, ""),
		MintURL:   resolve(cmd, "mint-url", envMintURL, userConfig.MintURL, present.DefaultMintURL),
		LogLevel:  resolve(cmd, "loglevel", envLogLevel, userConfig.LogLevel, defaultLogLevel),
		Timeout:   backend.DefaultTimeout,
	}

	if cmd != nil {
		s.JSON, _ = cmd.Flags().GetBool("output")
		s.Copy, _ = cmd.Flags().GetBool("copy")
		s.Details, _ = cmd.Flags().GetBool("details")
		if timeout, err := cmd.Flags().GetDuration("timeout"); err == nil && timeout > 0 {
			s.Timeout = timeout
		}
	}
	return s, nil
}

func resolve(cmd *cobra.Command, flag, env, fromFile, fallback string) string {
	if cmd != nil {
		if v, err := cmd.Flags().GetString(flag); err == nil && v != "" {
			return v
		}
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	if fromFile != "" {
		return fromFile
	}
	return fallback
}
