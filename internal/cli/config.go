package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// ROOMCTL_SERVER or ROOMCTL_TOKEN_FILE
const EnvPrefix = "ROOMCTL"

// Config holds CLI configuration
type Config struct {
	ServerURL string `mapstructure:"server"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
	Output    string `mapstructure:"output"`
	Verbose   bool   `mapstructure:"verbose"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8080",
		TokenFile: defaultTokenFile(),
		Output:    "text",
	}
}

// newViper returns a viper instance reading ROOMCTL_* variables and an
// optional config.yaml in ~/.roomctl
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env values for keys viper already knows
	d := DefaultConfig()
	v.SetDefault("server", d.ServerURL)
	v.SetDefault("token", "")
	v.SetDefault("token-file", d.TokenFile)
	v.SetDefault("output", d.Output)
	v.SetDefault("verbose", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	return v
}

// LoadConfig resolves the configuration from flags, environment and the
// config file, in that order of precedence
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	c := DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	c.Token = strings.TrimSpace(c.Token)
	return c, nil
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".roomctl")
}

func defaultTokenFile() string {
	dir := configDir()
	if dir == "" {
		return filepath.Join(".roomctl", "token")
	}
	return filepath.Join(dir, "token")
}
