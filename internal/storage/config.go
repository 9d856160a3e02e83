package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/nikbrunner/shelf/internal/model"
)

// DefaultProfile is the profile created with a fresh config.
const DefaultProfile = "default"

// Profile names a tree document. Path ending in .db selects SQLite storage,
// anything else JSON. Relative paths are resolved against the config directory.
type Profile struct {
	Name string `mapstructure:"name" json:"name"`
	Path string `mapstructure:"path" json:"path"`
}

// Config holds application configuration.
type Config struct {
	ActiveProfile      string        `mapstructure:"active_profile"`
	Profiles           []Profile     `mapstructure:"profiles"`
	SortMode           string        `mapstructure:"sort_mode"`
	SaveDelay          time.Duration `mapstructure:"save_delay"`
	SearchDelay        time.Duration `mapstructure:"search_delay"`
	LogLevel           string        `mapstructure:"log_level"`
	CullExcludeDomains []string      `mapstructure:"cull_exclude_domains"`

	path string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ActiveProfile:      DefaultProfile,
		Profiles:           []Profile{{Name: DefaultProfile, Path: "shelf.json"}},
		SortMode:           "name-asc",
		SaveDelay:          time.Second,
		SearchDelay:        time.Second,
		LogLevel:           "warn",
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("SHELF")
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("active_profile", d.ActiveProfile)
	v.SetDefault("sort_mode", d.SortMode)
	v.SetDefault("save_delay", d.SaveDelay)
	v.SetDefault("search_delay", d.SearchDelay)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("cull_exclude_domains", d.CullExcludeDomains)
	return v
}

// LoadConfig reads config from the JSON file at path.
// Creates the file with defaults if it doesn't exist; a failure to write it is
// logged to log, or the standard logger when log is nil.
func LoadConfig(path string, log logrus.FieldLogger) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
		config := DefaultConfig()
		config.path = path
		if err := config.Save(); err != nil {
			if log == nil {
				log = logrus.StandardLogger()
			}
			log.WithError(err).WithField("path", path).Warn("could not write default config")
		}
		return &config, nil
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.path = path
	if len(config.Profiles) == 0 {
		config.Profiles = DefaultConfig().Profiles
	}
	return &config, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its file, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("active_profile", c.ActiveProfile)
	profiles := make([]map[string]any, len(c.Profiles))
	for i, p := range c.Profiles {
		profiles[i] = map[string]any{"name": p.Name, "path": p.Path}
	}
	v.Set("profiles", profiles)
	v.Set("sort_mode", c.SortMode)
	v.Set("save_delay", c.SaveDelay.String())
	v.Set("search_delay", c.SearchDelay.String())
	v.Set("log_level", c.LogLevel)
	v.Set("cull_exclude_domains", c.CullExcludeDomains)
	return v.WriteConfigAs(c.path)
}

// Profile returns the named profile with its path resolved.
func (c *Config) Profile(name string) (Profile, error) {
	i := c.indexOf(name)
	if i < 0 {
		return Profile{}, fmt.Errorf("profile %q: %w", name, model.ErrItemNotFound)
	}
	p := c.Profiles[i]
	p.Path = c.resolve(p.Path)
	return p, nil
}

// Active returns the active profile, falling back to the first one.
func (c *Config) Active() (Profile, error) {
	if p, err := c.Profile(c.ActiveProfile); err == nil {
		return p, nil
	}
	if len(c.Profiles) == 0 {
		return Profile{}, fmt.Errorf("no profiles configured: %w", model.ErrItemNotFound)
	}
	return c.Profile(c.Profiles[0].Name)
}

// AddProfile registers a new profile.
func (c *Config) AddProfile(name, path string) error {
	name, err := model.ValidateName("profile name", name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return &model.ValidationError{Field: "path", Message: "profile path is required"}
	}
	if c.indexOf(name) >= 0 {
		return &model.ValidationError{Field: "profile name", Message: fmt.Sprintf("profile %q already exists", name)}
	}
	c.Profiles = append(c.Profiles, Profile{Name: name, Path: path})
	return nil
}

// RemoveProfile deletes a profile. The last profile cannot be removed.
// Removing the active profile activates the first remaining one.
func (c *Config) RemoveProfile(name string) error {
	i := c.indexOf(name)
	if i < 0 {
		return fmt.Errorf("profile %q: %w", name, model.ErrItemNotFound)
	}
	if len(c.Profiles) == 1 {
		return &model.ValidationError{Field: "profile name", Message: "cannot remove the only profile"}
	}
	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	if c.ActiveProfile == name {
		c.ActiveProfile = c.Profiles[0].Name
	}
	return nil
}

// RenameProfile changes a profile's name, following it if it is active.
func (c *Config) RenameProfile(from, to string) error {
	i := c.indexOf(from)
	if i < 0 {
		return fmt.Errorf("profile %q: %w", from, model.ErrItemNotFound)
	}
	to, err := model.ValidateName("profile name", to)
	if err != nil {
		return err
	}
	if j := c.indexOf(to); j >= 0 && j != i {
		return &model.ValidationError{Field: "profile name", Message: fmt.Sprintf("profile %q already exists", to)}
	}
	c.Profiles[i].Name = to
	if c.ActiveProfile == from {
		c.ActiveProfile = to
	}
	return nil
}

// SetActive makes name the active profile.
func (c *Config) SetActive(name string) error {
	if c.indexOf(name) < 0 {
		return fmt.Errorf("profile %q: %w", name, model.ErrItemNotFound)
	}
	c.ActiveProfile = name
	return nil
}

func (c *Config) indexOf(name string) int {
	return slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
}

func (c *Config) resolve(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) || c.path == "" {
		return path
	}
	return filepath.Join(filepath.Dir(c.path), path)
}

// DefaultConfigFilePath returns the default config path: ~/.config/shelf/config.json
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "shelf", "config.json"), nil
}
