package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

var (
	cfgFile    = "kibitz/config.json"
	libraryDir = "kibitz/games"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	WhitePiece      int `json:"white_piece"`
	BlackPiece      int `json:"black_piece"`
	Coordinates     int `json:"coordinates"`
	LastPlayedBG    int `json:"last_played_bg"`
	SuggestionArrow int `json:"suggestion_arrow"`
	ManualArrow     int `json:"manual_arrow"`
	WinRateWhite    int `json:"winrate_white"`
	WinRateBlack    int `json:"winrate_black"`
}

type ConfigSymbols struct {
	ArrowBody  rune `json:"arrow_body"`
	ArrowHead  rune `json:"arrow_head"`
	ArrowStart rune `json:"arrow_start"`
}

type Theme struct {
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	ShowCoordinates          bool          `json:"show_coordinates"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// BackendConfig points at the analysis service.
type BackendConfig struct {
	URL        string `json:"url"`
	TimeoutSec int    `json:"timeout_sec"`
	Retries    int    `json:"retries"`
}

// CacheConfig enables the Redis result cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string `json:"redis_url"`
	TTLSec   int    `json:"ttl_sec"`
}

type AudioConfig struct {
	Muted  bool    `json:"muted"`
	Volume float64 `json:"volume"`
}

// LogConfig controls the file logger. An empty File logs under the XDG data
// dir; "off" disables logging.
type LogConfig struct {
	Level  string `json:"level"`
	File   string `json:"file"`
	Format string `json:"format"`
}

type LibraryConfig struct {
	Dir string `json:"dir"`
}

type Config struct {
	Theme   Theme         `json:"theme"`
	Backend BackendConfig `json:"backend"`
	Cache   CacheConfig   `json:"cache"`
	Audio   AudioConfig   `json:"audio"`
	Log     LogConfig     `json:"log"`
	Library LibraryConfig `json:"library"`
}

// InitConfig loads the config file if one exists, layered over DefaultConfig.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, &InvalidConfig{fmt.Sprintf("%s: %s", absPath, err)}
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.ArrowBody, c.Theme.Symbols.ArrowHead, c.Theme.Symbols.ArrowStart} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidConfig{fmt.Sprintf("backend url %q must be an http(s) URL", c.Backend.URL)}
	}
	if c.Backend.TimeoutSec <= 0 {
		return &InvalidConfig{"backend timeout_sec must be positive"}
	}
	if c.Backend.Retries < 0 {
		return &InvalidConfig{"backend retries cannot be negative"}
	}
	if c.Cache.RedisURL != "" && c.Cache.TTLSec <= 0 {
		return &InvalidConfig{"cache ttl_sec must be positive when redis_url is set"}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return &InvalidConfig{"audio volume must be between 0 and 1"}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error", "off":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	return nil
}

// LibraryDir returns the directory holding PGN files and exports.
func (c *Config) LibraryDir() string {
	if c.Library.Dir != "" {
		return c.Library.Dir
	}
	return filepath.Join(xdg.DataHome, libraryDir)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	return json.Unmarshal(data, a)
}
