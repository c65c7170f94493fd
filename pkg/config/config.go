/*
Package config manages TOML config for PadaServe services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/dictionary"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
	"github.com/bastiangx/padaserve/pkg/suggest"
)

// Config holds the entire config structure
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Lexicon  LexiconConfig  `toml:"lexicon"`
	Paradigm ParadigmConfig `toml:"paradigm"`
	Cache    CacheConfig    `toml:"cache"`
	HTTP     HTTPConfig     `toml:"http"`
	Redis    RedisConfig    `toml:"redis"`
	CLI      CliConfig      `toml:"cli"`
}

// ServerConfig has request handling options.
type ServerConfig struct {
	MaxResults   int  `toml:"max_results"`
	MaxDistance  int  `toml:"max_distance"`
	MinWordLen   int  `toml:"min_word_len"`
	MaxWordLen   int  `toml:"max_word_len"`
	EnableFilter bool `toml:"enable_filter"`
}

// LexiconConfig says where the paradigm source lives and how it is built.
type LexiconConfig struct {
	SourceDir         string `toml:"source_dir"`
	CachePath         string `toml:"cache_path"`
	MergePolicy       string `toml:"merge_policy"`
	IncludeStems      bool   `toml:"include_stems"`
	Builtin           bool   `toml:"builtin"`
	ReloadIntervalSec int    `toml:"reload_interval_sec"`
}

// ParadigmConfig holds variant derivation options.
type ParadigmConfig struct {
	DeriveVariants bool        `toml:"derive_variants"`
	PrefixPairs    [][2]string `toml:"prefix_pairs"`
}

// CacheConfig sizes the suggestion cache.
type CacheConfig struct {
	SuggestionCacheSize int `toml:"suggestion_cache_size"`
}

// HTTPConfig holds options for the JSON API.
type HTTPConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// RedisConfig points at the user word store.
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/padaserve
// 2. ~/Library/Application Support/padaserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/padaserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	pairs := make([][2]string, len(paradigm.DefaultPrefixPairs))
	for i, p := range paradigm.DefaultPrefixPairs {
		pairs[i] = [2]string{p.From, p.To}
	}
	return &Config{
		Server: ServerConfig{
			MaxResults:   suggest.DefaultMaxResults,
			MaxDistance:  suggest.DefaultMaxDistance,
			MinWordLen:   2,
			MaxWordLen:   64,
			EnableFilter: true,
		},
		Lexicon: LexiconConfig{
			SourceDir:         "data",
			CachePath:         "lexicon.msgpack",
			MergePolicy:       lexicon.MergeMax.String(),
			IncludeStems:      true,
			Builtin:           true,
			ReloadIntervalSec: 0,
		},
		Paradigm: ParadigmConfig{
			DeriveVariants: false,
			PrefixPairs:    pairs,
		},
		Cache: CacheConfig{
			SuggestionCacheSize: 4096,
		},
		HTTP: HTTPConfig{
			Addr:           "127.0.0.1:8732",
			AllowedOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
			Key:     "padaserve:words",
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			DefaultNoFilter: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every value that parses and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "lexicon"); ok {
		extractLexiconConfig(section, &config.Lexicon)
	}
	if section, ok := utils.ExtractSection(tempConfig, "paradigm"); ok {
		extractParadigmConfig(section, &config.Paradigm)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		if val, ok := utils.ExtractInt64(section, "suggestion_cache_size"); ok {
			config.Cache.SuggestionCacheSize = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "http"); ok {
		extractHTTPConfig(section, &config.HTTP)
	}
	if section, ok := utils.ExtractSection(tempConfig, "redis"); ok {
		extractRedisConfig(section, &config.Redis)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		server.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "max_distance"); ok {
		server.MaxDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "min_word_len"); ok {
		server.MinWordLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		server.MaxWordLen = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractLexiconConfig(data map[string]any, lex *LexiconConfig) {
	if val, ok := utils.ExtractString(data, "source_dir"); ok {
		lex.SourceDir = val
	}
	if val, ok := utils.ExtractString(data, "cache_path"); ok {
		lex.CachePath = val
	}
	if val, ok := utils.ExtractString(data, "merge_policy"); ok {
		lex.MergePolicy = val
	}
	if val, ok := utils.ExtractBool(data, "include_stems"); ok {
		lex.IncludeStems = val
	}
	if val, ok := utils.ExtractBool(data, "builtin"); ok {
		lex.Builtin = val
	}
	if val, ok := utils.ExtractInt64(data, "reload_interval_sec"); ok {
		lex.ReloadIntervalSec = val
	}
}

func extractParadigmConfig(data map[string]any, p *ParadigmConfig) {
	if val, ok := utils.ExtractBool(data, "derive_variants"); ok {
		p.DeriveVariants = val
	}
	if val, ok := utils.ExtractStringPairs(data, "prefix_pairs"); ok {
		p.PrefixPairs = val
	}
}

func extractHTTPConfig(data map[string]any, h *HTTPConfig) {
	if val, ok := utils.ExtractString(data, "addr"); ok {
		h.Addr = val
	}
	if val, ok := utils.ExtractStringSlice(data, "allowed_origins"); ok {
		h.AllowedOrigins = val
	}
}

func extractRedisConfig(data map[string]any, r *RedisConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		r.Enabled = val
	}
	if val, ok := utils.ExtractString(data, "addr"); ok {
		r.Addr = val
	}
	if val, ok := utils.ExtractString(data, "password"); ok {
		r.Password = val
	}
	if val, ok := utils.ExtractInt64(data, "db"); ok {
		r.DB = val
	}
	if val, ok := utils.ExtractString(data, "key"); ok {
		r.Key = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// SuggestOptions returns the suggestion bounds from the server section.
func (c *Config) SuggestOptions() suggest.Options {
	return suggest.Options{
		MaxDistance: c.Server.MaxDistance,
		MaxResults:  c.Server.MaxResults,
	}
}

// BuildOptions translates the lexicon and paradigm sections. An unknown
// merge policy falls back to max with a warning.
func (c *Config) BuildOptions() dictionary.BuildOptions {
	policy, err := lexicon.ParseMergePolicy(c.Lexicon.MergePolicy)
	if err != nil {
		log.Warnf("%v. Using %s", err, policy)
	}
	opts := dictionary.BuildOptions{
		Policy:       policy,
		IncludeStems: c.Lexicon.IncludeStems,
		Builtin:      c.Lexicon.Builtin,
	}
	if c.Paradigm.DeriveVariants {
		for _, p := range c.Paradigm.PrefixPairs {
			opts.PrefixPairs = append(opts.PrefixPairs, paradigm.PrefixPair{From: p[0], To: p[1]})
		}
	}
	return opts
}

// ReloadInterval returns the source polling interval; zero disables it.
func (c *Config) ReloadInterval() time.Duration {
	if c.Lexicon.ReloadIntervalSec <= 0 {
		return 0
	}
	return time.Duration(c.Lexicon.ReloadIntervalSec) * time.Second
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the request handling values and saves to file. An
// empty configPath only updates c.
func (c *Config) Update(configPath string, maxResults, maxDistance *int, enableFilter *bool) error {
	server := &c.Server
	if maxResults != nil {
		server.MaxResults = *maxResults
	}
	if maxDistance != nil {
		server.MaxDistance = *maxDistance
	}
	if enableFilter != nil {
		server.EnableFilter = *enableFilter
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
