package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is the spoofed desktop browser user agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

	// DefaultAppID is the Instagram web application id required by the profile endpoint
	DefaultAppID = "936619743392459"

	envPrefix = "INSTARECON_"
)

// Config holds all configuration options for instarecon
type Config struct {
	// Instagram request settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Batch mode settings
	Batch BatchConfig `yaml:"batch" json:"batch"`

	// Report rendering settings
	Report ReportConfig `yaml:"report" json:"report"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	AppID     string        `yaml:"app_id" json:"app_id"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	SessionID string        `yaml:"session_id" json:"session_id"`
	CSRFToken string        `yaml:"csrf_token" json:"csrf_token"`
}

// HasSession reports whether session cookies are configured
func (c *InstagramConfig) HasSession() bool {
	return c.SessionID != "" && c.CSRFToken != ""
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	NoHTML        bool   `yaml:"no_html" json:"no_html"`
}

// BatchConfig holds batch mode configuration
type BatchConfig struct {
	Delay time.Duration `yaml:"delay" json:"delay"`
}

// ReportConfig holds report rendering configuration
type ReportConfig struct {
	MaxPosts      int `yaml:"max_posts" json:"max_posts"`
	CaptionLength int `yaml:"caption_length" json:"caption_length"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: DefaultUserAgent,
			AppID:     DefaultAppID,
			Timeout:   30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: ".",
			NoHTML:        false,
		},
		Batch: BatchConfig{
			Delay: 2 * time.Second,
		},
		Report: ReportConfig{
			MaxPosts:      12,
			CaptionLength: 80,
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.Instagram.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "APP_ID"); v != "" {
		c.Instagram.AppID = v
	}
	if v := os.Getenv(envPrefix + "SESSION_ID"); v != "" {
		c.Instagram.SessionID = v
	}
	if v := os.Getenv(envPrefix + "CSRF_TOKEN"); v != "" {
		c.Instagram.CSRFToken = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		c.Instagram.Timeout = d
	}

	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv(envPrefix + "NO_HTML"); v != "" {
		c.Output.NoHTML = strings.ToLower(v) == "true"
	}

	if v := os.Getenv(envPrefix + "BATCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sBATCH_DELAY: %w", envPrefix, err)
		}
		c.Batch.Delay = d
	}

	if v := os.Getenv(envPrefix + "MAX_POSTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_POSTS: %w", envPrefix, err)
		}
		c.Report.MaxPosts = n
	}

	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file and overlays it onto c.
// Keys absent from the file keep their current values; keys present win even
// when zero (max_posts: 0, delay: 0s).
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// decode onto a copy so a parse error leaves c untouched
	fileCfg := *c
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := mergo.Merge(c, fileCfg, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
		return fmt.Errorf("failed to merge config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".instarecon.yaml",
		".instarecon.yml",
		filepath.Join(home, ".config", "instarecon", "config.yaml"),
		filepath.Join(home, ".config", "instarecon", "config.yml"),
		filepath.Join(home, ".instarecon.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Instagram.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Instagram.AppID == "" {
		errs = append(errs, errors.New("Instagram app id is required"))
	}
	if c.Instagram.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if (c.Instagram.SessionID == "") != (c.Instagram.CSRFToken == "") {
		errs = append(errs, errors.New("session id and CSRF token must be set together"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Batch.Delay < 0 {
		errs = append(errs, errors.New("batch delay cannot be negative"))
	}

	if c.Report.MaxPosts < 0 {
		errs = append(errs, errors.New("max posts cannot be negative"))
	}
	if c.Report.CaptionLength <= 0 {
		errs = append(errs, errors.New("caption length must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if noHTML, ok := flags["no-html"].(bool); ok && noHTML {
		c.Output.NoHTML = true
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Batch.Delay = delay
	}
	if posts, ok := flags["posts"].(int); ok && posts >= 0 {
		c.Report.MaxPosts = posts
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Instagram.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".instarecon.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
