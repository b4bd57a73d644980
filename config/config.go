// Package config loads command line settings from defaults, an optional
// YAML file, a .env file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/ZaguanLabs/i18nsync/corpus"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "I18NSYNC_"

// Config holds every setting of a run.
type Config struct {
	Directory     string   `yaml:"directory" env:"DIRECTORY"`
	AutoAdd       bool     `yaml:"auto_add" env:"AUTO_ADD"`
	AutoTranslate bool     `yaml:"auto_translate" env:"AUTO_TRANSLATE"`
	AutoRemove    bool     `yaml:"auto_remove" env:"AUTO_REMOVE"`
	SortKeys      bool     `yaml:"sort_keys" env:"SORT_KEYS"`
	DryRun        bool     `yaml:"dry_run" env:"DRY_RUN"`
	Indent        int      `yaml:"indent" env:"INDENT"`
	Marker        string   `yaml:"marker" env:"MARKER"`
	Extensions    []string `yaml:"extensions" env:"EXTENSIONS" envSeparator:","`
	Exclude       []string `yaml:"exclude" env:"EXCLUDE" envSeparator:","`
	Workers       int      `yaml:"workers" env:"WORKERS"`
	Source        string   `yaml:"source" env:"SOURCE"`
	LogLevel      string   `yaml:"log_level" env:"LOG_LEVEL"`

	Provider ProviderConfig `yaml:"provider" envPrefix:"PROVIDER_"`
	Cache    CacheConfig    `yaml:"cache" envPrefix:"CACHE_"`
}

// ProviderConfig selects the translation backend.
type ProviderConfig struct {
	Name    string `yaml:"name" env:"NAME"`
	APIKey  string `yaml:"api_key" env:"API_KEY"`
	Model   string `yaml:"model" env:"MODEL"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	RPM     int    `yaml:"rpm" env:"RPM"`
	Retries int    `yaml:"retries" env:"RETRIES"`
}

// CacheConfig selects where translations are memoized.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	File     string        `yaml:"file" env:"FILE"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
}

// openAIEnv is read without the prefix so the usual variable works.
type openAIEnv struct {
	APIKey string `env:"OPENAI_API_KEY"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Directory: "./public",
		AutoAdd:   true,
		Indent:    4,
		Marker:    i18nsync.DefaultMarkerAttr,
		Workers:   4,
		Source:    "en",
		LogLevel:  "warn",
		Provider: ProviderConfig{
			Name:    "google",
			Model:   "gpt-4o-mini",
			RPM:     60,
			Retries: 3,
		},
		Cache: CacheConfig{
			TTL: 30 * 24 * time.Hour,
		},
	}
}

// Loader reads configuration sources. The zero value reads nothing but
// the defaults; NewLoader wires the real filesystem and environment.
type Loader struct {
	fs      afero.Fs
	environ func() []string
	dotenv  string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFs sets the filesystem the YAML and .env files are read from.
func WithFs(fs afero.Fs) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithEnviron sets the source of environment variables.
func WithEnviron(environ func() []string) LoaderOption {
	return func(l *Loader) {
		l.environ = environ
	}
}

// WithDotEnv sets the .env file path. An empty path disables it.
func WithDotEnv(path string) LoaderOption {
	return func(l *Loader) {
		l.dotenv = path
	}
}

// NewLoader creates a loader for the process environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:      afero.NewOsFs(),
		environ: os.Environ,
		dotenv:  ".env",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the defaults overlaid with the YAML file at path (when not
// empty), then the .env file, then the environment. Variables already set
// in the environment win over the .env file.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := l.loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	vars, err := l.variables()
	if err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	var openai openAIEnv
	if err := env.ParseWithOptions(&openai, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = openai.APIKey
	}

	return cfg, nil
}

func (l *Loader) loadYAML(path string, cfg *Config) error {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (l *Loader) variables() (map[string]string, error) {
	vars := make(map[string]string)

	if l.dotenv != "" && l.fs != nil {
		data, err := afero.ReadFile(l.fs, l.dotenv)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", l.dotenv, err)
		default:
			parsed, err := godotenv.UnmarshalBytes(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", l.dotenv, err)
			}
			for k, v := range parsed {
				vars[k] = v
			}
		}
	}

	if l.environ != nil {
		for _, kv := range l.environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				vars[k] = v
			}
		}
	}
	return vars, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory must not be empty")
	}
	if c.Indent != 2 && c.Indent != 4 {
		return fmt.Errorf("indent must be 2 or 4, got %d", c.Indent)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Marker == "" {
		return errors.New("marker must not be empty")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if !slices.Contains([]string{"google", "openai"}, strings.ToLower(c.Provider.Name)) {
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	if c.Provider.RPM < 0 || c.Provider.Retries < 0 {
		return errors.New("provider rpm and retries must not be negative")
	}
	if c.Cache.RedisURL != "" && c.Cache.File != "" {
		return errors.New("cache redis_url and file are mutually exclusive")
	}
	return nil
}

// Policy returns the reconciliation switches.
func (c *Config) Policy() i18nsync.Policy {
	return i18nsync.Policy{
		AutoAdd:       c.AutoAdd,
		AutoTranslate: c.AutoTranslate,
		AutoRemove:    c.AutoRemove,
		SortKeys:      c.SortKeys,
	}
}

// CorpusOptions returns the walker options for the source tree at root.
func (c *Config) CorpusOptions(root string) corpus.Options {
	opts := corpus.DefaultOptions(root)
	if len(c.Extensions) > 0 {
		opts.Extensions = c.Extensions
	}
	opts.ExcludeGlobs = c.Exclude
	opts.Workers = c.Workers
	opts.Marker = c.Marker
	return opts
}
