// Package config loads the corpuslens configuration from YAML by
// environment name, with ${VAR} substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corpuslens/corpuslens/internal/compiler"
	"github.com/corpuslens/corpuslens/internal/compiler/criteria"
	"github.com/corpuslens/corpuslens/internal/compiler/panfilter"
	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/domain/nav/zoom"
)

// Config holds the corpuslens API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Compiler  CompilerConfig  `yaml:"compiler"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StoreConfig holds corpus store connection settings.
type StoreConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds the corpus index settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	EmbeddingDim    int    `yaml:"embedding_dimensions"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// EmbeddingConfig holds embedding provider settings. An empty provider
// disables the embedding tilt execution path.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
}

// CacheConfig holds navigation response cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// CompilerConfig holds compiler heuristic overrides. Zero values fall
// back to the tuned package defaults.
type CompilerConfig struct {
	CorpusSizeEstimate    int                `yaml:"corpus_size_estimate"`
	QualityFloor          float64            `yaml:"quality_floor"`
	ZoomSelectivity       map[string]float64 `yaml:"zoom_selectivity"`
	GraceDays             int                `yaml:"grace_days"`
	DecayFloor            float64            `yaml:"decay_floor"`
	DirectResolutionLimit int                `yaml:"direct_resolution_limit"`
	KeywordSelectivity    float64            `yaml:"keyword_selectivity"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "corpuslens:corpus:idx"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "corpuslens:item:"
	}
	if c.Index.EmbeddingDim <= 0 {
		c.Index.EmbeddingDim = 1536
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 32
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Store.Addrs) == 0 {
		return fmt.Errorf("store.addrs is required")
	}
	for level := range c.Compiler.ZoomSelectivity {
		if !zoom.Level(level).IsValid() {
			return fmt.Errorf("compiler.zoom_selectivity has unknown zoom level %q", level)
		}
	}
	if c.Compiler.QualityFloor < 0 || c.Compiler.QualityFloor > 1 {
		return fmt.Errorf("compiler.quality_floor must be within [0, 1], got %g", c.Compiler.QualityFloor)
	}
	return nil
}

// CompilerConfig converts the YAML overrides into the compiler's stage
// configs. Unset fields keep the tuned package defaults.
func (c *Config) CompilerConfig() compiler.Config {
	filter := panfilter.DefaultConfig()
	if c.Compiler.GraceDays > 0 {
		filter.GraceDays = c.Compiler.GraceDays
	}
	if c.Compiler.DecayFloor > 0 {
		filter.DecayFloor = c.Compiler.DecayFloor
	}
	if c.Compiler.DirectResolutionLimit > 0 {
		filter.DirectResolutionLimit = c.Compiler.DirectResolutionLimit
	}
	if c.Compiler.KeywordSelectivity > 0 {
		filter.KeywordSelectivity = c.Compiler.KeywordSelectivity
	}

	crit := criteria.Config{QualityFloor: c.Compiler.QualityFloor}
	if len(c.Compiler.ZoomSelectivity) > 0 {
		crit.ZoomSelectivity = make(map[zoom.Level]float64, len(c.Compiler.ZoomSelectivity))
		for level, s := range c.Compiler.ZoomSelectivity {
			crit.ZoomSelectivity[zoom.Level(level)] = s
		}
	}

	return compiler.Config{
		Filter:   filter,
		Criteria: crit,
		Render:   render.Config{CorpusSizeEstimate: c.Compiler.CorpusSizeEstimate},
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
