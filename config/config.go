package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for reciperag.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Recipes  RecipesConfig  `yaml:"recipes"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Index    IndexConfig    `yaml:"index"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BackendConfig selects the document backend the recipes are merged into.
type BackendConfig struct {
	Provider  string          `yaml:"provider" validate:"oneof=local vectorize"`
	Vectorize VectorizeConfig `yaml:"vectorize"`
}

// VectorizeConfig holds the hosted retrieval pipeline settings. Secrets are
// only ever read from the named environment variables.
type VectorizeConfig struct {
	BaseURL        string        `yaml:"base_url" validate:"required,url"`
	TokenEnv       string        `yaml:"token_env" validate:"required"`
	OrgIDEnv       string        `yaml:"org_id_env" validate:"required"`
	PipelineIDEnv  string        `yaml:"pipeline_id_env" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// RecipesConfig controls the built-in recipe augmentation.
type RecipesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Catalog string `yaml:"catalog"` // optional YAML catalog replacing the built-in one
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	NumResults int           `yaml:"num_results" validate:"gte=1"`
	CacheSize  int           `yaml:"cache_size" validate:"gte=0"` // 0 disables the query cache
	CacheTTL   time.Duration `yaml:"cache_ttl" validate:"gte=0"`

	// DedupJaccard drops local chunks whose token overlap with a better
	// ranked chunk exceeds this ratio (0 disables).
	DedupJaccard float64 `yaml:"dedup_jaccard" validate:"gte=0,lte=1"`
}

// IndexConfig holds local indexing configuration.
type IndexConfig struct {
	Includes     []string `yaml:"includes" validate:"min=1"`
	Excludes     []string `yaml:"excludes"`
	ChunkTokens  int      `yaml:"chunk_tokens" validate:"gte=16"`
	ChunkOverlap int      `yaml:"chunk_overlap" validate:"gte=0,ltfield=ChunkTokens"`
	K1           float64  `yaml:"k1" validate:"gt=0"`
	B            float64  `yaml:"b" validate:"gte=0,lte=1"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"omitempty,oneof=console json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Provider: "local",
			Vectorize: VectorizeConfig{
				BaseURL:        "https://api.vectorize.io/v1",
				TokenEnv:       "VECTORIZE_PIPELINE_ACCESS_TOKEN",
				OrgIDEnv:       "VECTORIZE_ORGANIZATION_ID",
				PipelineIDEnv:  "VECTORIZE_PIPELINE_ID",
				RequestTimeout: 30 * time.Second,
			},
		},
		Recipes: RecipesConfig{
			Enabled: true,
		},
		Retrieve: RetrieveConfig{
			NumResults:   5,
			CacheSize:    100,
			CacheTTL:     5 * time.Minute,
			DedupJaccard: 0.8,
		},
		Index: IndexConfig{
			Includes:     []string{"**/*.md", "**/*.txt"},
			Excludes:     []string{"**/.git/**", "**/node_modules/**", "**/.reciperag/**"},
			ChunkTokens:  256,
			ChunkOverlap: 32,
			K1:           1.2,
			B:            0.75,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for reciperag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "reciperag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".reciperag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validate = validator.New()

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
}

// IndexDBPath returns the path to the local index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".reciperag", "index.db")
}

// EnsureDataDir ensures the .reciperag directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".reciperag"), 0755)
}
