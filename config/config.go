// Package config provides configuration loading and management for semcheck.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	errs "github.com/c360studio/semstreams/pkg/errs"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/rules"
)

// weightTolerance bounds how far the category weights may drift from 1.
const weightTolerance = 1e-6

// Config represents the complete semcheck configuration
type Config struct {
	Schema     SchemaConfig              `yaml:"schema"`
	Project    ProjectConfig             `yaml:"project"`
	Output     OutputConfig              `yaml:"output"`
	Watch      WatchConfig               `yaml:"watch"`
	Categories map[string]CategoryConfig `yaml:"categories"`
}

// SchemaConfig configures the schema corpus
type SchemaConfig struct {
	// Root is the schema directory (defaults to the current directory)
	Root string `yaml:"root"`
	// Extensions are the file suffixes treated as documents
	Extensions []string `yaml:"extensions"`
	// Exclude holds doublestar patterns skipped during the walk
	Exclude []string `yaml:"exclude"`
	// IgnoreFile is a gitignore-style file read from the root
	IgnoreFile string `yaml:"ignore_file"`
	// NoRewrite skips the canonical rewrite phase
	NoRewrite bool `yaml:"no_rewrite"`
}

// ProjectConfig configures the project roots compared against the schema
type ProjectConfig struct {
	Roots []string `yaml:"roots"`
	// Extensions are the file suffixes scanned for identifiers
	Extensions []string `yaml:"extensions"`
}

// DefaultProjectExtensions are scanned in project roots.
var DefaultProjectExtensions = []string{".jsonld", ".json"}

// OutputConfig configures report artifacts
type OutputConfig struct {
	// Dir receives report and sync artifacts (empty = print only)
	Dir string `yaml:"dir"`
	// Format is the console format: text, json or markdown
	Format string `yaml:"format"`
	// Metrics is a Prometheus textfile path (empty = disabled)
	Metrics string `yaml:"metrics"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait after the last change before rerunning
	Debounce time.Duration `yaml:"debounce"`
	// Rewrite canonicalizes files before each rerun
	Rewrite bool `yaml:"rewrite"`
}

// CategoryConfig overrides one built-in category. Nil fields keep the default.
type CategoryConfig struct {
	Enabled        *bool    `yaml:"enabled,omitempty"`
	Threshold      *int     `yaml:"threshold,omitempty"`
	Weight         *float64 `yaml:"weight,omitempty"`
	RecommendBelow *int     `yaml:"recommend_below,omitempty"`
	Recommendation string   `yaml:"recommendation,omitempty"`
}

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Schema: SchemaConfig{
			Root:       "", // Current directory
			Extensions: append([]string(nil), corpus.DefaultExtensions...),
			Exclude:    append([]string(nil), corpus.DefaultExclude...),
			IgnoreFile: corpus.DefaultIgnoreFile,
		},
		Project: ProjectConfig{
			Extensions: append([]string(nil), DefaultProjectExtensions...),
		},
		Output: OutputConfig{
			Format: FormatText,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Schema.Extensions) == 0 {
		return invalid(fmt.Errorf("schema.extensions must not be empty"))
	}
	for _, ext := range c.Schema.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid(fmt.Errorf("schema.extensions: %q must start with a dot", ext))
		}
	}
	for _, ext := range c.Project.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid(fmt.Errorf("project.extensions: %q must start with a dot", ext))
		}
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return invalid(fmt.Errorf("output.format must be one of text, json, markdown (got %q)", c.Output.Format))
	}

	if c.Watch.Debounce < 0 {
		return invalid(fmt.Errorf("watch.debounce must not be negative"))
	}

	for _, name := range c.categoryNames() {
		if _, err := rules.ParseCategory(name); err != nil {
			return invalid(fmt.Errorf("categories: %w", err))
		}
		cc := c.Categories[name]
		if cc.Threshold != nil && (*cc.Threshold < 0 || *cc.Threshold > 100) {
			return invalid(fmt.Errorf("categories.%s.threshold must be between 0 and 100", name))
		}
		if cc.RecommendBelow != nil && (*cc.RecommendBelow < 0 || *cc.RecommendBelow > 100) {
			return invalid(fmt.Errorf("categories.%s.recommend_below must be between 0 and 100", name))
		}
		if cc.Weight != nil && *cc.Weight < 0 {
			return invalid(fmt.Errorf("categories.%s.weight must not be negative", name))
		}
	}

	total := 0.0
	for _, p := range c.apply(rules.DefaultProfiles()) {
		total += p.Weight
	}
	if math.Abs(total-1) > weightTolerance {
		return invalid(fmt.Errorf("category weights must sum to 1 (got %g)", total))
	}
	return nil
}

func invalid(err error) error {
	return errs.WrapInvalid(err, "config", "Validate", "validate config")
}

// Profiles returns the built-in category profiles with this configuration's
// overrides applied. Disabled categories are left out.
func (c *Config) Profiles() rules.Profiles {
	var out rules.Profiles
	for _, p := range c.apply(rules.DefaultProfiles()) {
		if cc, ok := c.Categories[string(p.Category)]; ok && cc.Enabled != nil && !*cc.Enabled {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Profile returns one category's profile with overrides applied, whether or
// not the category is enabled for comprehensive runs.
func (c *Config) Profile(category rules.Category) (rules.Profile, error) {
	return c.apply(rules.DefaultProfiles()).Lookup(category)
}

// apply overrides thresholds, weights and recommendations. Weights keep
// their meaning for disabled categories, so the sum is checked over all six.
func (c *Config) apply(ps rules.Profiles) rules.Profiles {
	for i := range ps {
		cc, ok := c.Categories[string(ps[i].Category)]
		if !ok {
			continue
		}
		if cc.Threshold != nil {
			ps[i].Threshold = *cc.Threshold
		}
		if cc.Weight != nil {
			ps[i].Weight = *cc.Weight
		}
		if cc.RecommendBelow != nil {
			ps[i].RecommendBelow = *cc.RecommendBelow
		}
		if cc.Recommendation != "" {
			ps[i].Recommendation = cc.Recommendation
		}
	}
	return ps
}

func (c *Config) categoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CorpusOptions returns the corpus loading options for the schema root.
func (c *Config) CorpusOptions() corpus.Options {
	return corpus.Options{
		Extensions: c.Schema.Extensions,
		Exclude:    c.Schema.Exclude,
		IgnoreFile: c.Schema.IgnoreFile,
	}
}

// ProjectOptions returns the corpus loading options for project roots.
func (c *Config) ProjectOptions() corpus.Options {
	return corpus.Options{
		Extensions: c.Project.Extensions,
		Exclude:    c.Schema.Exclude,
		IgnoreFile: c.Schema.IgnoreFile,
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	overlay, err := readOverlay(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Merge(overlay)
	return config, nil
}

// readOverlay decodes a YAML file into an empty Config so that only the
// fields it sets take part in a merge.
func readOverlay(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	overlay := &Config{}
	if err := yaml.Unmarshal(data, overlay); err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("failed to parse config file %s: %w", path, err), "config", "LoadFromFile", "parse yaml")
	}
	return overlay, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Schema
	if other.Schema.Root != "" {
		c.Schema.Root = other.Schema.Root
	}
	if len(other.Schema.Extensions) > 0 {
		c.Schema.Extensions = other.Schema.Extensions
	}
	if len(other.Schema.Exclude) > 0 {
		c.Schema.Exclude = other.Schema.Exclude
	}
	if other.Schema.IgnoreFile != "" {
		c.Schema.IgnoreFile = other.Schema.IgnoreFile
	}
	if other.Schema.NoRewrite {
		c.Schema.NoRewrite = true
	}

	// Project
	if len(other.Project.Roots) > 0 {
		c.Project.Roots = other.Project.Roots
	}
	if len(other.Project.Extensions) > 0 {
		c.Project.Extensions = other.Project.Extensions
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Metrics != "" {
		c.Output.Metrics = other.Output.Metrics
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.Rewrite {
		c.Watch.Rewrite = true
	}

	// Categories merge field by field
	for name, o := range other.Categories {
		if c.Categories == nil {
			c.Categories = make(map[string]CategoryConfig)
		}
		cur := c.Categories[name]
		if o.Enabled != nil {
			cur.Enabled = o.Enabled
		}
		if o.Threshold != nil {
			cur.Threshold = o.Threshold
		}
		if o.Weight != nil {
			cur.Weight = o.Weight
		}
		if o.RecommendBelow != nil {
			cur.RecommendBelow = o.RecommendBelow
		}
		if o.Recommendation != "" {
			cur.Recommendation = o.Recommendation
		}
		c.Categories[name] = cur
	}
}
