package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rupor-github/gencfg"
	"github.com/tliron/commonlog"
	yaml "gopkg.in/yaml.v3"

	"github.com/dhamidi/marksense/completion"
	"github.com/dhamidi/marksense/registry"
)

//go:embed defaults.yaml
var defaultsTmpl []byte

type (
	LoggingConfig struct {
		Verbosity int    `yaml:"verbosity" validate:"min=-4,max=2"`
		File      string `yaml:"file" validate:"omitempty,filepath"`
	}

	RankingConfig struct {
		TagThreshold          int `yaml:"tag_threshold" validate:"min=0,max=100"`
		TagQualifiedThreshold int `yaml:"tag_qualified_threshold" validate:"min=0,max=100"`
		AttributeThreshold    int `yaml:"attribute_threshold" validate:"min=0,max=100"`
	}

	RegistryConfig struct {
		Types          string                     `yaml:"types"`
		Attributes     []registry.AttributeSource `yaml:"attributes" validate:"dive"`
		ImplicitOwners []string                   `yaml:"implicit_owners" validate:"dive,required"`
		Watch          bool                       `yaml:"watch"`
		PollInterval   time.Duration              `yaml:"poll_interval"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Logging  LoggingConfig  `yaml:"logging"`
		Ranking  RankingConfig  `yaml:"ranking"`
		Registry RegistryConfig `yaml:"registry"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, validate bool) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if validate {
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Load returns the default configuration overlaid with the file at path,
// if path is not empty. Registry paths in the file are relative to the
// file's directory.
func Load(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(defaultsTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	cfg.Registry.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Prepare returns the processed default configuration document.
func Prepare() ([]byte, error) {
	return gencfg.Process(defaultsTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Configure applies the logging settings to commonlog.
func (c *LoggingConfig) Configure() {
	if c.File == "" {
		commonlog.Configure(c.Verbosity, nil)
		return
	}
	path := c.File
	commonlog.Configure(c.Verbosity, &path)
}

func (c *RankingConfig) Thresholds() completion.Thresholds {
	return completion.Thresholds{
		Tag:          c.TagThreshold,
		TagQualified: c.TagQualifiedThreshold,
		Attribute:    c.AttributeThreshold,
	}
}

func (c *RegistryConfig) Source() registry.Source {
	return registry.Source{
		Types:      c.Types,
		Attributes: c.Attributes,
	}
}

func (c *RegistryConfig) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Types = abs(c.Types)
	attrs := make([]registry.AttributeSource, len(c.Attributes))
	for i, a := range c.Attributes {
		a.Path = abs(a.Path)
		attrs[i] = a
	}
	c.Attributes = attrs
}
