package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"kshim/fonts"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ThemeConfig struct {
		Name          string `yaml:"name" validate:"required"`
		StylesheetURI string `yaml:"stylesheet_uri"`
		Definitions   string `yaml:"definitions" sanitize:"path_clean" validate:"omitempty,filepath"`
	}

	StorageConfig struct {
		Path string `yaml:"path" validate:"required"`
	}

	FontsConfig struct {
		BaseURL    string        `yaml:"base_url" validate:"required"`
		Scheme     string        `yaml:"scheme" validate:"oneof=http: https:"`
		Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
		ValidTTL   time.Duration `yaml:"valid_ttl" validate:"gt=0"`
		InvalidTTL time.Duration `yaml:"invalid_ttl" validate:"gt=0"`
	}

	PluginConfig struct {
		Present   bool         `yaml:"present"`
		Installed []string     `yaml:"installed" validate:"dive,required"`
		AdminURL  string       `yaml:"admin_url" validate:"required"`
		Nonce     SecretString `yaml:"nonce"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Theme     ThemeConfig    `yaml:"theme"`
		Storage   StorageConfig  `yaml:"storage"`
		Fonts     FontsConfig    `yaml:"fonts"`
		Plugin    PluginConfig   `yaml:"plugin"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// Options converts fonts section to resolver options.
func (conf *FontsConfig) Options() fonts.Options {
	return fonts.Options{
		BaseURL:    conf.BaseURL,
		Scheme:     conf.Scheme,
		ValidTTL:   conf.ValidTTL,
		InvalidTTL: conf.InvalidTTL,
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("unable to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("unable to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
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
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
