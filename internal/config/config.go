package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the wrapper's own configuration file. Distinct from
// the protected-path lists: this file configures the wrapper, those
// configure what it protects.
const DefaultPath = "/etc/safe-rm/config.yaml"

type LoggingCfg struct {
	File         string `yaml:"file" json:"file"`                   // optional log tee, empty disables
	RotationDays int    `yaml:"rotation_days" json:"rotation_days"` // days to keep logs before rotation
}

type Config struct {
	RmBinary           string     `yaml:"rm_binary" json:"rm_binary"`                       // real rm, e.g. /bin/rm.real
	DatabasePath       string     `yaml:"database_path" json:"database_path"`               // optional invocation history DB
	MetricsTextfileDir string     `yaml:"metrics_textfile_dir" json:"metrics_textfile_dir"` // optional node_exporter textfile dir
	ProtectFiles       []string   `yaml:"protect_files" json:"protect_files"`               // extra protected-list sources
	Logging            LoggingCfg `yaml:"logging" json:"logging"`
}

// Load reads the wrapper configuration. The wrapper must keep
// protecting files even when its own config is missing or broken, so
// Load always returns a usable Config; the error is advisory only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	f, err := os.Open(path)
	if err != nil {
		cfg.validateAndDefault()
		if os.IsNotExist(err) {
			// Absence is the common case: everything defaults.
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		cfg = &Config{}
		cfg.validateAndDefault()
		return cfg, fmt.Errorf("decode yaml: %w", err)
	}
	cfg.validateAndDefault()
	return cfg, nil
}

func (c *Config) validateAndDefault() {
	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30
	}

	// Extra protected-list sources must be absolute; anything else is
	// dropped rather than resolved against an arbitrary working dir.
	cleaned := make([]string, 0, len(c.ProtectFiles))
	for _, p := range c.ProtectFiles {
		if p == "" {
			continue
		}
		cp := filepath.Clean(p)
		if !filepath.IsAbs(cp) {
			continue
		}
		cleaned = append(cleaned, cp)
	}
	c.ProtectFiles = cleaned
}
