package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ConfigFileName is looked up in the working directory when --config is
// not given.
const ConfigFileName = ".seqmod.json"

// Config holds all configuration options.
type Config struct {
	OrganismTable   string `json:"organism_table,omitempty"`
	LineageTable    string `json:"lineage_table,omitempty"`
	OrganismDB      string `json:"organism_db,omitempty"`
	TaxonomyXML     string `json:"taxonomy_xml,omitempty"`
	DefaultMolType  string `json:"default_moltype,omitempty"`
	DefaultTopology string `json:"default_topology,omitempty"`
	DefaultLocation string `json:"default_location,omitempty"`
	SnapshotDir     string `json:"snapshot_dir,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`
	LogFormat       string `json:"log_format,omitempty"`

	// Source is the config file that was loaded, empty when none was.
	Source string `json:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// LoadConfig reads path over the defaults. An empty path means the
// default file in dir, which may be absent; an explicit path must exist.
func LoadConfig(path, dir string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	fileCfg, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg = mergeConfig(cfg, fileCfg)
	cfg.Source = path

	// Table paths are relative to the config file.
	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.OrganismTable, &cfg.LineageTable, &cfg.OrganismDB, &cfg.TaxonomyXML, &cfg.SnapshotDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return cfg, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

// mergeConfig overlays the non-empty fields of over onto base.
func mergeConfig(base, over Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.OrganismTable, over.OrganismTable)
	set(&base.LineageTable, over.LineageTable)
	set(&base.OrganismDB, over.OrganismDB)
	set(&base.TaxonomyXML, over.TaxonomyXML)
	set(&base.DefaultMolType, over.DefaultMolType)
	set(&base.DefaultTopology, over.DefaultTopology)
	set(&base.DefaultLocation, over.DefaultLocation)
	set(&base.SnapshotDir, over.SnapshotDir)
	set(&base.LogLevel, over.LogLevel)
	set(&base.LogFormat, over.LogFormat)
	return base
}
