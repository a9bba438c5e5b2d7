package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config/settings.yaml
var defaultSettings string

// Settings represents the YAML (or TOML) configuration structure
type Settings struct {
	Extension     string   `yaml:"extension" toml:"extension"`
	MakeBlastDB   string   `yaml:"makeblastdb" toml:"makeblastdb"`
	Blastp        string   `yaml:"blastp" toml:"blastp"`
	DBType        string   `yaml:"dbtype" toml:"dbtype"`
	OutFmt        string   `yaml:"outfmt" toml:"outfmt"`
	EValue        float64  `yaml:"evalue" toml:"evalue"`
	NumAlignments int      `yaml:"num_alignments" toml:"num_alignments"`
	ResultSuffix  string   `yaml:"result_suffix" toml:"result_suffix"`
	IndexSuffixes []string `yaml:"index_suffixes" toml:"index_suffixes"`
	Software      string   `yaml:"software" toml:"software"`
}

// DefaultSettings parses the embedded settings.yaml
func DefaultSettings() (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}
	return &settings, nil
}

// LoadSettings returns the embedded defaults with the file at settingsPath
// decoded on top. An empty path yields the defaults unchanged. Files ending in
// .toml are decoded as TOML, anything else as YAML.
func LoadSettings(settingsPath string) (*Settings, error) {
	settings, err := DefaultSettings()
	if err != nil {
		return nil, err
	}

	if settingsPath != "" {
		data, err := os.ReadFile(settingsPath)
		if err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
		}

		if strings.EqualFold(filepath.Ext(settingsPath), ".toml") {
			if _, err := toml.Decode(string(data), settings); err != nil {
				return nil, fmt.Errorf("parsing settings TOML %s: %w", settingsPath, err)
			}
		} else {
			if err := yaml.Unmarshal(data, settings); err != nil {
				return nil, fmt.Errorf("parsing settings YAML %s: %w", settingsPath, err)
			}
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings required to build and run the BLAST commands
func (s *Settings) Validate() error {
	s.Extension = strings.TrimPrefix(strings.TrimSpace(s.Extension), ".")

	switch {
	case s.Extension == "":
		return fmt.Errorf("settings: extension is required")
	case s.MakeBlastDB == "":
		return fmt.Errorf("settings: makeblastdb is required")
	case s.Blastp == "":
		return fmt.Errorf("settings: blastp is required")
	case s.DBType != "prot" && s.DBType != "nucl":
		return fmt.Errorf("settings: dbtype must be prot or nucl, got %q", s.DBType)
	case strings.TrimSpace(s.OutFmt) == "":
		return fmt.Errorf("settings: outfmt is required")
	case strings.TrimSpace(s.Software) == "":
		return fmt.Errorf("settings: software is required")
	case s.EValue <= 0:
		return fmt.Errorf("settings: evalue must be positive, got %g", s.EValue)
	case s.NumAlignments <= 0:
		return fmt.Errorf("settings: num_alignments must be positive, got %d", s.NumAlignments)
	case s.ResultSuffix == "":
		return fmt.Errorf("settings: result_suffix is required")
	}
	return nil
}

// PartialSuffixes lists every artifact suffix that is purged before a retry:
// the index files followed by the result file.
func (s *Settings) PartialSuffixes() []string {
	suffixes := make([]string, 0, len(s.IndexSuffixes)+1)
	suffixes = append(suffixes, s.IndexSuffixes...)
	return append(suffixes, s.ResultSuffix)
}
