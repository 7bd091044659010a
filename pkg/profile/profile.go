// Package profile reads and writes speed profiles in TOML or YAML.
//
// A profile overrides the built-in road-class speed table. Keys that are not
// listed keep their built-in value:
//
//	fallback = 40
//
//	[speeds]
//	motorway = 120
//	track = 15
//
// The same profile in YAML:
//
//	fallback: 40
//	speeds:
//	  motorway: 120
//	  track: 15
//
// Speeds are in km/h and must be positive.
package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// Profile file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

type profileFile struct {
	Fallback *float64          `toml:"fallback" yaml:"fallback"`
	Speeds   map[string]float64 `toml:"speeds" yaml:"speeds"`
}

// Parse decodes a TOML profile and merges it over the built-in table.
func Parse(data []byte) (*roadgraph.SpeedTable, error) {
	var pf profileFile
	md, err := toml.Decode(string(data), &pf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProfile, err, "decode profile")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidProfile, "unknown profile keys: %s", strings.Join(keys, ", "))
	}
	return pf.merge()
}

// ParseYAML decodes a YAML profile and merges it over the built-in table.
// Unknown keys are rejected as in [Parse].
func ParseYAML(data []byte) (*roadgraph.SpeedTable, error) {
	var pf profileFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidProfile, err, "decode profile")
	}
	return pf.merge()
}

// merge validates pf and applies it over the built-in table.
func (pf profileFile) merge() (*roadgraph.SpeedTable, error) {
	base := roadgraph.DefaultProfile()
	speeds := base.Speeds()
	for class, kmh := range pf.Speeds {
		if err := errors.ValidateRoadClass(class); err != nil {
			return nil, err
		}
		if err := errors.ValidateSpeed(class, kmh); err != nil {
			return nil, err
		}
		speeds[class] = kmh
	}

	fallback := base.Fallback()
	if pf.Fallback != nil {
		if err := errors.ValidateSpeed("fallback", *pf.Fallback); err != nil {
			return nil, err
		}
		fallback = *pf.Fallback
	}

	return roadgraph.NewSpeedTable(speeds, fallback), nil
}

// FormatOf returns the profile format implied by a file name: YAML for
// .yaml and .yml, TOML otherwise.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Load reads a profile file in the format given by its extension. An empty
// path returns the built-in table.
func Load(path string) (*roadgraph.SpeedTable, error) {
	if path == "" {
		return roadgraph.DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.File(err, "profile %s", path)
	}
	var t *roadgraph.SpeedTable
	if FormatOf(path) == FormatYAML {
		t, err = ParseYAML(data)
	} else {
		t, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return t, nil
}

func toFile(t *roadgraph.SpeedTable) profileFile {
	fallback := t.Fallback()
	return profileFile{Fallback: &fallback, Speeds: t.Speeds()}
}

// Write encodes t as a complete TOML profile.
func Write(w io.Writer, t *roadgraph.SpeedTable) error {
	if err := toml.NewEncoder(w).Encode(toFile(t)); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return nil
}

// WriteYAML encodes t as a complete YAML profile.
func WriteYAML(w io.Writer, t *roadgraph.SpeedTable) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toFile(t)); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return enc.Close()
}

// Marshal returns t encoded as TOML.
func Marshal(t *roadgraph.SpeedTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
