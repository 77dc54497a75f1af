// Package chartfile reads and writes chart definitions and snapshot
// layouts as YAML files.
//
// Charts are authored by hand. Layouts are generated, then kept under
// version control next to their chart, because bit positions are a
// contract with every snapshot word already recorded in logs. SaveLayout
// stamps an unversioned layout with a content fingerprint so drift between
// chart and layout shows up in review.
package chartfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mon-martins/hsmsnap"
)

// LoadChart reads and validates a chart definition.
func LoadChart(path string) (*hsmsnap.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("chart %q: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var c hsmsnap.Chart
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("chart %s: %w", path, err)
	}
	return &c, nil
}

// SaveChart validates and writes a chart definition, creating parent
// directories as needed.
func SaveChart(path string, c *hsmsnap.Chart) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("chart %s: %w", path, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadLayout reads a snapshot layout. Bit uniqueness and range are checked
// here; checks that need the chart's tree are left to Layout.Validate.
func LoadLayout(path string) (*hsmsnap.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("layout %q: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var l hsmsnap.Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	if l.Chart == "" {
		return nil, fmt.Errorf("layout %s: missing chart name", path)
	}
	byBit := make(map[int]hsmsnap.StateID, len(l.Assignments))
	for _, a := range l.Assignments {
		if a.Bit < 0 || a.Bit >= hsmsnap.WordBits {
			return nil, fmt.Errorf("layout %s: state %q: bit %d outside word range", path, a.State, a.Bit)
		}
		if prev, dup := byBit[a.Bit]; dup {
			return nil, fmt.Errorf("layout %s: bit %d assigned to both %q and %q", path, a.Bit, prev, a.State)
		}
		byBit[a.Bit] = a.State
	}
	return &l, nil
}

// SaveLayout writes a snapshot layout, creating parent directories as
// needed. A layout with an empty Version is stamped with its Fingerprint
// first; the argument is not mutated.
func SaveLayout(path string, l *hsmsnap.Layout) error {
	out := *l
	if out.Version == "" {
		out.Version = Fingerprint(l)
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
