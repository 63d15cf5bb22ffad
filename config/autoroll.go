package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/MaaXYZ/MaaCube/agent/go-service/criteria"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"gopkg.in/yaml.v3"
)

const (
	defaultRollTask = "CubeRollOnce"
	defaultOCRTask  = "CubeOptionOCR"
)

// AutoRoll - contents of auto_roll.yaml
type AutoRoll struct {
	Presets []Preset `yaml:"presets"`
	Layout  Layout   `yaml:"layout"`
}

// Preset - a named set of auto-roll settings
type Preset struct {
	Name     string            `yaml:"name"`
	Label    string            `yaml:"label"`
	Settings criteria.Settings `yaml:"settings"`
}

// Layout - where the simulator draws its result slots
type Layout struct {
	// RollTask is the pipeline node that presses the cube once and waits for the result.
	RollTask string `yaml:"roll_task"`
	// OCRTask is the OCR node run per option line with its roi overridden.
	OCRTask string `yaml:"ocr_task"`
	Slots   []Slot `yaml:"slots"`
}

// Slot - one parallel result panel, three option line boxes top to bottom
type Slot struct {
	Lines []Rect `yaml:"lines"`
}

type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

var ErrNoSlots = errors.New("layout has no slots")

// LoadAutoRoll reads and checks auto_roll.yaml.
func LoadAutoRoll(path string) (*AutoRoll, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error loading auto-roll config: %w", err)
	}
	defer r.Close()

	var cfg AutoRoll
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error reading auto-roll config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (a *AutoRoll) normalize() error {
	if a.Layout.RollTask == "" {
		a.Layout.RollTask = defaultRollTask
	}
	if a.Layout.OCRTask == "" {
		a.Layout.OCRTask = defaultOCRTask
	}
	if len(a.Layout.Slots) == 0 {
		return ErrNoSlots
	}
	for i, s := range a.Layout.Slots {
		if len(s.Lines) != potential.LinesPerSet {
			return fmt.Errorf("slot %d: want %d line boxes, got %d", i, potential.LinesPerSet, len(s.Lines))
		}
		for j, r := range s.Lines {
			if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 {
				return fmt.Errorf("slot %d line %d: bad box %+v", i, j, r)
			}
		}
	}

	seen := make(map[string]bool, len(a.Presets))
	for i := range a.Presets {
		p := &a.Presets[i]
		if p.Name == "" {
			return fmt.Errorf("preset %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
		if p.Label == "" {
			p.Label = p.Name
		}
		if p.Settings.StatType != "" {
			st, ok := potential.ParseStat(string(p.Settings.StatType))
			if !ok {
				return fmt.Errorf("preset %q: unknown stat_type %q", p.Name, p.Settings.StatType)
			}
			p.Settings.StatType = st
		}
		p.Settings.Clamp()
	}
	return nil
}

// Preset looks a preset up by name.
func (a *AutoRoll) Preset(name string) (Preset, bool) {
	for _, p := range a.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
