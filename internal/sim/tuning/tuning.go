package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	NumWorlds int    `yaml:"num_worlds"`
	Seed      uint32 `yaml:"seed"`
	Workers   int    `yaml:"workers"`

	MinHiders  int32 `yaml:"min_hiders"`
	MaxHiders  int32 `yaml:"max_hiders"`
	MinSeekers int32 `yaml:"min_seekers"`
	MaxSeekers int32 `yaml:"max_seekers"`

	AutoReset    bool  `yaml:"auto_reset"`
	InitialLevel int32 `yaml:"initial_level"`

	TickRateHz int `yaml:"tick_rate_hz"`
}

func Defaults() Tuning {
	return Tuning{
		NumWorlds:    1,
		Seed:         5,
		Workers:      0, // 0 = one per CPU, capped at NumWorlds
		MinHiders:    1,
		MaxHiders:    3,
		MinSeekers:   1,
		MaxSeekers:   3,
		AutoReset:    true,
		InitialLevel: 1,
		TickRateHz:   30,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.NumWorlds < 1 {
		return fmt.Errorf("num_worlds must be >= 1, got %d", t.NumWorlds)
	}
	if t.TickRateHz < 1 {
		return fmt.Errorf("tick_rate_hz must be >= 1, got %d", t.TickRateHz)
	}
	if t.InitialLevel < 1 || t.InitialLevel > 8 {
		return fmt.Errorf("initial_level must be in [1,8], got %d", t.InitialLevel)
	}
	return nil
}
