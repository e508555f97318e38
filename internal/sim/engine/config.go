package engine

import (
	"fmt"
	"runtime"

	"hideseek.ai/internal/sim/world"
)

// Config describes a batch of simulated worlds. All worlds share the
// episode parameters; per-world random streams are derived from Seed and
// the world index.
type Config struct {
	NumWorlds int
	Seed      uint32

	MinHiders  int32
	MaxHiders  int32
	MinSeekers int32
	MaxSeekers int32

	AutoReset    bool
	InitialLevel int32

	// Workers bounds the stepping goroutines; 0 means one per CPU.
	Workers int

	Events world.EventSink // optional, shared by all worlds
}

func (c Config) Validate() error {
	if c.NumWorlds < 1 {
		return fmt.Errorf("engine: NumWorlds must be >= 1, got %d", c.NumWorlds)
	}
	if c.Workers < 0 {
		return fmt.Errorf("engine: Workers must be >= 0, got %d", c.Workers)
	}
	for i := 0; i < c.NumWorlds; i++ {
		if err := c.worldConfig(uint32(i)).Validate(); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	return nil
}

func (c Config) worldConfig(idx uint32) world.Config {
	return world.Config{
		WorldIdx:     idx,
		Seed:         c.Seed,
		MinHiders:    c.MinHiders,
		MaxHiders:    c.MaxHiders,
		MinSeekers:   c.MinSeekers,
		MaxSeekers:   c.MaxSeekers,
		AutoReset:    c.AutoReset,
		InitialLevel: c.InitialLevel,
		Events:       c.Events,
	}
}

func (c Config) workerCount() int {
	if c.Workers > 0 {
		if c.Workers > c.NumWorlds {
			return c.NumWorlds
		}
		return c.Workers
	}
	n := runtime.NumCPU()
	if n > c.NumWorlds {
		n = c.NumWorlds
	}
	return n
}
