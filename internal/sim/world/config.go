package world

import "fmt"

// Config fixes one world's episode parameters. Values are validated once at
// construction; a World never re-checks them per tick.
//
// Hider and seeker counts are sampled per episode from the inclusive
// [Min,Max] ranges, so two worlds with the same seed and ranges regenerate
// identical populations.
type Config struct {
	WorldIdx uint32
	Seed     uint32

	MinHiders  int32
	MaxHiders  int32
	MinSeekers int32
	MaxSeekers int32

	// AutoReset regenerates the scene on the step after the episode's final
	// tick. When false the world idles until an explicit reset request.
	AutoReset bool

	// InitialLevel selects the scene built on the first reset. Level 1 is
	// the randomized training arena; 2..8 are fixed diagnostic scenes.
	InitialLevel int32

	Events EventSink // optional
}

func (c Config) Validate() error {
	if c.MinHiders < 1 || c.MinSeekers < 1 {
		return fmt.Errorf("world %d: agent count minimums must be >= 1 (hiders=%d seekers=%d)",
			c.WorldIdx, c.MinHiders, c.MinSeekers)
	}
	if c.MaxHiders < c.MinHiders || c.MaxSeekers < c.MinSeekers {
		return fmt.Errorf("world %d: inverted agent count range (hiders=[%d,%d] seekers=[%d,%d])",
			c.WorldIdx, c.MinHiders, c.MaxHiders, c.MinSeekers, c.MaxSeekers)
	}
	if c.MaxHiders+c.MaxSeekers > MaxAgents {
		return fmt.Errorf("world %d: %d agents exceeds capacity %d",
			c.WorldIdx, c.MaxHiders+c.MaxSeekers, MaxAgents)
	}
	if c.InitialLevel < 1 || c.InitialLevel > 8 {
		return fmt.Errorf("world %d: level %d out of range [1,8]", c.WorldIdx, c.InitialLevel)
	}
	return nil
}
