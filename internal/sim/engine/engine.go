// Package engine batches many independent hide-and-seek worlds behind one
// step call and exposes their outputs as flat fixed-shape tensors, the
// layout a learning loop binds to once and rereads every tick.
package engine

import (
	"fmt"
	"sync"

	"hideseek.ai/internal/sim/world"
)

type Engine struct {
	cfg     Config
	worlds  []*world.World
	exports Exports
	workers int

	steps uint64
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		worlds:  make([]*world.World, cfg.NumWorlds),
		exports: newExports(cfg.NumWorlds),
		workers: cfg.workerCount(),
	}
	for i := range e.worlds {
		e.worlds[i] = world.New(cfg.worldConfig(uint32(i)))
	}

	// The first step consumes each world's initial reset request, so the
	// export tensors are valid as soon as New returns.
	e.Step()
	return e, nil
}

// Step advances every world one tick and regathers the export tensors.
// Worlds are partitioned across the worker pool; each worker gathers the
// worlds it stepped, so no synchronization beyond the join is needed.
func (e *Engine) Step() {
	jobs := make(chan int)
	var wg sync.WaitGroup

	wg.Add(e.workers)
	for i := 0; i < e.workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				e.worlds[idx].Step()
				e.exports.gatherWorld(idx, e.worlds[idx])
			}
		}()
	}
	for idx := range e.worlds {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	e.steps++
}

// SetAction stores one agent's discrete input for the next Step.
func (e *Engine) SetAction(worldIdx, slot int, a world.Action) error {
	if worldIdx < 0 || worldIdx >= len(e.worlds) {
		return fmt.Errorf("engine: world %d out of range [0,%d)", worldIdx, len(e.worlds))
	}
	if slot < 0 || slot >= world.MaxAgents {
		return fmt.Errorf("engine: agent slot %d out of range [0,%d)", slot, world.MaxAgents)
	}
	e.worlds[worldIdx].SetAction(slot, a)
	return nil
}

// TriggerReset schedules a scene regeneration for one world at its next
// Step. Level 1 is the training arena; 2..8 are the fixed debug scenes.
func (e *Engine) TriggerReset(worldIdx int, level int32) error {
	if worldIdx < 0 || worldIdx >= len(e.worlds) {
		return fmt.Errorf("engine: world %d out of range [0,%d)", worldIdx, len(e.worlds))
	}
	if level < 1 || level > 8 {
		return fmt.Errorf("engine: reset level %d out of range [1,8]", level)
	}
	e.worlds[worldIdx].TriggerReset(level)
	return nil
}

// Exports returns the batch output tensors. The backing arrays are stable
// across Steps; their contents are only safe to read between Steps.
func (e *Engine) Exports() *Exports { return &e.exports }

// World returns one world for inspection. Callers must not step it.
func (e *Engine) World(idx int) *world.World { return e.worlds[idx] }

func (e *Engine) NumWorlds() int { return len(e.worlds) }

// Steps reports how many batch ticks have run, including the implicit
// initializing tick.
func (e *Engine) Steps() uint64 { return e.steps }
