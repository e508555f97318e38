package world

import (
	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
	"hideseek.ai/internal/sim/rng"
)

// World is one independent simulation instance. All state must be accessed
// only from the goroutine stepping it; the multi-world engine partitions
// worlds across its workers so no two workers share one.
type World struct {
	cfg  Config
	phys physics.Engine

	initKey    rng.Key
	episodeKey rng.Key
	stream     *rng.Stream
	episode    uint32

	stepIdx      int32
	pendingReset int32
	level        int32
	generated    bool

	agents     [MaxAgents]AgentState
	numActive  int
	numHiders  int
	numSeekers int

	// Placed rigid entities, in placement order. Walls and the ground plane
	// live here alongside boxes and ramps; agents are tracked separately so
	// they never participate in placement overlap checks.
	obstacles    []obstacle
	agentBodies  []physics.BodyID
	boxes        [MaxBoxes]physics.BodyID
	boxShapes    [MaxBoxes]ShapeClass
	boxRotations [MaxBoxes]float32
	ramps        [MaxRamps]physics.BodyID
	rampRot      [MaxRamps]float32
	numBoxes     int
	numRamps     int

	hiderTeamReward float32

	debug GlobalDebugPositions
}

// New builds an idle world. Nothing is placed until the first Step observes
// the initial reset request.
func New(cfg Config) *World {
	w := &World{
		cfg:          cfg,
		phys:         physics.NewSpace(),
		initKey:      rng.InitKey(uint64(cfg.Seed)),
		pendingReset: cfg.InitialLevel,
		obstacles:    make([]obstacle, 0, MaxObstacles),
		agentBodies:  make([]physics.BodyID, 0, MaxAgents),
	}
	for i := range w.agents {
		w.agents[i].clearOutputs()
	}
	w.hiderTeamReward = 1
	return w
}

// TriggerReset schedules a scene regeneration; it takes effect at the start
// of the next Step. Level 1 is the training arena, 2..8 are debug scenes.
func (w *World) TriggerReset(level int32) {
	w.pendingReset = level
}

// SetAction stores the control input for one agent slot. Inputs for
// inactive slots are accepted and ignored by the step.
func (w *World) SetAction(slot int, a Action) {
	if slot < 0 || slot >= MaxAgents {
		return
	}
	w.agents[slot].Action = a
}

// Agent returns a read-only view of one agent interface slot.
func (w *World) Agent(slot int) *AgentState { return &w.agents[slot] }

// DebugPositions returns the last tick's global XY snapshot.
func (w *World) DebugPositions() *GlobalDebugPositions { return &w.debug }

// Episode returns the current episode index (increments on each reset).
func (w *World) Episode() uint32 { return w.episode }

// StepIdx returns the tick counter within the current episode.
func (w *World) StepIdx() int32 { return w.stepIdx }

// NumActiveAgents returns the live agent count of the current episode.
func (w *World) NumActiveAgents() int { return w.numActive }

// resetEnvironment tears the current scene down and derives the next
// episode's random stream.
func (w *World) resetEnvironment() {
	if w.generated && w.cfg.Events != nil {
		w.cfg.Events.EpisodeEnded(EpisodeEnd{
			World:      w.cfg.WorldIdx,
			Episode:    w.episode - 1,
			Steps:      int(w.stepIdx) + 1,
			TeamReward: w.hiderTeamReward,
		})
	}

	w.stepIdx = 0

	for i := range w.agents {
		a := &w.agents[i]
		if a.Grab != physics.InvalidConstraint {
			w.phys.DestroyConstraint(a.Grab)
		}
		a.clearOutputs()
	}
	w.phys.RemoveAll()

	w.obstacles = w.obstacles[:0]
	w.agentBodies = w.agentBodies[:0]
	w.numBoxes = 0
	w.numRamps = 0
	w.numActive = 0
	w.numHiders = 0
	w.numSeekers = 0
	w.generated = false
	w.hiderTeamReward = 1

	w.episodeKey = rng.Key{A: w.episode, B: w.cfg.WorldIdx}
	w.episode++
	w.stream = rng.New(rng.Split(w.initKey, w.episodeKey.A, w.episodeKey.B))
}

// body is a shorthand used throughout the per-tick systems.
func (w *World) body(id physics.BodyID) *physics.Body { return w.phys.Body(id) }

// agentPose reads the live pose of an active slot.
func (w *World) agentPose(a *AgentState) (geom.Vec3, geom.Quat) {
	b := w.body(a.Body)
	return b.Pos, b.Rot
}

// findObstacle maps a physics body back to its obstacle record, or nil for
// agents and unknown bodies.
func (w *World) findObstacle(id physics.BodyID) *obstacle {
	for i := range w.obstacles {
		if w.obstacles[i].body == id {
			return &w.obstacles[i]
		}
	}
	return nil
}
