package world

import (
	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
	"hideseek.ai/internal/sim/rng"
)

// AgentType distinguishes the two teams. Seeker is zero so the exported
// agent-type tensor defaults to seeker for inactive slots, matching the
// zero-fill invariant.
type AgentType int32

const (
	AgentSeeker AgentType = 0
	AgentHider  AgentType = 1
)

// OwnerTeam tags obstacles that have been locked by a team. Locked
// obstacles can only be unlocked by the owning team; Unownable marks
// structural geometry (walls, planes, agents).
type OwnerTeam uint8

const (
	OwnerNone OwnerTeam = iota
	OwnerSeeker
	OwnerHider
	OwnerUnownable
)

// Action is one agent's discrete control input for a tick: movement
// buckets on x/y, a yaw bucket, and grab/lock flags.
type Action struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	R int32 `json:"r"`
	G int32 `json:"g"`
	L int32 `json:"l"`
}

// NeutralAction is the "do nothing" input (center buckets, no flags).
func NeutralAction() Action {
	return Action{X: 5, Y: 5, R: 5}
}

// obstacle is one placed rigid entity slot in the world's obstacle table.
type obstacle struct {
	body  physics.BodyID
	shape ShapeClass
	owner OwnerTeam
}

// AgentObservation is another agent seen from the observer's frame.
type AgentObservation struct {
	Pos geom.Vec2
	Vel geom.Vec2
}

// BoxObservation is a box in the observer's frame, with the box's static
// half-extent pair and its yaw relative to the observer.
type BoxObservation struct {
	Pos  geom.Vec2
	Vel  geom.Vec2
	Size geom.Vec2
	Rot  float32
}

// RampObservation is a ramp in the observer's frame.
type RampObservation struct {
	Pos geom.Vec2
	Vel geom.Vec2
	Rot float32
}

// AgentState is one fixed agent-interface slot. Slots beyond the episode's
// active agent count hold no body and all-zero outputs, so every consumer
// sees constant-shape data.
type AgentState struct {
	Body       physics.BodyID // InvalidBody when the slot is inactive
	Type       AgentType
	ActiveMask float32

	Action      Action
	PrepCounter int32
	Seed        rng.Key
	Grab        physics.ConstraintID

	AgentObs [MaxAgents - 1]AgentObservation
	BoxObs   [MaxBoxes]BoxObservation
	RampObs  [MaxRamps]RampObservation

	AgentVis [MaxAgents - 1]float32
	BoxVis   [MaxBoxes]float32
	RampVis  [MaxRamps]float32

	Lidar [NumLidarSamples]float32

	Reward float32
	Done   int32
}

// clearOutputs zeroes everything the slot exports, keeping the fixed-width
// tensors deterministic for inactive slots.
func (a *AgentState) clearOutputs() {
	*a = AgentState{
		Body: physics.InvalidBody,
		Grab: physics.InvalidConstraint,
	}
	a.Action = NeutralAction()
}

// GlobalDebugPositions mirrors the debug export: XY of every active box,
// ramp, and agent, zero-padded to capacity.
type GlobalDebugPositions struct {
	Boxes  [MaxBoxes]geom.Vec2
	Ramps  [MaxRamps]geom.Vec2
	Agents [MaxAgents]geom.Vec2
}

// EpisodeStart is emitted after a scene has been generated.
type EpisodeStart struct {
	World   uint32 `json:"world"`
	Episode uint32 `json:"episode"`
	Level   int32  `json:"level"`
	SeedA   uint32 `json:"seed_a"`
	SeedB   uint32 `json:"seed_b"`
	Hiders  int    `json:"hiders"`
	Seekers int    `json:"seekers"`
	Boxes   int    `json:"boxes"`
	Ramps   int    `json:"ramps"`
	Digest  string `json:"digest"`
}

// EpisodeEnd is emitted when an episode is torn down by a reset.
type EpisodeEnd struct {
	World      uint32  `json:"world"`
	Episode    uint32  `json:"episode"`
	Steps      int     `json:"steps"`
	TeamReward float32 `json:"team_reward"`
}

// EventSink receives episode lifecycle events. Implementations must not
// block; they run on the world's stepping goroutine.
type EventSink interface {
	EpisodeStarted(EpisodeStart)
	EpisodeEnded(EpisodeEnd)
}
