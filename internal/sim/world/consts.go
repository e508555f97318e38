package world

// Fixed capacities. Downstream tensor consumers rely on these being
// constant regardless of how many entities a given episode actually spawns.
const (
	MaxBoxes  = 9
	MaxRamps  = 2
	MaxAgents = 16

	// Boxes + ramps + agents plus headroom for static geometry
	// (walls, ground plane).
	MaxObstacles = MaxBoxes + MaxRamps + MaxAgents + 30
)

// Episode timing.
const (
	NumPrepSteps = 96
	EpisodeLen   = 240
)

// Physics cadence.
const (
	DeltaT             = 1.0 / 30.0
	NumPhysicsSubsteps = 4
)

// Arena geometry. Placement samples positions in [-ArenaBound, ArenaBound)
// on both horizontal axes; agents straying past the bound on either axis
// take a per-agent reward penalty.
const (
	ArenaBound      float32 = 18.0
	placementHeight float32 = 1.0
)

// Discrete action space: 11 buckets per axis, bucket 5 neutral.
const (
	ActionBuckets     = 11
	actionHalfBuckets = ActionBuckets / 2

	moveActionMax      float32 = 60
	moveDeltaPerBucket         = moveActionMax / actionHalfBuckets

	turnActionMax      float32 = 15
	turnDeltaPerBucket         = turnActionMax / actionHalfBuckets
)

// Lidar scan parameters.
const (
	NumLidarSamples         = 30
	lidarRange      float32 = 200
)

// Visibility cone half-angle is 67.5 degrees (135/2).
const visibilityHalfAngleDeg = 135.0 / 2.0

// Grab/lock interaction reach.
const interactRange float32 = 2.5

// maxPlacementAttempts caps rejection sampling; the candidate drawn after
// this many rejections is accepted even if it overlaps. Guarantees forward
// progress on crowded arenas.
const maxPlacementAttempts = 20
