package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AgentName       string `json:"agent_name"`
	// WorldPreference requests a specific world index; -1 lets the server
	// pick the first world with a free slot.
	WorldPreference int `json:"world_preference,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	AgentID         string      `json:"agent_id"`
	World           int         `json:"world"`
	Slot            int         `json:"slot"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	NumWorlds    int    `json:"num_worlds"`
	MaxAgents    int    `json:"max_agents"`
	EpisodeLen   int    `json:"episode_len"`
	NumPrepSteps int    `json:"num_prep_steps"`
	TickRateHz   int    `json:"tick_rate_hz"`
	Seed         uint32 `json:"seed"`
}

// OBS (server -> client): one agent slot's view for one tick.
type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	World           int    `json:"world"`
	Slot            int    `json:"slot"`
	Episode         uint32 `json:"episode"`
	Step            int32  `json:"step"`

	AgentType   int32     `json:"agent_type"` // 0 seeker, 1 hider
	Active      float32   `json:"active"`
	PrepCounter int32     `json:"prep_counter"`
	Seed        [2]uint32 `json:"seed"`

	Agents []EntityObs `json:"agents"`
	Boxes  []BoxObs    `json:"boxes"`
	Ramps  []RampObs   `json:"ramps"`

	AgentVis []float32 `json:"agent_vis"`
	BoxVis   []float32 `json:"box_vis"`
	RampVis  []float32 `json:"ramp_vis"`

	Lidar []float32 `json:"lidar"`

	Reward float32 `json:"reward"`
	Done   int32   `json:"done"`
}

// EntityObs is an observer-relative position/velocity pair.
type EntityObs struct {
	Pos [2]float32 `json:"pos"`
	Vel [2]float32 `json:"vel"`
}

type BoxObs struct {
	Pos  [2]float32 `json:"pos"`
	Vel  [2]float32 `json:"vel"`
	Size [2]float32 `json:"size"`
	Rot  float32    `json:"rot"`
}

type RampObs struct {
	Pos [2]float32 `json:"pos"`
	Vel [2]float32 `json:"vel"`
	Rot float32    `json:"rot"`
}

// ACT (client -> server): discrete buckets for the bound slot.
type ActMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Tick            uint64    `json:"tick"`
	Action          ActionReq `json:"action"`
}

type ActionReq struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	R int32 `json:"r"`
	G int32 `json:"g"`
	L int32 `json:"l"`
}

// RESET (client -> server): regenerate the client's world.
type ResetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Level           int32  `json:"level"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
