package engine

import "hideseek.ai/internal/sim/world"

// Per-entry float widths of the packed observation tensors.
const (
	agentObsFloats = 4 // pos xy, vel xy
	boxObsFloats   = 7 // pos xy, vel xy, size xy, relative yaw
	rampObsFloats  = 5 // pos xy, vel xy, relative yaw

	otherAgents = world.MaxAgents - 1

	debugEntities = world.MaxBoxes + world.MaxRamps + world.MaxAgents
)

// Exports holds the fixed-shape output tensors for the whole batch. Every
// slice is laid out world-major, then agent slot, then entry: the shapes
// never change between ticks, so a consumer can bind the backing arrays
// once and reread them after every Step.
type Exports struct {
	PrepCounter []int32   // [worlds][agents]
	AgentType   []int32   // [worlds][agents]
	ActiveMask  []float32 // [worlds][agents]

	AgentObs []float32 // [worlds][agents][otherAgents][4]
	BoxObs   []float32 // [worlds][agents][maxBoxes][7]
	RampObs  []float32 // [worlds][agents][maxRamps][5]

	AgentVis []float32 // [worlds][agents][otherAgents]
	BoxVis   []float32 // [worlds][agents][maxBoxes]
	RampVis  []float32 // [worlds][agents][maxRamps]

	Lidar []float32 // [worlds][agents][numLidarSamples]
	Seed  []uint32  // [worlds][agents][2]

	Reward []float32 // [worlds][agents]
	Done   []int32   // [worlds][agents]

	DebugPositions []float32 // [worlds][boxes+ramps+agents][2]
}

func newExports(numWorlds int) Exports {
	wa := numWorlds * world.MaxAgents
	return Exports{
		PrepCounter: make([]int32, wa),
		AgentType:   make([]int32, wa),
		ActiveMask:  make([]float32, wa),
		AgentObs:    make([]float32, wa*otherAgents*agentObsFloats),
		BoxObs:      make([]float32, wa*world.MaxBoxes*boxObsFloats),
		RampObs:     make([]float32, wa*world.MaxRamps*rampObsFloats),
		AgentVis:    make([]float32, wa*otherAgents),
		BoxVis:      make([]float32, wa*world.MaxBoxes),
		RampVis:     make([]float32, wa*world.MaxRamps),
		Lidar:       make([]float32, wa*world.NumLidarSamples),
		Seed:        make([]uint32, wa*2),
		Reward:      make([]float32, wa),
		Done:        make([]int32, wa),

		DebugPositions: make([]float32, numWorlds*debugEntities*2),
	}
}

// gatherWorld flattens one world's slot outputs into the batch tensors.
// Each world writes a disjoint range, so workers gather concurrently.
func (e *Exports) gatherWorld(worldIdx int, w *world.World) {
	for slot := 0; slot < world.MaxAgents; slot++ {
		a := w.Agent(slot)
		flat := worldIdx*world.MaxAgents + slot

		e.PrepCounter[flat] = a.PrepCounter
		e.AgentType[flat] = int32(a.Type)
		e.ActiveMask[flat] = a.ActiveMask
		e.Reward[flat] = a.Reward
		e.Done[flat] = a.Done
		e.Seed[flat*2] = a.Seed.A
		e.Seed[flat*2+1] = a.Seed.B

		off := flat * otherAgents * agentObsFloats
		for k := 0; k < otherAgents; k++ {
			o := &a.AgentObs[k]
			e.AgentObs[off] = o.Pos.X
			e.AgentObs[off+1] = o.Pos.Y
			e.AgentObs[off+2] = o.Vel.X
			e.AgentObs[off+3] = o.Vel.Y
			off += agentObsFloats
		}

		off = flat * world.MaxBoxes * boxObsFloats
		for k := 0; k < world.MaxBoxes; k++ {
			o := &a.BoxObs[k]
			e.BoxObs[off] = o.Pos.X
			e.BoxObs[off+1] = o.Pos.Y
			e.BoxObs[off+2] = o.Vel.X
			e.BoxObs[off+3] = o.Vel.Y
			e.BoxObs[off+4] = o.Size.X
			e.BoxObs[off+5] = o.Size.Y
			e.BoxObs[off+6] = o.Rot
			off += boxObsFloats
		}

		off = flat * world.MaxRamps * rampObsFloats
		for k := 0; k < world.MaxRamps; k++ {
			o := &a.RampObs[k]
			e.RampObs[off] = o.Pos.X
			e.RampObs[off+1] = o.Pos.Y
			e.RampObs[off+2] = o.Vel.X
			e.RampObs[off+3] = o.Vel.Y
			e.RampObs[off+4] = o.Rot
			off += rampObsFloats
		}

		copy(e.AgentVis[flat*otherAgents:], a.AgentVis[:])
		copy(e.BoxVis[flat*world.MaxBoxes:], a.BoxVis[:])
		copy(e.RampVis[flat*world.MaxRamps:], a.RampVis[:])
		copy(e.Lidar[flat*world.NumLidarSamples:], a.Lidar[:])
	}

	dbg := w.DebugPositions()
	off := worldIdx * debugEntities * 2
	for i := 0; i < world.MaxBoxes; i++ {
		e.DebugPositions[off] = dbg.Boxes[i].X
		e.DebugPositions[off+1] = dbg.Boxes[i].Y
		off += 2
	}
	for i := 0; i < world.MaxRamps; i++ {
		e.DebugPositions[off] = dbg.Ramps[i].X
		e.DebugPositions[off+1] = dbg.Ramps[i].Y
		off += 2
	}
	for i := 0; i < world.MaxAgents; i++ {
		e.DebugPositions[off] = dbg.Agents[i].X
		e.DebugPositions[off+1] = dbg.Agents[i].Y
		off += 2
	}
}
