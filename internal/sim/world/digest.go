package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"hideseek.ai/internal/sim/geom"
)

// SceneDigest hashes the generated layout: entity counts plus the pose of
// every box, ramp, and agent. Two worlds that generated identical scenes
// produce identical digests, which is what the determinism tests and the
// replay verifier compare.
func (w *World) SceneDigest() string {
	h := sha256.New()
	var buf [4]byte

	u32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}
	f32 := func(v float32) { u32(math.Float32bits(v)) }
	vec := func(v geom.Vec3) { f32(v.X); f32(v.Y); f32(v.Z) }
	quat := func(q geom.Quat) { f32(q.W); f32(q.X); f32(q.Y); f32(q.Z) }

	u32(uint32(w.level))
	u32(uint32(w.numBoxes))
	u32(uint32(w.numRamps))
	u32(uint32(w.numActive))

	for i := 0; i < w.numBoxes; i++ {
		b := w.body(w.boxes[i])
		u32(uint32(w.boxShapes[i]))
		vec(b.Pos)
		quat(b.Rot)
		f32(w.boxRotations[i])
	}
	for i := 0; i < w.numRamps; i++ {
		b := w.body(w.ramps[i])
		vec(b.Pos)
		quat(b.Rot)
		f32(w.rampRot[i])
	}
	for i := 0; i < w.numActive; i++ {
		a := &w.agents[i]
		b := w.body(a.Body)
		u32(uint32(a.Type))
		vec(b.Pos)
		quat(b.Rot)
	}

	return hex.EncodeToString(h.Sum(nil))
}
