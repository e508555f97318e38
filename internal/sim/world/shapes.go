package world

import (
	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// ShapeClass selects the collision extents and mass of a placed entity.
type ShapeClass uint8

const (
	ShapeCube ShapeClass = iota
	ShapeWall
	ShapeElongatedBox
	ShapeRamp
	ShapeAgent
	ShapePlane
)

// shapeDef holds the local-frame collision box and inverse mass for one
// shape class. Static shapes carry zero inverse mass.
type shapeDef struct {
	halfExtents geom.Vec3
	invMass     float32
	response    physics.Response
}

var shapeTable = [...]shapeDef{
	ShapeCube: {
		halfExtents: geom.Vec3{X: 1, Y: 1, Z: 1},
		invMass:     0.5,
		response:    physics.ResponseDynamic,
	},
	// Walls are unit cubes given their dimensions by the placement scale.
	ShapeWall: {
		halfExtents: geom.Vec3{X: 1, Y: 1, Z: 1},
		invMass:     0,
		response:    physics.ResponseStatic,
	},
	ShapeElongatedBox: {
		halfExtents: geom.Vec3{X: 4, Y: 0.75, Z: 1},
		invMass:     0.5,
		response:    physics.ResponseDynamic,
	},
	ShapeRamp: {
		halfExtents: geom.Vec3{X: 1, Y: 1, Z: 1},
		invMass:     0.5,
		response:    physics.ResponseDynamic,
	},
	ShapeAgent: {
		halfExtents: geom.Vec3{X: 0.5, Y: 0.5, Z: 1},
		invMass:     1,
		response:    physics.ResponseDynamic,
	},
	ShapePlane: {
		halfExtents: geom.Vec3{X: ArenaBound * 2, Y: ArenaBound * 2, Z: 0.1},
		invMass:     0,
		response:    physics.ResponseStatic,
	},
}

func (s ShapeClass) def() shapeDef { return shapeTable[s] }

// localAABB returns the shape's collision box centered on the origin.
func (s ShapeClass) localAABB() geom.AABB {
	h := shapeTable[s].halfExtents
	return geom.AABB{
		Min: geom.Vec3{X: -h.X, Y: -h.Y, Z: -h.Z},
		Max: h,
	}
}

// obsSize is the XY footprint pair reported in box observations.
func (s ShapeClass) obsSize() geom.Vec2 {
	h := shapeTable[s].halfExtents
	return geom.Vec2{X: 2 * h.X, Y: 2 * h.Y}
}
