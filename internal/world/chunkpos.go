package world

import ns "github.com/tn-lorenz/SteelMC/internal/netcode"

// ChunkPos identifies a 16x16 column by its section-grid coordinates
// (world block coordinate / 16).
type ChunkPos struct {
	X, Z int32
}

// ChunkPosOf returns the ChunkPos containing the given block position.
func ChunkPosOf(pos ns.Position) ChunkPos {
	return ChunkPos{X: int32(floorDiv(pos.X, 16)), Z: int32(floorDiv(pos.Z, 16))}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DistanceSquared returns the squared Chebyshev-free Euclidean distance
// in chunk units, used to order the view window by closeness to center.
func (c ChunkPos) DistanceSquared(other ChunkPos) int64 {
	dx := int64(c.X - other.X)
	dz := int64(c.Z - other.Z)
	return dx*dx + dz*dz
}

// ChebyshevDistance returns max(|dx|, |dz|), the metric used for square
// view-distance radii (the vanilla chunk-loading shape).
func (c ChunkPos) ChebyshevDistance(other ChunkPos) int32 {
	dx := c.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dz := c.Z - other.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}
