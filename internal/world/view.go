package world

import "sort"

// ChunksInView returns every chunk within radius (Chebyshev distance,
// the vanilla square view-distance shape) of center, ordered nearest
// first so the streamer fills the window closest-to-player before the
// edges.
func ChunksInView(center ChunkPos, radius int32) []ChunkPos {
	out := make([]ChunkPos, 0, (2*radius+1)*(2*radius+1))
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			out = append(out, ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceSquared(center) < out[j].DistanceSquared(center)
	})
	return out
}

// ViewDiff compares the chunk set a player subscribed to last tick
// against the window this tick and reports which chunks newly entered
// the window (need a ticket + subscription + send) and which left
// (need ticket removal + unsubscription), per spec §4.6's concentric
// diff streaming.
func ViewDiff(old, new []ChunkPos) (entering, leaving []ChunkPos) {
	oldSet := make(map[ChunkPos]struct{}, len(old))
	for _, p := range old {
		oldSet[p] = struct{}{}
	}
	newSet := make(map[ChunkPos]struct{}, len(new))
	for _, p := range new {
		newSet[p] = struct{}{}
	}

	for _, p := range new {
		if _, ok := oldSet[p]; !ok {
			entering = append(entering, p)
		}
	}
	for _, p := range old {
		if _, ok := newSet[p]; !ok {
			leaving = append(leaving, p)
		}
	}
	return entering, leaving
}
