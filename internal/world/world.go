package world

import (
	"context"
	"time"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"go.uber.org/zap"
)

// World is one dimension's chunk map plus the metadata clients need at
// login (dimension identifier, seed, and the generator whose surface
// height sets the spawn and sea level).
type World struct {
	Name       string
	Dimension  ns.Identifier
	Seed       int64
	Generator  Generator
	Chunks     *ChunkMap
}

// NewWorld builds a world backed by generator, with its chunk map's
// generation pool bounded to poolConcurrency and its unload grace set
// to unloadGrace.
func NewWorld(ctx context.Context, name string, dimension ns.Identifier, seed int64, generator Generator, poolConcurrency int64, unloadGrace time.Duration, log *zap.Logger) *World {
	return &World{
		Name:      name,
		Dimension: dimension,
		Seed:      seed,
		Generator: generator,
		Chunks:    NewChunkMap(ctx, generator, poolConcurrency, unloadGrace, log),
	}
}

// Tick advances the world's chunk map by one tick: expiring unload
// grace periods. Draining ready/dirty chunks is driven separately by
// the caller (the player/tick packages), since only they know which
// subscribers need which packets.
func (w *World) Tick(now time.Time) {
	w.Chunks.Tick(now)
}
