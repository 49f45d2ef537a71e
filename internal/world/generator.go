package world

// Generator produces the terrain for a single chunk column. Chunk
// generation runs on the chunk-pool worker goroutines, never on the
// tick thread, so implementations must be safe to call concurrently
// from multiple goroutines with no shared mutable state across calls.
type Generator interface {
	// Generate returns a fully-populated Chunk for pos. The chunk map
	// does not change the returned chunk's Status; FlatGenerator sets it
	// to StatusLevel before returning.
	Generate(pos ChunkPos) (*Chunk, error)

	// NumSections reports the chunk height in 16-block sections, used
	// by callers that need to size light data alongside generated chunks.
	NumSections() int

	// SurfaceY reports the Y coordinate of the generator's top solid
	// block, used to synthesize the MOTION_BLOCKING heightmap.
	SurfaceY() int64
}

// FlatGenerator produces a superflat world: bedrock at the bottom,
// configurable dirt layers, and a grass-block surface, matching vanilla
// superflat presets. It is stateless and safe for concurrent use.
type FlatGenerator struct {
	numSections int
	dirtLayers  int
	minY        int
}

// NewFlatGenerator builds a flat generator over a world minY..minY+16*numSections
// column, with dirtLayers dirt blocks under the grass surface.
func NewFlatGenerator(numSections, minY, dirtLayers int) *FlatGenerator {
	return &FlatGenerator{numSections: numSections, dirtLayers: dirtLayers, minY: minY}
}

func (g *FlatGenerator) NumSections() int { return g.numSections }

func (g *FlatGenerator) SurfaceY() int64 {
	return int64(g.minY + 1 + g.dirtLayers)
}

// Generate fills a single column: one bedrock layer, dirtLayers dirt,
// one grass-block layer, and air above.
func (g *FlatGenerator) Generate(pos ChunkPos) (*Chunk, error) {
	c := NewChunk(pos, g.numSections, BlockAir, BiomePlains, DirectBlockBits, DirectBiomeBits)

	surface := g.minY + 1 + g.dirtLayers
	for y := g.minY; y <= surface; y++ {
		local := y - g.minY
		var state int32
		switch {
		case y == g.minY:
			state = BlockBedrock
		case y == surface:
			state = BlockGrassBlock
		default:
			state = BlockDirt
		}
		for x := 0; x < 16; x++ {
			for z := 0; z < 16; z++ {
				c.SetBlock(x, local, z, state)
			}
		}
	}

	c.Status = StatusLevel
	return c, nil
}
