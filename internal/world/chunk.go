package world

import (
	"github.com/tn-lorenz/SteelMC/internal/nbt"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

const (
	sectionBlocks   = 16 * 16 * 16
	sectionBiomes   = 4 * 4 * 4
	blocksMinBits   = 4
	blocksMaxBits   = 8
	biomesMinBits   = 1
	biomesMaxBits   = 3
)

// ChunkStatus marks whether a Chunk still belongs to the generation
// pool (Proto) or has been promoted into the live world (Level) and is
// reachable from player view windows.
type ChunkStatus uint8

const (
	StatusProto ChunkStatus = iota
	StatusLevel
)

// ChunkSection is one 16x16x16 vertical slice of a Chunk: a paletted
// block-state container plus a paletted biome container, matching the
// vanilla section wire layout.
type ChunkSection struct {
	BlockStates *PalettedContainer
	Biomes      *PalettedContainer
	blockCount  int16 // count of non-air entries, tracked incrementally
}

// NewChunkSection creates an empty section filled with airBlockState and
// defaultBiome.
func NewChunkSection(airBlockState, defaultBiome int32, directBlockBits, directBiomeBits int) *ChunkSection {
	return &ChunkSection{
		BlockStates: NewPalettedContainer(sectionBlocks, blocksMinBits, blocksMaxBits, directBlockBits, airBlockState),
		Biomes:      NewPalettedContainer(sectionBiomes, biomesMinBits, biomesMaxBits, directBiomeBits, defaultBiome),
	}
}

func blockIndex(x, y, z int) int { return (y << 8) | (z << 4) | x }

// SetBlock writes the block state at section-local coordinates (0..15).
func (s *ChunkSection) SetBlock(x, y, z int, airID, stateID int32) {
	idx := blockIndex(x, y, z)
	was := s.BlockStates.Get(idx)
	s.BlockStates.Set(idx, stateID)
	if was == airID && stateID != airID {
		s.blockCount++
	} else if was != airID && stateID == airID {
		s.blockCount--
	}
}

// GetBlock reads the block state at section-local coordinates.
func (s *ChunkSection) GetBlock(x, y, z int) int32 {
	return s.BlockStates.Get(blockIndex(x, y, z))
}

// Encode writes the section in the vanilla wire format: block count,
// then the two paletted containers.
func (s *ChunkSection) Encode(buf *ns.PacketBuffer) error {
	if err := buf.WriteInt16(ns.Int16(s.blockCount)); err != nil {
		return err
	}
	if err := s.BlockStates.Encode(buf); err != nil {
		return err
	}
	return s.Biomes.Encode(buf)
}

// Chunk is one column: its position, vertical sections, and the status
// that gates whether it is visible to players.
type Chunk struct {
	Pos      ChunkPos
	Sections []*ChunkSection
	Status   ChunkStatus

	airBlockState   int32
	directBlockBits int
}

// NewChunk allocates a chunk of numSections empty sections.
func NewChunk(pos ChunkPos, numSections int, airBlockState, defaultBiome int32, directBlockBits, directBiomeBits int) *Chunk {
	sections := make([]*ChunkSection, numSections)
	for i := range sections {
		sections[i] = NewChunkSection(airBlockState, defaultBiome, directBlockBits, directBiomeBits)
	}
	return &Chunk{
		Pos:             pos,
		Sections:        sections,
		Status:          StatusProto,
		airBlockState:   airBlockState,
		directBlockBits: directBlockBits,
	}
}

// SetBlock writes a block state at a chunk-local coordinate, where y may
// span the full section stack (section index = y >> 4).
func (c *Chunk) SetBlock(x, y, z int, stateID int32) {
	secIdx := y >> 4
	if secIdx < 0 || secIdx >= len(c.Sections) {
		return
	}
	c.Sections[secIdx].SetBlock(x, y&15, z, c.airBlockState, stateID)
}

// GetBlock reads a block state at a chunk-local coordinate.
func (c *Chunk) GetBlock(x, y, z int) int32 {
	secIdx := y >> 4
	if secIdx < 0 || secIdx >= len(c.Sections) {
		return c.airBlockState
	}
	return c.Sections[secIdx].GetBlock(x, y&15, z)
}

// EncodeSections concatenates every section's encoded bytes into the
// raw payload ChunkData.Data expects.
func (c *Chunk) EncodeSections() ([]byte, error) {
	buf := ns.NewWriter()
	for _, sec := range c.Sections {
		if err := sec.Encode(buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// ToChunkData builds the (heightmaps NBT, section bytes) pair a
// LevelChunkWithLight packet carries: a flat MOTION_BLOCKING heightmap
// (accurate enough for a flat world, since every column shares the same
// top surface) and the concatenated encoded sections. Real terrain
// generation would recompute per-column heights instead of reusing
// surfaceY for every entry.
func (c *Chunk) ToChunkData(surfaceY int64) (heightmapsNBT []byte, sections []byte, err error) {
	sections, err = c.EncodeSections()
	if err != nil {
		return nil, nil, err
	}
	heightmapsNBT, err = nbt.Encode(nbt.Compound{
		"MOTION_BLOCKING": nbt.LongArray(flatHeightmap(surfaceY)),
	}, "", true)
	if err != nil {
		return nil, nil, err
	}
	return heightmapsNBT, sections, nil
}

// ToPacket builds the full ClientboundLevelChunkWithLight a subscriber
// gets the first time a chunk is sent: its sections plus a fully-lit
// empty light mask (flat worlds need no computed lighting).
func (c *Chunk) ToPacket(surfaceY int64) (*packets.LevelChunkWithLight, error) {
	heightmaps, sections, err := c.ToChunkData(surfaceY)
	if err != nil {
		return nil, err
	}
	light := EmptyLightData(len(c.Sections))
	return &packets.LevelChunkWithLight{
		ChunkX:              ns.Int32(c.Pos.X),
		ChunkZ:              ns.Int32(c.Pos.Z),
		Heightmaps:          heightmaps,
		Data:                sections,
		SkyLightMask:        light.SkyLightMask,
		BlockLightMask:      light.BlockLightMask,
		EmptySkyLightMask:   light.EmptySkyLightMask,
		EmptyBlockLightMask: light.EmptyBlockLightMask,
	}, nil
}

// flatHeightmap builds a MOTION_BLOCKING heightmap where every one of
// the 256 columns reports the same surface height, packed 9 bits per
// entry per the vanilla long-array packing.
func flatHeightmap(surfaceY int64) []int64 {
	const bitsPerEntry = 9
	const perLong = 64 / bitsPerEntry
	const entries = 256
	numLongs := (entries + perLong - 1) / perLong
	longs := make([]int64, numLongs)
	mask := int64(1)<<bitsPerEntry - 1
	v := surfaceY & mask
	for i := 0; i < entries; i++ {
		longIdx := i / perLong
		shift := uint(i%perLong) * bitsPerEntry
		longs[longIdx] |= v << shift
	}
	return longs
}

// EmptyLightData returns a LightData with every mask bit set to "empty"
// for numSections+2 entries (the two virtual sections above/below the
// world), matching a fully-lit flat world with no computed lighting.
func EmptyLightData(numSections int) ns.LightData {
	total := numSections + 2
	emptySky := ns.NewBitSet(total)
	emptyBlock := ns.NewBitSet(total)
	for i := 0; i < total; i++ {
		emptySky.Set(i)
		emptyBlock.Set(i)
	}
	return ns.LightData{
		SkyLightMask:        *ns.NewBitSet(total),
		BlockLightMask:      *ns.NewBitSet(total),
		EmptySkyLightMask:   *emptySky,
		EmptyBlockLightMask: *emptyBlock,
	}
}
