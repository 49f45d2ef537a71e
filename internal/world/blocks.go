package world

// Global block-state and biome IDs used by the flat generator and the
// chunk encoder's default values. These are real vanilla 1.21 block
// state and biome indices, hardcoded rather than looked up from a
// generic name registry since nothing else in this server ever
// resolves a block by name.
const (
	BlockAir       int32 = 0
	BlockBedrock   int32 = 79
	BlockDirt      int32 = 10
	BlockGrassBlock int32 = 9

	BiomePlains int32 = 0
)

// DirectBlockBits is the bits-per-entry used once a section's palette
// would need more entries than the Indirect representation allows. It
// must be large enough to index the full block-state registry (the
// 1.21 registry has on the order of 2^16 states).
const DirectBlockBits = 15

// DirectBiomeBits sizes the biome Direct representation similarly,
// against the (much smaller) biome registry.
const DirectBiomeBits = 6
