// Package world implements the chunk map and streamer (C6): the
// ticket-based loading/generation pipeline, the paletted block-state
// container, and the per-player view window that drives which chunks are
// sent to which connections.
package world

import (
	"fmt"
	"math/bits"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
)

// Representation is the storage strategy a PalettedContainer currently
// uses, per spec §3/§8: transitions are monotone (Single -> Indirect ->
// Direct) and the container never shrinks back during a chunk's live
// session.
type Representation uint8

const (
	Single Representation = iota
	Indirect
	Direct
)

// PalettedContainer stores Capacity entries (4096 block states per
// section, 64 biomes per section) using whichever of the three wire
// representations is currently cheapest for the values written so far.
//
// MinBits/MaxBits bound the Indirect bits-per-entry (4..8 for block
// states, 1..3 for biomes per the vanilla format); DirectBits is the
// global registry width used once the palette would exceed MaxBits
// entries.
type PalettedContainer struct {
	Capacity   int
	MinBits    int
	MaxBits    int
	DirectBits int

	repr         Representation
	singleValue  int32
	palette      []int32
	indexOf      map[int32]int
	bitsPerEntry int
	entries      []int32 // canonical decoded values; always kept in sync with the packed representation
}

// NewPalettedContainer creates a container of the given capacity, all
// entries initialized to defaultValue, in the Single representation.
func NewPalettedContainer(capacity, minBits, maxBits, directBits int, defaultValue int32) *PalettedContainer {
	return &PalettedContainer{
		Capacity:    capacity,
		MinBits:     minBits,
		MaxBits:     maxBits,
		DirectBits:  directBits,
		repr:        Single,
		singleValue: defaultValue,
		entries:     nil, // Single representation: every Get returns singleValue without materializing entries
	}
}

// Get returns the value at index i (0 <= i < Capacity).
func (p *PalettedContainer) Get(i int) int32 {
	if p.repr == Single {
		return p.singleValue
	}
	return p.entries[i]
}

// Set writes value at index i, transitioning representation if needed.
// The transition is strictly monotone: Single -> Indirect on the first
// value that differs from the current single value, Indirect -> Direct
// only once the number of distinct values written would need more than
// MaxBits bits to index.
func (p *PalettedContainer) Set(i int, value int32) {
	switch p.repr {
	case Single:
		if value == p.singleValue {
			return
		}
		p.materialize()
		p.repr = Indirect
		p.entries[i] = value
		p.rebuildPalette()
	case Indirect:
		p.entries[i] = value
		if _, ok := p.indexOf[value]; !ok {
			p.rebuildPalette()
		}
	case Direct:
		p.entries[i] = value
	}
}

// materialize fills entries with the current single value, the first
// step of leaving the Single representation.
func (p *PalettedContainer) materialize() {
	p.entries = make([]int32, p.Capacity)
	for i := range p.entries {
		p.entries[i] = p.singleValue
	}
}

// rebuildPalette recomputes the palette (Indirect) or confirms Direct
// promotion from the current entries. Called only while in Indirect or
// transitioning into it; never downgrades.
func (p *PalettedContainer) rebuildPalette() {
	seen := make(map[int32]int)
	order := make([]int32, 0, 16)
	for _, v := range p.entries {
		if _, ok := seen[v]; !ok {
			seen[v] = len(order)
			order = append(order, v)
		}
	}

	needed := bitsFor(len(order))
	if needed < p.MinBits {
		needed = p.MinBits
	}

	if p.repr == Direct || needed > p.MaxBits {
		// Exceeds the indirect cap: promote to Direct (monotone, one-way).
		p.repr = Direct
		p.bitsPerEntry = p.DirectBits
		p.palette = nil
		p.indexOf = nil
		return
	}

	p.repr = Indirect
	p.bitsPerEntry = needed
	p.palette = order
	p.indexOf = seen
}

// bitsFor returns ceil(log2(n)), with bitsFor(0) and bitsFor(1) both 0
// since a single entry needs no index bits.
func bitsFor(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Representation reports the container's current storage strategy.
func (p *PalettedContainer) Representation() Representation { return p.repr }

// Encode writes the container in the vanilla section-paletted-container
// wire format: a bits-per-entry byte, then a representation-specific
// body.
func (p *PalettedContainer) Encode(buf *ns.PacketBuffer) error {
	switch p.repr {
	case Single:
		if err := buf.WriteUint8(0); err != nil {
			return err
		}
		return buf.WriteVarInt(ns.VarInt(p.singleValue))
	case Indirect:
		if err := buf.WriteUint8(ns.Uint8(p.bitsPerEntry)); err != nil {
			return err
		}
		if err := buf.WriteVarInt(ns.VarInt(len(p.palette))); err != nil {
			return err
		}
		for _, v := range p.palette {
			if err := buf.WriteVarInt(ns.VarInt(v)); err != nil {
				return err
			}
		}
		return p.encodePacked(buf, p.indirectIndices())
	case Direct:
		if err := buf.WriteUint8(ns.Uint8(p.DirectBits)); err != nil {
			return err
		}
		return p.encodePacked(buf, p.entries)
	default:
		return fmt.Errorf("paletted container: unknown representation %d", p.repr)
	}
}

func (p *PalettedContainer) indirectIndices() []int32 {
	out := make([]int32, len(p.entries))
	for i, v := range p.entries {
		out[i] = int32(p.indexOf[v])
	}
	return out
}

// encodePacked writes values (already palette indices for Indirect, raw
// IDs for Direct) packed at p.bitsPerEntry bits each, entries-per-long
// aligned so no value crosses a long boundary (the post-1.16 scheme).
func (p *PalettedContainer) encodePacked(buf *ns.PacketBuffer, values []int32) error {
	bitsPerEntry := p.bitsPerEntry
	if bitsPerEntry == 0 {
		return buf.WriteVarInt(0)
	}
	perLong := 64 / bitsPerEntry
	numLongs := (len(values) + perLong - 1) / perLong
	longs := make([]int64, numLongs)

	mask := int64(1)<<uint(bitsPerEntry) - 1
	for i, v := range values {
		longIdx := i / perLong
		shift := uint(i%perLong) * uint(bitsPerEntry)
		longs[longIdx] |= (int64(v) & mask) << shift
	}

	if err := buf.WriteVarInt(ns.VarInt(numLongs)); err != nil {
		return err
	}
	for _, l := range longs {
		if err := buf.WriteInt64(ns.Int64(l)); err != nil {
			return err
		}
	}
	return nil
}
