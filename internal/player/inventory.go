package player

import (
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

// PlayerInventorySize is the vanilla player inventory layout: crafting
// result (0), crafting grid (1-4), armor (5-8), main inventory (9-35),
// hotbar (36-44), offhand (45).
const PlayerInventorySize = 46

const (
	SlotCraftingResult = 0
	SlotArmorStart     = 5
	SlotMainStart      = 9
	SlotHotbarStart    = 36
	SlotOffhand        = 45
)

// Inventory is one window's slot array plus the state-id counter the
// client and server use to detect desync: every server-initiated change
// bumps the counter, and a ContainerClick carrying a stale counter is
// rejected and answered with a full resync.
type Inventory struct {
	WindowID int
	Slots    []ns.Slot
	stateID  int32
}

// NewInventory allocates an empty inventory of the given size.
func NewInventory(windowID, size int) *Inventory {
	return &Inventory{
		WindowID: windowID,
		Slots:    make([]ns.Slot, size),
	}
}

// StateID returns the inventory's current state id.
func (inv *Inventory) StateID() int32 { return inv.stateID }

// Get returns the slot at index i, or an empty slot if out of range.
func (inv *Inventory) Get(i int) ns.Slot {
	if i < 0 || i >= len(inv.Slots) {
		return ns.EmptySlot()
	}
	return inv.Slots[i]
}

// Set writes the slot at index i and bumps the state id, per spec §4.7:
// every server-initiated mutation invalidates the client's last-known
// state.
func (inv *Inventory) Set(i int, s ns.Slot) {
	if i < 0 || i >= len(inv.Slots) {
		return
	}
	inv.Slots[i] = s
	inv.stateID++
}

// MatchesState reports whether clientStateID is still current. A
// mismatch means the client's view of the inventory is stale and must
// be corrected with ContainerSetContent before any click it sent is
// trusted.
func (inv *Inventory) MatchesState(clientStateID int32) bool {
	return clientStateID == inv.stateID
}

// ApplyChangedSlots writes every (index, item) pair a ContainerClick
// reported, without revalidating server-side crafting/container rules
// (out of scope); the caller is expected to have already confirmed
// MatchesState before trusting the click.
func (inv *Inventory) ApplyChangedSlots(changes []packets.SlotChange) {
	for _, c := range changes {
		inv.Set(int(c.SlotIndex), c.Item)
	}
}

// ToContainerSetContent builds the full-resync packet for this
// inventory's current state.
func (inv *Inventory) ToContainerSetContent(carried ns.Slot) *packets.ContainerSetContent {
	slots := make(ns.PrefixedArray[ns.Slot], len(inv.Slots))
	copy(slots, inv.Slots)
	return &packets.ContainerSetContent{
		WindowID:    ns.Uint8(inv.WindowID),
		StateID:     ns.VarInt(inv.stateID),
		Slots:       slots,
		CarriedItem: carried,
	}
}

// ToContainerSetSlot builds the incremental single-slot update for
// index i's current value.
func (inv *Inventory) ToContainerSetSlot(i int) *packets.ContainerSetSlot {
	return &packets.ContainerSetSlot{
		WindowID: ns.Int8(inv.WindowID),
		StateID:  ns.VarInt(inv.stateID),
		Slot:     ns.Int16(i),
		Item:     inv.Get(i),
	}
}

// VerifyHashedSlot cross-checks a client-reported HashedSlot against
// the server's slot at index i, returning false on a mismatch (stale
// client view, independent of the state-id check).
func (inv *Inventory) VerifyHashedSlot(i int, hashed ns.HashedSlot) bool {
	server := inv.Get(i)
	if hashed.IsEmpty() {
		return server.IsEmpty()
	}
	if server.IsEmpty() {
		return false
	}
	if hashed.ItemID != server.ItemID || hashed.Count != server.Count {
		return false
	}
	return true
}
