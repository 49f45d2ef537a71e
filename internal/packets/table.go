package packets

import "fmt"

// Decoder constructs a zero-value Packet of a concrete type so a wire
// frame's raw bytes can be decoded into it. Each (State, Bound, ID)
// triple maps to exactly one Decoder.
type Decoder func() Packet

type tableKey struct {
	state State
	bound Bound
	id    int32
}

// Table is the frozen (state, direction) -> id -> decoder registry the
// connection state machine consults for every inbound frame. It's keyed
// on the numeric wire ID directly, since packet IDs are positional per
// state rather than named.
type Table struct {
	decoders map[tableKey]Decoder
}

// NewTable builds the frozen packet table for every state this server
// implements. Construction panics on a duplicate (state, bound, id)
// registration, since that would mean two packet types claim the same
// wire identity and decoding would be ambiguous.
func NewTable() *Table {
	t := &Table{decoders: make(map[tableKey]Decoder)}

	reg := func(p Packet, ctor Decoder) {
		key := tableKey{state: p.State(), bound: p.Bound(), id: int32(p.ID())}
		if _, exists := t.decoders[key]; exists {
			panic(fmt.Sprintf("packets: duplicate registration for state=%d bound=%d id=0x%02X", key.state, key.bound, key.id))
		}
		t.decoders[key] = ctor
	}

	reg(&Handshake{}, func() Packet { return &Handshake{} })

	reg(&StatusRequest{}, func() Packet { return &StatusRequest{} })
	reg(&StatusResponse{}, func() Packet { return &StatusResponse{} })
	reg(&PingRequest{}, func() Packet { return &PingRequest{} })
	reg(&PongResponse{}, func() Packet { return &PongResponse{} })

	reg(&LoginStart{}, func() Packet { return &LoginStart{} })
	reg(&EncryptionResponse{}, func() Packet { return &EncryptionResponse{} })
	reg(&LoginAcknowledged{}, func() Packet { return &LoginAcknowledged{} })
	reg(&EncryptionRequest{}, func() Packet { return &EncryptionRequest{} })
	reg(&LoginSuccess{}, func() Packet { return &LoginSuccess{} })
	reg(&LoginCompression{}, func() Packet { return &LoginCompression{} })
	reg(&LoginDisconnect{}, func() Packet { return &LoginDisconnect{} })

	reg(&ClientInformation{}, func() Packet { return &ClientInformation{} })
	reg(&ServerboundPluginMessageConfig{}, func() Packet { return &ServerboundPluginMessageConfig{} })
	reg(&ServerboundKnownPacks{}, func() Packet { return &ServerboundKnownPacks{} })
	reg(&AcknowledgeFinishConfiguration{}, func() Packet { return &AcknowledgeFinishConfiguration{} })
	reg(&ClientboundPluginMessageConfig{}, func() Packet { return &ClientboundPluginMessageConfig{} })
	reg(&RegistryData{}, func() Packet { return &RegistryData{} })
	reg(&ClientboundKnownPacks{}, func() Packet { return &ClientboundKnownPacks{} })
	reg(&FinishConfiguration{}, func() Packet { return &FinishConfiguration{} })

	reg(&ClientboundLoginPlay{}, func() Packet { return &ClientboundLoginPlay{} })
	reg(&ServerboundKeepAlive{}, func() Packet { return &ServerboundKeepAlive{} })
	reg(&ServerboundPlayerSession{}, func() Packet { return &ServerboundPlayerSession{} })
	reg(&ChatMessage{}, func() Packet { return &ChatMessage{} })
	reg(&SetPlayerPosition{}, func() Packet { return &SetPlayerPosition{} })
	reg(&ContainerClick{}, func() Packet { return &ContainerClick{} })
	reg(&ClientboundKeepAlive{}, func() Packet { return &ClientboundKeepAlive{} })
	reg(&PlayerChatMessage{}, func() Packet { return &PlayerChatMessage{} })
	reg(&SystemChatMessage{}, func() Packet { return &SystemChatMessage{} })
	reg(&PlayDisconnect{}, func() Packet { return &PlayDisconnect{} })
	reg(&SynchronizePlayerPosition{}, func() Packet { return &SynchronizePlayerPosition{} })
	reg(&ContainerSetContent{}, func() Packet { return &ContainerSetContent{} })
	reg(&ContainerSetSlot{}, func() Packet { return &ContainerSetSlot{} })
	reg(&LevelChunkWithLight{}, func() Packet { return &LevelChunkWithLight{} })
	reg(&Commands{}, func() Packet { return &Commands{} })

	return t
}

// Decode looks up the decoder for (state, bound, id) and returns a fresh,
// still-empty Packet of the matching type. Returns false for an unknown
// ID. The Play read loop skips a frame whose ID has no entry here; it
// does not treat an unknown Play packet as a protocol violation.
func (t *Table) Decode(state State, bound Bound, id int32) (Packet, bool) {
	ctor, ok := t.decoders[tableKey{state: state, bound: bound, id: id}]
	if !ok {
		return nil, false
	}
	return ctor(), true
}
