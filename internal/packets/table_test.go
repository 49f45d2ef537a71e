package packets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tn-lorenz/SteelMC/internal/packets"
)

func TestTableDecodesKnownPackets(t *testing.T) {
	table := packets.NewTable()

	p, ok := table.Decode(packets.StateHandshake, packets.C2S, 0x00)
	require.True(t, ok)
	require.IsType(t, &packets.Handshake{}, p)

	p, ok = table.Decode(packets.StatePlay, packets.C2S, 0x08)
	require.True(t, ok)
	require.IsType(t, &packets.ChatMessage{}, p)

	p, ok = table.Decode(packets.StatePlay, packets.S2C, 0x27)
	require.True(t, ok)
	require.IsType(t, &packets.LevelChunkWithLight{}, p)
}

func TestTableRejectsUnknownID(t *testing.T) {
	table := packets.NewTable()
	_, ok := table.Decode(packets.StatePlay, packets.C2S, 0x7F)
	require.False(t, ok)
}
