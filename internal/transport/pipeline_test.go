package transport_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/protoerr"
	"github.com/tn-lorenz/SteelMC/internal/transport"
)

type echoPacket struct {
	id      ns.VarInt
	state   packets.State
	bound   packets.Bound
	Payload ns.String
}

func (p *echoPacket) ID() ns.VarInt            { return p.id }
func (p *echoPacket) State() packets.State     { return p.state }
func (p *echoPacket) Bound() packets.Bound     { return p.bound }
func (p *echoPacket) Read(buf *ns.PacketBuffer) error {
	s, err := buf.ReadString(32767)
	if err != nil {
		return err
	}
	p.Payload = s
	return nil
}
func (p *echoPacket) Write(buf *ns.PacketBuffer) error {
	return buf.WriteString(p.Payload)
}

func pipelinePair(t *testing.T) (*transport.Pipeline, *transport.Pipeline) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { _ = a.Close(); _ = b.Close() })
	return transport.NewPipeline(a), transport.NewPipeline(b)
}

func TestPipelineRoundTripUncompressed(t *testing.T) {
	client, server := pipelinePair(t)

	done := make(chan error, 1)
	go func() {
		done <- client.WriteFrame(&echoPacket{id: 5, Payload: ns.String("hello")})
	}()

	wire, err := server.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, <-done)

	got := &echoPacket{id: 5}
	err = wire.ReadInto(got)
	require.NoError(t, err)
	require.Equal(t, ns.String("hello"), got.Payload)
}

func TestPipelineRoundTripWithCompression(t *testing.T) {
	client, server := pipelinePair(t)
	client.SetWriteCompression(2)
	server.SetReadCompression(2)

	payload := ns.String("a reasonably long payload that exceeds the threshold")
	done := make(chan error, 1)
	go func() {
		done <- client.WriteFrame(&echoPacket{id: 7, Payload: payload})
	}()

	wire, err := server.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, <-done)

	got := &echoPacket{id: 7}
	err = wire.ReadInto(got)
	require.NoError(t, err)
	require.Equal(t, payload, got.Payload)
}

func TestPipelineRoundTripWithEncryption(t *testing.T) {
	client, server := pipelinePair(t)

	secret := make([]byte, 16)
	for i := range secret {
		secret[i] = byte(i)
	}
	client.Encryption().SetSharedSecret(secret)
	server.Encryption().SetSharedSecret(secret)
	require.NoError(t, client.EnableEncryption())
	require.NoError(t, server.EnableEncryption())

	done := make(chan error, 1)
	go func() {
		done <- client.WriteFrame(&echoPacket{id: 1, Payload: ns.String("secret")})
	}()

	wire, err := server.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, <-done)

	got := &echoPacket{id: 1}
	err = wire.ReadInto(got)
	require.NoError(t, err)
	require.Equal(t, ns.String("secret"), got.Payload)
}

func TestPipelineRejectsOversizeFrame(t *testing.T) {
	var declared ns.VarInt = transport.MaxFrameLength + 1
	raw, err := declared.ToBytes()
	require.NoError(t, err)

	a, b := net.Pipe()
	defer func() { _ = a.Close(); _ = b.Close() }()
	go func() { _, _ = a.Write(raw) }()

	p := transport.NewPipeline(b)
	_, err = p.ReadFrame()
	require.ErrorIs(t, err, protoerr.ErrFrameTooLarge)
}
