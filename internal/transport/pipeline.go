// Package transport implements the wire-level layering between a raw TCP
// socket and typed packets: optional zlib compression, optional AES/CFB8
// encryption, and VarInt length-prefixed framing. Compression and
// encryption are each tracked with independent read/write state so that
// "takes effect on the next frame/byte in that direction" (the protocol's
// own phrasing) is a structural property of the Pipeline rather than a
// timing accident.
package transport

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tn-lorenz/SteelMC/internal/mcrypto"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
	"github.com/tn-lorenz/SteelMC/internal/protoerr"
)

// MaxFrameLength is the protocol's hard ceiling on a single frame, in
// either its compressed or its decompressed form: (2^21)-1 bytes, the
// largest value a 3-byte VarInt can carry.
const MaxFrameLength = 1<<21 - 1

// cryptConn applies an *mcrypto.Encryption stream cipher transparently
// over a net.Conn. While the cipher is unset, reads/writes pass through.
type cryptConn struct {
	net.Conn
	enc *mcrypto.Encryption
}

func (c *cryptConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 {
		copy(p[:n], c.enc.Decrypt(p[:n]))
	}
	return n, err
}

func (c *cryptConn) Write(p []byte) (int, error) {
	return c.Conn.Write(c.enc.Encrypt(p))
}

// Pipeline is the layered transport for one connection: frame the bytes,
// optionally zlib-compress them, optionally AES/CFB8-encrypt them.
type Pipeline struct {
	raw net.Conn
	enc *mcrypto.Encryption
	br  *bufio.Reader
	bw  io.Writer

	readThreshold  atomic.Int32
	writeThreshold atomic.Int32

	writeMu sync.Mutex
}

// NewPipeline wraps conn with an initially plaintext, uncompressed
// Pipeline.
func NewPipeline(conn net.Conn) *Pipeline {
	enc := mcrypto.NewEncryption()
	cc := &cryptConn{Conn: conn, enc: enc}
	p := &Pipeline{
		raw: conn,
		enc: enc,
		br:  bufio.NewReaderSize(cc, 4096),
		bw:  cc,
	}
	p.readThreshold.Store(-1)
	p.writeThreshold.Store(-1)
	return p
}

// Encryption exposes the underlying cipher state so the login flow can
// feed it the shared secret.
func (p *Pipeline) Encryption() *mcrypto.Encryption { return p.enc }

// EnableEncryption derives AES/CFB8 read and write streams from the
// shared secret already set on p.Encryption(). Every byte read or
// written after this call is encrypted; bytes already buffered by the
// bufio.Reader were read (and thus decrypted, or not, as appropriate)
// before this call and are unaffected.
func (p *Pipeline) EnableEncryption() error {
	return p.enc.EnableEncryption()
}

// SetReadCompression sets the threshold applied to the next inbound
// frame. A negative threshold disables compression.
func (p *Pipeline) SetReadCompression(threshold int) {
	p.readThreshold.Store(int32(threshold))
}

// SetWriteCompression sets the threshold applied to the next outbound
// frame. A negative threshold disables compression.
func (p *Pipeline) SetWriteCompression(threshold int) {
	p.writeThreshold.Store(int32(threshold))
}

// ReadFrame blocks until one full frame has arrived, decompressing it if
// necessary, and returns it as a WirePacket ready for ReadPacket[T].
func (p *Pipeline) ReadFrame() (*packets.WirePacket, error) {
	packetLength, err := ns.DecodeVarInt(p.br)
	if err != nil {
		return nil, fmt.Errorf("%w: read length: %v", protoerr.ErrDisconnected, err)
	}
	if packetLength < 0 || int(packetLength) > MaxFrameLength {
		return nil, fmt.Errorf("%w: declared %d bytes", protoerr.ErrFrameTooLarge, packetLength)
	}

	body := make([]byte, packetLength)
	if _, err := io.ReadFull(p.br, body); err != nil {
		return nil, fmt.Errorf("%w: read body: %v", protoerr.ErrMalformed, err)
	}

	threshold := int(p.readThreshold.Load())
	reader := bytes.NewReader(body)
	if threshold < 0 {
		return decodeUncompressed(reader, packetLength)
	}

	dataLength, err := ns.DecodeVarInt(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read data length: %v", protoerr.ErrMalformed, err)
	}
	if dataLength == 0 {
		return decodeUncompressed(reader, packetLength)
	}
	if int(dataLength) < threshold {
		return nil, fmt.Errorf("%w: %d bytes declared, threshold %d", protoerr.ErrBadCompressedThreshold, dataLength, threshold)
	}
	if int(dataLength) > MaxFrameLength {
		return nil, fmt.Errorf("%w: decompressed %d bytes", protoerr.ErrFrameTooLarge, dataLength)
	}

	compressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protoerr.ErrMalformed, err)
	}
	uncompressed, err := inflate(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %v", protoerr.ErrMalformed, err)
	}
	if len(uncompressed) != int(dataLength) {
		return nil, fmt.Errorf("%w: declared %d, got %d uncompressed bytes", protoerr.ErrMalformed, dataLength, len(uncompressed))
	}

	ur := bytes.NewReader(uncompressed)
	packetID, err := ns.DecodeVarInt(ur)
	if err != nil {
		return nil, fmt.Errorf("%w: read packet id: %v", protoerr.ErrMalformed, err)
	}
	rest, err := io.ReadAll(ur)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protoerr.ErrMalformed, err)
	}
	return &packets.WirePacket{Length: packetLength, PacketID: packetID, Data: ns.ByteArray(rest)}, nil
}

func decodeUncompressed(reader *bytes.Reader, length ns.VarInt) (*packets.WirePacket, error) {
	packetID, err := ns.DecodeVarInt(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read packet id: %v", protoerr.ErrMalformed, err)
	}
	rest, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protoerr.ErrMalformed, err)
	}
	return &packets.WirePacket{Length: length, PacketID: packetID, Data: ns.ByteArray(rest)}, nil
}

// WriteFrame serializes pkt and writes it, applying whatever write
// compression threshold is currently set. Safe for concurrent callers;
// frames are written atomically with respect to one another.
func (p *Pipeline) WriteFrame(pkt packets.Packet) error {
	wire, err := packets.ToWire(pkt)
	if err != nil {
		return fmt.Errorf("encode %T: %w", pkt, err)
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return wire.WriteTo(p.bw, int(p.writeThreshold.Load()))
}

// WriteRaw writes a frame that has already been serialized and, if
// applicable, compressed (via packets.WirePacket.Bytes) exactly as-is.
// Used for broadcast fan-out, where the same frame is written to many
// connections without re-encoding it per recipient; each connection's
// encryption, if enabled, still applies independently as the bytes pass
// through p.bw.
func (p *Pipeline) WriteRaw(frame []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, err := p.bw.Write(frame)
	return err
}

// SetReadDeadline forwards to the underlying connection, used by the
// pre-Play states to bound how long a stalled client can hold a
// connection open.
func (p *Pipeline) SetReadDeadline(t time.Time) error { return p.raw.SetReadDeadline(t) }

// Close closes the underlying connection.
func (p *Pipeline) Close() error { return p.raw.Close() }

// RemoteAddr returns the underlying connection's remote address.
func (p *Pipeline) RemoteAddr() net.Addr { return p.raw.RemoteAddr() }

// LocalAddr returns the underlying connection's local address.
func (p *Pipeline) LocalAddr() net.Addr { return p.raw.LocalAddr() }

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}
