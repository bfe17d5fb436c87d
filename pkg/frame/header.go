package frame

import "encoding/binary"

// Wire layout constants (§3). All multi-byte integers are big-endian.
const (
	HeaderLen      = 16
	MaxFrameLen    = 250
	ChecksumOffset = 2

	// BroadcastAddress is the reserved destination meaning "every node".
	BroadcastAddress uint32 = 0xFFFFFFFF
)

// Syncword is the constant 2-byte marker at the start of every frame.
var Syncword = [2]byte{0x07, 0xE9}

// Header holds the decoded fixed fields of a badgenet frame. Checksum
// covers bytes [5:end] of the wire frame; the Flags/TTL byte at offset 4
// is intentionally outside that coverage so the retransmit transform can
// decrement TTL without touching the checksum (§4.A "Retransmit
// transform", §9 "Retransmit correctness").
type Header struct {
	Checksum    uint16
	TTL         uint8
	TotalLen    uint8
	Destination uint32
	Source      uint32
	Port        uint8
	Seq         uint8
}

// EncodeTo writes the 16-byte header into buf[:HeaderLen], including
// whatever checksum value h currently holds. Callers finalize the
// checksum after the payload is in place and patch bytes [2:4]
// separately, since the checksum covers header and payload together.
func (h *Header) EncodeTo(buf []byte) {
	buf[0] = Syncword[0]
	buf[1] = Syncword[1]
	binary.BigEndian.PutUint16(buf[2:4], h.Checksum)
	buf[4] = h.TTL & 0x0F
	buf[5] = h.TotalLen
	binary.BigEndian.PutUint32(buf[6:10], h.Destination)
	binary.BigEndian.PutUint32(buf[10:14], h.Source)
	buf[14] = h.Port
	buf[15] = h.Seq
}

// DecodeHeader parses the fixed header fields out of buf. The caller must
// have already validated length and syncword.
func DecodeHeader(buf []byte) Header {
	return Header{
		Checksum:    binary.BigEndian.Uint16(buf[2:4]),
		TTL:         buf[4] & 0x0F,
		TotalLen:    buf[5],
		Destination: binary.BigEndian.Uint32(buf[6:10]),
		Source:      binary.BigEndian.Uint32(buf[10:14]),
		Port:        buf[14],
		Seq:         buf[15],
	}
}
