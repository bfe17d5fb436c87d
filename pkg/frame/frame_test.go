package frame

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f, err := Encode(EncodeParams{
		Destination: BroadcastAddress,
		Source:      0xAAAAAAAA,
		Port:        PortTextChat,
		TTL:         3,
		Seq:         42,
		Payload:     TextChat{Channel: 901, Alias: "alice", Text: "hi"}.Encode(),
		PayloadLen:  TextChatProtocol.PayloadLen,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(f.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Header != f.Header {
		t.Errorf("header mismatch: got %+v, want %+v", got.Header, f.Header)
	}
	if !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("payload mismatch: got %x, want %x", got.Payload, f.Payload)
	}
	if got.Header.Checksum != CRC16XModem(f.Bytes()[5:]) {
		t.Errorf("checksum does not cover bytes[5:]: got %#04x", got.Header.Checksum)
	}
}

// TestOriginationRoundTrip mirrors spec scenario 1's literal on-air bytes.
func TestOriginationRoundTrip(t *testing.T) {
	payload := TextChat{Channel: 901, Alias: "alice", Text: "hi"}.Encode()
	f, err := Encode(EncodeParams{
		Destination: BroadcastAddress,
		Source:      0xAAAAAAAA,
		Port:        PortTextChat,
		TTL:         3,
		Seq:         0,
		Payload:     payload,
		PayloadLen:  TextChatProtocol.PayloadLen,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	b := f.Bytes()
	if len(b) != 128 {
		t.Fatalf("total length = %d, want 128", len(b))
	}
	if b[0] != 0x07 || b[1] != 0xE9 {
		t.Errorf("syncword = % x, want 07 e9", b[0:2])
	}
	if b[4] != 0x03 {
		t.Errorf("flags/ttl = %#02x, want 0x03", b[4])
	}
	if b[5] != 128 {
		t.Errorf("total length field = %d, want 128", b[5])
	}
	if !bytes.Equal(b[6:10], []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("destination = % x, want broadcast", b[6:10])
	}
	if !bytes.Equal(b[10:14], []byte{0xAA, 0xAA, 0xAA, 0xAA}) {
		t.Errorf("source = % x, want AAAAAAAA", b[10:14])
	}
	if b[14] != PortTextChat {
		t.Errorf("port = %d, want %d", b[14], PortTextChat)
	}
	want := CRC16XModem(b[5:])
	got := uint16(b[2])<<8 | uint16(b[3])
	if got != want {
		t.Errorf("checksum = %#04x, want %#04x", got, want)
	}
}

func TestDecodeRejectsBadSyncword(t *testing.T) {
	f, err := Encode(EncodeParams{Destination: 1, Source: 2, Port: PortPing, TTL: 1, PayloadLen: PingProtocol.PayloadLen, Payload: Ping{}.Encode()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := f.Bytes()
	b[0] ^= 0xFF
	if _, err := Decode(b); err != ErrBadSyncword {
		t.Errorf("Decode with corrupted syncword = %v, want ErrBadSyncword", err)
	}
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	f, err := Encode(EncodeParams{Destination: 1, Source: 2, Port: PortPing, TTL: 1, PayloadLen: PingProtocol.PayloadLen, Payload: Ping{}.Encode()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := f.Bytes()
	b[len(b)-1] ^= 0xFF
	if _, err := Decode(b); err != ErrChecksum {
		t.Errorf("Decode with corrupted payload = %v, want ErrChecksum", err)
	}
}

func TestDecodeTruncatesTrailingBytes(t *testing.T) {
	f, err := Encode(EncodeParams{Destination: 1, Source: 2, Port: PortPing, TTL: 1, PayloadLen: PingProtocol.PayloadLen, Payload: Ping{}.Encode()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	withTrailer := append(append([]byte{}, f.Bytes()...), 0xDE, 0xAD)
	got, err := Decode(withTrailer)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Bytes()) != len(f.Bytes()) {
		t.Errorf("trailing bytes not truncated: got len %d, want %d", len(got.Bytes()), len(f.Bytes()))
	}
}

// Boundary: frame length = 16 is valid iff payload declared length = 0.
func TestBoundaryMinimumFrameLength(t *testing.T) {
	f, err := Encode(EncodeParams{Destination: 1, Source: 2, Port: PortUnknown, TTL: 0, PayloadLen: 0})
	if err != nil {
		t.Fatalf("Encode zero-payload frame: %v", err)
	}
	if len(f.Bytes()) != HeaderLen {
		t.Fatalf("len = %d, want %d", len(f.Bytes()), HeaderLen)
	}
	if _, err := Decode(f.Bytes()); err != nil {
		t.Errorf("Decode minimal frame: %v", err)
	}
}

// Boundary: frame length = 250 is the maximum permitted; 251 is rejected.
func TestBoundaryMaximumFrameLength(t *testing.T) {
	maxPayload := MaxFrameLen - HeaderLen
	f, err := Encode(EncodeParams{Destination: 1, Source: 2, Port: PortUnknown, TTL: 0, PayloadLen: maxPayload})
	if err != nil {
		t.Fatalf("Encode max-length frame: %v", err)
	}
	if len(f.Bytes()) != MaxFrameLen {
		t.Fatalf("len = %d, want %d", len(f.Bytes()), MaxFrameLen)
	}

	_, err = Encode(EncodeParams{Destination: 1, Source: 2, Port: PortUnknown, TTL: 0, PayloadLen: maxPayload + 1})
	if err != ErrTooLong {
		t.Errorf("Encode over-max frame = %v, want ErrTooLong", err)
	}
}

func TestRetransmitTTLDecrement(t *testing.T) {
	tests := []struct {
		name    string
		ttl     uint8
		wantOK  bool
		wantTTL uint8
	}{
		{"ttl15 forwards to 14", 15, true, 14},
		{"ttl1 forwards to 0", 1, true, 0},
		{"ttl0 never forwards", 0, false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Encode(EncodeParams{Destination: BroadcastAddress, Source: 0x1, Port: PortUnknown, TTL: tc.ttl})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			fwd, ok := f.Retransmit(0x2)
			if ok != tc.wantOK {
				t.Fatalf("Retransmit ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if fwd.Header.TTL != tc.wantTTL {
				t.Errorf("forwarded TTL = %d, want %d", fwd.Header.TTL, tc.wantTTL)
			}
			if fwd.Header.Checksum != f.Header.Checksum {
				t.Errorf("retransmit changed checksum: got %#04x, want %#04x (TTL lies outside CRC coverage)",
					fwd.Header.Checksum, f.Header.Checksum)
			}
		})
	}
}

func TestRetransmitNeverForwardsToDestination(t *testing.T) {
	f, err := Encode(EncodeParams{Destination: 0x2, Source: 0x1, Port: PortUnknown, TTL: 5})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, ok := f.Retransmit(0x2); ok {
		t.Error("Retransmit forwarded a frame destined for ownAddress")
	}
}

func TestIsForMe(t *testing.T) {
	tests := []struct {
		name        string
		destination uint32
		source      uint32
		own         uint32
		want        bool
	}{
		{"unicast to self", 0x2, 0x1, 0x2, true},
		{"broadcast", BroadcastAddress, 0x1, 0x2, true},
		{"unicast to other", 0x3, 0x1, 0x2, false},
		{"self-originated broadcast never dispatched back", BroadcastAddress, 0x2, 0x2, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Encode(EncodeParams{Destination: tc.destination, Source: tc.source, Port: PortUnknown, TTL: 0})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := f.IsForMe(tc.own); got != tc.want {
				t.Errorf("IsForMe(%#x) = %v, want %v", tc.own, got, tc.want)
			}
		})
	}
}

func TestWithSourceRecomputesChecksum(t *testing.T) {
	f, err := Encode(EncodeParams{Destination: BroadcastAddress, Source: 0, Port: PortUnknown, TTL: 0})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	stamped := f.WithSource(0xAAAAAAAA)
	if stamped.Header.Source != 0xAAAAAAAA {
		t.Errorf("Source = %#x, want 0xAAAAAAAA", stamped.Header.Source)
	}
	want := CRC16XModem(stamped.Bytes()[5:])
	if stamped.Header.Checksum != want {
		t.Errorf("checksum = %#04x, want %#04x", stamped.Header.Checksum, want)
	}
}

func TestSequenceWrapsWithoutSideEffect(t *testing.T) {
	var seq SequenceCounter
	for i := 0; i < 255; i++ {
		seq.Next()
	}
	if got := seq.Next(); got != 255 {
		t.Fatalf("seq at 256th call = %d, want 255", got)
	}
	if got := seq.Next(); got != 0 {
		t.Fatalf("seq wrapped to %d, want 0", got)
	}
}
