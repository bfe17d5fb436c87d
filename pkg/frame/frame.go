package frame

import "encoding/binary"

// Frame is the in-memory representation of a badgenet network frame. It
// keeps the raw wire bytes alongside the decoded header, following the
// lazy-decode design from §9: validation (syncword, length, checksum)
// happens once in Decode; decoding a typed payload is left to the caller,
// so frames that are only being forwarded never pay that cost.
type Frame struct {
	raw []byte

	validated bool
	fieldsSet bool

	Header  Header
	Payload []byte // exactly Header.TotalLen-HeaderLen bytes
}

// Validated reports whether this frame passed Decode's validation.
func (f *Frame) Validated() bool { return f.validated }

// FieldsSet reports whether Header/Payload reflect the raw bytes.
func (f *Frame) FieldsSet() bool { return f.fieldsSet }

// EncodeParams are the inputs to Encode (§4.A "Encode contract").
type EncodeParams struct {
	Destination uint32
	Source      uint32
	Port        uint8
	TTL         uint8
	Seq         uint8

	// Payload is the raw protocol payload. Shorter than PayloadLen is
	// zero-padded; longer than PayloadLen fails encoding.
	Payload    []byte
	PayloadLen int
}

// Encode serializes p into wire bytes, computing the CRC-16/XMODEM
// checksum over bytes [5:end] and writing it into the checksum field. The
// returned Frame is already validated, satisfying the encode contract's
// round-trip guarantee (§8 invariant 1).
func Encode(p EncodeParams) (*Frame, error) {
	if p.TTL > 0x0F {
		return nil, ErrInvalidTTL
	}
	if len(p.Payload) > p.PayloadLen {
		return nil, ErrPayloadTooLong
	}
	payload := p.Payload
	if len(payload) < p.PayloadLen {
		padded := make([]byte, p.PayloadLen)
		copy(padded, payload)
		payload = padded
	}

	totalLen := HeaderLen + len(payload)
	if totalLen > MaxFrameLen {
		return nil, ErrTooLong
	}

	buf := make([]byte, totalLen)
	h := Header{
		TTL:         p.TTL,
		TotalLen:    uint8(totalLen),
		Destination: p.Destination,
		Source:      p.Source,
		Port:        p.Port,
		Seq:         p.Seq,
	}
	h.EncodeTo(buf)
	copy(buf[HeaderLen:], payload)

	checksum := CRC16XModem(buf[5:])
	binary.BigEndian.PutUint16(buf[ChecksumOffset:ChecksumOffset+2], checksum)
	h.Checksum = checksum

	return &Frame{
		raw:       buf,
		validated: true,
		fieldsSet: true,
		Header:    h,
		Payload:   buf[HeaderLen:],
	}, nil
}

// Decode parses and validates wire bytes per the validation order in
// §4.A: (1) length >= 16, (2) length <= 250, (3) syncword, (4) declared
// length in [16,250], (5) actual length >= declared (truncate if longer),
// (6) checksum. Any failure discards the frame before it ever reaches the
// duplicate cache.
func Decode(data []byte) (*Frame, error) {
	if len(data) < HeaderLen {
		return nil, ErrTooShort
	}
	if len(data) > MaxFrameLen {
		return nil, ErrTooLong
	}
	if data[0] != Syncword[0] || data[1] != Syncword[1] {
		return nil, ErrBadSyncword
	}

	declaredLen := int(data[5])
	if declaredLen < HeaderLen || declaredLen > MaxFrameLen {
		return nil, ErrBadDeclaredLen
	}
	if len(data) < declaredLen {
		return nil, ErrTruncated
	}
	if len(data) > declaredLen {
		data = data[:declaredLen]
	}

	claimed := binary.BigEndian.Uint16(data[2:4])
	computed := CRC16XModem(data[5:])
	if claimed != computed {
		return nil, ErrChecksum
	}

	h := DecodeHeader(data)
	return &Frame{
		raw:       data,
		validated: true,
		fieldsSet: true,
		Header:    h,
		Payload:   data[HeaderLen:],
	}, nil
}

// Bytes returns the frame's wire-format bytes.
func (f *Frame) Bytes() []byte { return f.raw }

// WithSource returns a copy of f with Source set to addr and the checksum
// recomputed. Unlike TTL, the source address lies inside the CRC-covered
// region, so any change to it requires recomputing the checksum (§4.C
// transmit-pump step 1).
func (f *Frame) WithSource(addr uint32) *Frame {
	raw := make([]byte, len(f.raw))
	copy(raw, f.raw)
	binary.BigEndian.PutUint32(raw[10:14], addr)

	checksum := CRC16XModem(raw[5:])
	binary.BigEndian.PutUint16(raw[ChecksumOffset:ChecksumOffset+2], checksum)

	h := f.Header
	h.Source = addr
	h.Checksum = checksum
	return &Frame{
		raw:       raw,
		validated: true,
		fieldsSet: true,
		Header:    h,
		Payload:   raw[HeaderLen:],
	}
}

// Retransmit applies the TTL-decrement forwarding transform (§4.A). It
// returns ok=false when the frame must not be forwarded: destination is
// ownAddress, or TTL is already 0. Otherwise it returns a new frame with
// TTL decremented by one and the checksum left untouched, preserving
// dedup identity across hops (§9 "Retransmit correctness").
func (f *Frame) Retransmit(ownAddress uint32) (fwd *Frame, ok bool) {
	if f.Header.Destination == ownAddress {
		return nil, false
	}
	if f.Header.TTL == 0 {
		return nil, false
	}

	raw := make([]byte, len(f.raw))
	copy(raw, f.raw)
	raw[4] = (raw[4] &^ 0x0F) | (f.Header.TTL - 1)

	h := f.Header
	h.TTL--
	return &Frame{
		raw:       raw,
		validated: true,
		fieldsSet: true,
		Header:    h,
		Payload:   raw[HeaderLen:],
	}, true
}

// IsForMe reports whether the frame is addressed to ownAddress or is a
// broadcast, and did not originate from ownAddress itself. The exclusion
// of self-originated traffic mirrors the reference firmware's
// check_for_me, which never dispatches a node's own transmissions back to
// itself even if it somehow observes them.
func (f *Frame) IsForMe(ownAddress uint32) bool {
	dst := f.Header.Destination
	return (dst == ownAddress || dst == BroadcastAddress) && f.Header.Source != ownAddress
}
