package frame

import (
	"encoding/binary"
	"math"
)

// Typed payload layouts for the reserved ports (§6, §8 scenario 1 and 6).
// Each Encode/Decode pair compiles the layout to bounds-checked
// constructors per §9 "Payload packing": fixed-width byte-array fields are
// zero-padded on encode and zero-stripped on decode.

const (
	aliasLen = 10

	pingPayloadLen           = 4 + 1            // target address, sender seq
	pongPayloadLen           = 4 + 1 + 1 + 4 + 4 // target, ttl at ping, seq, rssi, snr
	configOverridePayloadLen = 128 + 20 + 80     // signature, key, value
	textChatPayloadLen       = 2 + aliasLen + 100
	signedTextChatPayloadLen = 2 + aliasLen + 128 + 90
)

// Ping is the PING payload: a request that target reply with a PONG
// carrying seq.
type Ping struct {
	Target uint32
	Seq    uint8
}

func (p Ping) Encode() []byte {
	buf := make([]byte, pingPayloadLen)
	binary.BigEndian.PutUint32(buf[0:4], p.Target)
	buf[4] = p.Seq
	return buf
}

func DecodePing(data []byte) Ping {
	return Ping{
		Target: binary.BigEndian.Uint32(data[0:4]),
		Seq:    data[4],
	}
}

// Pong is the PONG reply: echoes the originator's seq along with the TTL
// the PING arrived with and this node's last RSSI/SNR readings.
type Pong struct {
	Target    uint32
	TTLAtPing uint8
	Seq       uint8
	RSSI      float32
	SNR       float32
}

func (p Pong) Encode() []byte {
	buf := make([]byte, pongPayloadLen)
	binary.BigEndian.PutUint32(buf[0:4], p.Target)
	buf[4] = p.TTLAtPing
	buf[5] = p.Seq
	binary.BigEndian.PutUint32(buf[6:10], math.Float32bits(p.RSSI))
	binary.BigEndian.PutUint32(buf[10:14], math.Float32bits(p.SNR))
	return buf
}

func DecodePong(data []byte) Pong {
	return Pong{
		Target:    binary.BigEndian.Uint32(data[0:4]),
		TTLAtPing: data[4],
		Seq:       data[5],
		RSSI:      math.Float32frombits(binary.BigEndian.Uint32(data[6:10])),
		SNR:       math.Float32frombits(binary.BigEndian.Uint32(data[10:14])),
	}
}

// ConfigOverride carries a signed remote configuration change: Key/Value
// are applied to the receiving node's config store (pkg/config) once
// Signature verifies (pkg/crypto), per §6's external signing collaborator.
type ConfigOverride struct {
	Signature [128]byte
	Key       string
	Value     []byte
}

func (c ConfigOverride) Encode() []byte {
	buf := make([]byte, configOverridePayloadLen)
	copy(buf[0:128], c.Signature[:])
	copy(buf[128:148], packFixed(c.Key, 20))
	copy(buf[148:228], packFixedBytes(c.Value, 80))
	return buf
}

func DecodeConfigOverride(data []byte) ConfigOverride {
	var c ConfigOverride
	copy(c.Signature[:], data[0:128])
	c.Key = unpackFixed(data[128:148])
	c.Value = unpackFixedBytes(data[148:228])
	return c
}

// TextChat is the unsigned chat payload.
type TextChat struct {
	Channel uint16
	Alias   string
	Text    string
}

func (t TextChat) Encode() []byte {
	buf := make([]byte, textChatPayloadLen)
	binary.BigEndian.PutUint16(buf[0:2], t.Channel)
	copy(buf[2:2+aliasLen], packFixed(t.Alias, aliasLen))
	copy(buf[2+aliasLen:], packFixed(t.Text, 100))
	return buf
}

func DecodeTextChat(data []byte) TextChat {
	return TextChat{
		Channel: binary.BigEndian.Uint16(data[0:2]),
		Alias:   unpackFixed(data[2 : 2+aliasLen]),
		Text:    unpackFixed(data[2+aliasLen:]),
	}
}

// SignedTextChat is the authenticated chat payload (§6); Signature is
// verified against Channel+Alias+Text by the external signing
// collaborator before the text is trusted.
type SignedTextChat struct {
	Channel   uint16
	Alias     string
	Signature [128]byte
	Text      string
}

func (s SignedTextChat) Encode() []byte {
	buf := make([]byte, signedTextChatPayloadLen)
	binary.BigEndian.PutUint16(buf[0:2], s.Channel)
	copy(buf[2:2+aliasLen], packFixed(s.Alias, aliasLen))
	copy(buf[2+aliasLen:2+aliasLen+128], s.Signature[:])
	copy(buf[2+aliasLen+128:], packFixed(s.Text, 90))
	return buf
}

func DecodeSignedTextChat(data []byte) SignedTextChat {
	var s SignedTextChat
	s.Channel = binary.BigEndian.Uint16(data[0:2])
	s.Alias = unpackFixed(data[2 : 2+aliasLen])
	copy(s.Signature[:], data[2+aliasLen:2+aliasLen+128])
	s.Text = unpackFixed(data[2+aliasLen+128:])
	return s
}

// packFixed zero-pads s to exactly n bytes, truncating if too long.
func packFixed(s string, n int) []byte {
	return packFixedBytes([]byte(s), n)
}

func packFixedBytes(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}

// unpackFixed trims trailing zero bytes from a fixed-width field.
func unpackFixed(b []byte) string {
	return string(unpackFixedBytes(b))
}

func unpackFixedBytes(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	out := make([]byte, end)
	copy(out, b[:end])
	return out
}
