package frame

import "testing"

func TestPingRoundTrip(t *testing.T) {
	p := Ping{Target: 0xDEADBEEF, Seq: 7}
	got := DecodePing(p.Encode())
	if got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestPongRoundTrip(t *testing.T) {
	p := Pong{Target: 0xAAAAAAAA, TTLAtPing: 7, Seq: 7, RSSI: -42.5, SNR: 9.25}
	got := DecodePong(p.Encode())
	if got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestTextChatRoundTrip(t *testing.T) {
	tc := TextChat{Channel: 901, Alias: "alice", Text: "hi"}
	got := DecodeTextChat(tc.Encode())
	if got != tc {
		t.Errorf("round trip = %+v, want %+v", got, tc)
	}
}

func TestTextChatAliasTruncatesAndPads(t *testing.T) {
	tc := TextChat{Channel: 1, Alias: "this-alias-is-too-long", Text: "x"}
	enc := tc.Encode()
	if len(enc) != textChatPayloadLen {
		t.Fatalf("encoded length = %d, want %d", len(enc), textChatPayloadLen)
	}
	got := DecodeTextChat(enc)
	if len(got.Alias) != aliasLen {
		t.Errorf("truncated alias length = %d, want %d", len(got.Alias), aliasLen)
	}
}

func TestConfigOverrideRoundTrip(t *testing.T) {
	co := ConfigOverride{Key: "radio_tx_power", Value: []byte{0x09}}
	for i := range co.Signature {
		co.Signature[i] = byte(i)
	}
	got := DecodeConfigOverride(co.Encode())
	if got.Key != co.Key {
		t.Errorf("Key = %q, want %q", got.Key, co.Key)
	}
	if string(got.Value) != string(co.Value) {
		t.Errorf("Value = %x, want %x", got.Value, co.Value)
	}
	if got.Signature != co.Signature {
		t.Error("Signature mismatch after round trip")
	}
}

func TestSignedTextChatRoundTrip(t *testing.T) {
	sc := SignedTextChat{Channel: 42, Alias: "bob", Text: "signed hello"}
	for i := range sc.Signature {
		sc.Signature[i] = byte(255 - i)
	}
	got := DecodeSignedTextChat(sc.Encode())
	if got.Channel != sc.Channel || got.Alias != sc.Alias || got.Text != sc.Text {
		t.Errorf("round trip = %+v, want %+v", got, sc)
	}
	if got.Signature != sc.Signature {
		t.Error("Signature mismatch after round trip")
	}
}
