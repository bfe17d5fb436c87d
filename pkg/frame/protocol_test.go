package frame

import "testing"

func TestProtocolEqual(t *testing.T) {
	a := Protocol{Port: 10, Name: "FOO", PayloadLen: 4}
	same := Protocol{Port: 10, Name: "FOO", PayloadLen: 4}
	diffName := Protocol{Port: 10, Name: "BAR", PayloadLen: 4}
	diffLen := Protocol{Port: 10, Name: "FOO", PayloadLen: 5}

	if !a.Equal(same) {
		t.Error("identical descriptors should be Equal")
	}
	if a.Equal(diffName) {
		t.Error("descriptors with different names should not be Equal")
	}
	if a.Equal(diffLen) {
		t.Error("descriptors with different payload lengths should not be Equal")
	}
}

func TestReservedProtocolPayloadLens(t *testing.T) {
	tests := []struct {
		proto Protocol
		want  int
	}{
		{PingProtocol, 5},
		{PongProtocol, 14},
		{ConfigOverrideProtocol, 228},
		{TextChatProtocol, 112},
		{SignedTextChatProtocol, 230},
	}
	for _, tc := range tests {
		if tc.proto.PayloadLen != tc.want {
			t.Errorf("%s.PayloadLen = %d, want %d", tc.proto.Name, tc.proto.PayloadLen, tc.want)
		}
	}
}
