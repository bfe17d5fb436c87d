package frame

// Reserved 8-bit ports (§6). Application-chosen ports must avoid these.
const (
	PortUnknown        uint8 = 0
	PortPing           uint8 = 1
	PortPong           uint8 = 2
	PortConfigOverride uint8 = 4
	PortTextChat       uint8 = 6
	PortSignedTextChat uint8 = 7
)

// Protocol is a registered payload layout for a port (§3 "Protocol
// descriptor"): analogous to a C struct with big-endian scalars and
// fixed-width byte arrays. PayloadLen is the layout's fixed serialized
// length.
type Protocol struct {
	Port       uint8
	Name       string
	PayloadLen int
}

// Equal reports whether two descriptors are interchangeable registrations
// for the same port: same name and payload length. Two descriptors that
// share a port but disagree on either are a conflicting redefinition (§3,
// §8 "Double-registering").
func (p Protocol) Equal(o Protocol) bool {
	return p.Port == o.Port && p.Name == o.Name && p.PayloadLen == o.PayloadLen
}

// UnknownProtocol is the catch-all descriptor for port 0: it matches any
// undecodable payload up to the maximum frame payload size, and is
// preregistered so the "unknown protocol" variant always has somewhere to
// keep the raw bytes for forwarding (§9 "Dynamic dispatch").
var UnknownProtocol = Protocol{
	Port:       PortUnknown,
	Name:       "UNKNOWN_PROTOCOL",
	PayloadLen: MaxFrameLen - HeaderLen,
}

// PingProtocol, PongProtocol, ConfigOverrideProtocol, TextChatProtocol, and
// SignedTextChatProtocol are the reserved-port descriptors from §6,
// exposed so applications (and pkg/badge's bootstrap) register them
// verbatim rather than re-deriving PayloadLen by hand.
var (
	PingProtocol = Protocol{Port: PortPing, Name: "PING", PayloadLen: pingPayloadLen}

	PongProtocol = Protocol{Port: PortPong, Name: "PONG", PayloadLen: pongPayloadLen}

	ConfigOverrideProtocol = Protocol{Port: PortConfigOverride, Name: "CONFIG_OVERRIDE", PayloadLen: configOverridePayloadLen}

	TextChatProtocol = Protocol{Port: PortTextChat, Name: "TEXT_CHAT", PayloadLen: textChatPayloadLen}

	SignedTextChatProtocol = Protocol{Port: PortSignedTextChat, Name: "SIGNED_TEXT_CHAT", PayloadLen: signedTextChatPayloadLen}
)
