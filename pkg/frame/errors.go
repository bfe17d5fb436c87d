// Package frame implements the badgenet wire format: encoding, decoding,
// validation, and the retransmit transform used by the mesh's flood
// forwarding. See the network core in pkg/netcore for how frames flow
// through the receive and transmit pumps.
package frame

import "errors"

// Decode/encode errors. Each carries a categorical reason per the frame
// codec's decode contract; none of them are recoverable for the frame in
// question (the frame is discarded).
var (
	ErrTooShort         = errors.New("frame: shorter than the 16-byte header")
	ErrTooLong          = errors.New("frame: exceeds the 250-byte maximum LoRa frame length")
	ErrBadSyncword      = errors.New("frame: syncword mismatch")
	ErrBadDeclaredLen   = errors.New("frame: declared length outside [16,250]")
	ErrTruncated        = errors.New("frame: actual length shorter than declared length")
	ErrChecksum         = errors.New("frame: checksum mismatch")
	ErrPayloadTooLong   = errors.New("frame: payload exceeds the protocol's declared length")
	ErrInvalidTTL       = errors.New("frame: ttl outside [0,15]")
	ErrUnknownProtocol  = errors.New("frame: no protocol registered for port")
	ErrProtocolConflict = errors.New("frame: port already registered with a different name or payload length")
)
