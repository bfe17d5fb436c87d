package badge

import (
	"crypto/sha256"
	"encoding/binary"
)

// HardwareIDProvider returns a unique, stable identifier for the host
// this process runs on. The original firmware uses
// `machine.unique_id()`, the microcontroller's factory-programmed
// silicon ID; a process running on general-purpose hardware has no
// single equivalent, so callers supply whatever stable identifier their
// platform offers (a persisted random value, a machine-id file, a MAC
// address).
type HardwareIDProvider interface {
	HardwareID() ([]byte, error)
}

// AddressFromHardwareID derives the node's 32-bit address from a unique
// hardware identifier (spec.md §3 "Node identity"). The original
// firmware takes bytes [2:6] directly from an 8-byte silicon ID; since
// HardwareIDProvider implementations may return IDs of any length, this
// hashes the ID first (SHA-256) and takes the same byte window from the
// digest, preserving the original's "middle four bytes of a unique ID"
// construction while working for IDs of arbitrary length.
func AddressFromHardwareID(id []byte) uint32 {
	sum := sha256.Sum256(id)
	return binary.BigEndian.Uint32(sum[2:6])
}
