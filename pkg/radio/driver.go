// Package radio defines the half-duplex LoRa transceiver contract the
// network core consumes (§4.B, §6) and ships a simulated driver usable in
// tests without real SX1262 hardware. The raw SPI/GPIO bring-up of the
// transceiver is an explicit non-goal (spec.md §1); this package only
// carries the asynchronous abstraction above it.
package radio

import "context"

// ChannelState is the result of a non-suspending carrier-sense probe
// (§6 "scan_channel() → {free, busy, error}").
type ChannelState int

const (
	ChannelFree ChannelState = iota
	ChannelBusy
)

func (s ChannelState) String() string {
	if s == ChannelFree {
		return "free"
	}
	return "busy"
}

// Driver is the thin asynchronous abstraction the network core consumes
// (§4.B). The core never issues overlapping Send/Recv calls; a driver
// implementation must internally serialize the two since the underlying
// radio is strictly half-duplex (§5 "Shared-resource policy").
type Driver interface {
	// Recv suspends until a frame arrives from the air, or ctx is
	// cancelled. A non-nil error is a receive fault and is fatal to the
	// network core's receive pump (§4.C, §7).
	Recv(ctx context.Context) ([]byte, error)

	// Send suspends until transmission of frame completes. A non-nil
	// error is logged and the frame is dropped without retry (§7).
	Send(ctx context.Context, frame []byte) error

	// ScanChannel performs a quick, non-suspending carrier-sense probe.
	ScanChannel() (ChannelState, error)

	// RSSI and SNR report the last received packet's quality metrics.
	RSSI() float64
	SNR() float64

	// SetFrequency tunes the radio to mhz, which must equal one of the
	// 52 slot-defined frequencies in the 902-928MHz band (§6, FrequencyForSlot).
	SetFrequency(mhz float64) error

	// SetTXPower configures the transmit power in dBm.
	SetTXPower(dBm int) error
}
