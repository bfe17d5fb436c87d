package radio

// Modem and power-level defaults recovered from the original firmware's
// lora.py (supplemented per SPEC_FULL.md E.3; the raw SPI/GPIO bring-up
// that applies them is out of this module's scope). They are exposed so
// the simulated driver's fixtures resemble the real radio's defaults and
// so applications can select a named power preset the way the original
// UI does.
const (
	DefaultSpreadingFactor = 7
	DefaultBandwidthHz     = 500_000
	DefaultCodingRate      = 5
	DefaultPreambleLength  = 16

	// DefaultModemSyncWord is the LoRa modem's own hardware sync word
	// byte, distinct from badgenet's wire-frame Syncword (pkg/frame):
	// this one is consumed by the radio chip itself before a badgenet
	// frame is ever assembled.
	DefaultModemSyncWord = 0x12
)

// TXPowerPreset names one of the original firmware's named RF power
// levels.
type TXPowerPreset string

const (
	TXPowerLow    TXPowerPreset = "low"
	TXPowerMiddle TXPowerPreset = "middle"
	TXPowerMax    TXPowerPreset = "max"
)

var txPowerPresetDBm = map[TXPowerPreset]int{
	TXPowerLow:    2,
	TXPowerMiddle: 9,
	TXPowerMax:    20,
}

// DBm returns the preset's transmit power in dBm, and false if p names no
// known preset.
func (p TXPowerPreset) DBm() (int, bool) {
	v, ok := txPowerPresetDBm[p]
	return v, ok
}
