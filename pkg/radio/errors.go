package radio

import "errors"

var (
	// ErrInvalidSlot is returned when a requested frequency does not
	// correspond to one of the 52 defined 902-928MHz slots (§8 boundary
	// behaviors: "k outside [1,52] rejected").
	ErrInvalidSlot = errors.New("radio: frequency slot outside [1,52]")

	// ErrInvalidFrequency is returned by SetFrequency when mhz does not
	// land on a defined slot center frequency.
	ErrInvalidFrequency = errors.New("radio: frequency does not match a defined channel slot")

	// ErrClosed is returned by a simulated driver after Close.
	ErrClosed = errors.New("radio: driver closed")
)
