package netcore

import "math/rand"

// RandomSource provides the jitter source for the transmit pump's
// channel-busy backoff (§4.C transmit pump step 6: "suspend for a random
// 0-10ms interval and retry the scan"). Injectable so tests can make the
// backoff deterministic; this mirrors the retrieved Matter stack's
// exchange.RandomSource seam for MRP retransmit jitter, generalized here
// to the carrier-sense backoff.
type RandomSource interface {
	// Float64 returns a random value in [0.0, 1.0).
	Float64() float64
}

type defaultRandomSource struct{}

func (defaultRandomSource) Float64() float64 { return rand.Float64() }

// DefaultRandomSource is the production jitter source, backed by
// math/rand.
var DefaultRandomSource RandomSource = defaultRandomSource{}
