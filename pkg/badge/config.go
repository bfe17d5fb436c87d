package badge

import (
	"github.com/kcriqui/badgenet/pkg/config"
	"github.com/kcriqui/badgenet/pkg/crypto"
	"github.com/kcriqui/badgenet/pkg/netcore"
	"github.com/kcriqui/badgenet/pkg/radio"
	"github.com/pion/logging"
)

// Config assembles everything Node needs to bring a badge up: the
// external collaborators (radio, config store, hardware identity,
// signing key) plus the network core's tunables, mirroring the
// teacher's NodeConfig (radio/transport and storage wired in, the rest
// left at §4.C/§6 documented defaults).
type Config struct {
	// Radio is the half-duplex driver the network core sends/receives
	// through (§6 "Radio driver contract").
	Radio radio.Driver

	// HardwareID supplies the unique identifier the node's address is
	// derived from (§3 "Node identity"). Required.
	HardwareID HardwareIDProvider

	// Store is the configuration store external collaborator (§6). If
	// nil, a MemoryStore is used.
	Store config.Store

	// Verifier authenticates CONFIG_OVERRIDE frames (§6). A nil Verifier
	// disables CONFIG_OVERRIDE application (frames are still received
	// and forwarded, never applied).
	Verifier crypto.Verifier

	// Core carries the network core's tunables (queue bounds, cache
	// expiry, cooldowns). OwnAddress and LoggerFactory are overwritten
	// by New from HardwareID and LoggerFactory below.
	Core netcore.Config

	LoggerFactory logging.LoggerFactory
}

func (c *Config) validate() error {
	if c.Radio == nil {
		return ErrInvalidConfig
	}
	if c.HardwareID == nil {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Store == nil {
		c.Store = config.NewMemoryStore()
	}
}
