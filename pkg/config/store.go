// Package config defines the configuration store external collaborator
// (§6): a string-keyed, byte-valued persistent map. Its internals
// (whatever the badge firmware actually uses to persist key/value pairs)
// are out of scope per spec.md §1; this package defines the contract and
// a couple of concrete implementations usable without real persistent
// storage hardware, plus typed accessors for the required keys.
package config

import (
	"strconv"
	"time"

	"github.com/pion/logging"
)

// Required configuration keys (§6).
const (
	KeyAlias          = "alias"
	KeyNametag        = "nametag"
	KeyRadioTXPower   = "radio_tx_power"
	KeyChatTTL        = "chat_ttl"
	KeySendCooldownMs = "send_cooldown_ms"
)

// Documented defaults for the required keys (§6).
const (
	DefaultRadioTXPowerDBm = 9
	DefaultChatTTL         = 3
	DefaultSendCooldownMs  = 0
)

// AliasMaxLen is the display alias's maximum length (§6 "alias (display
// name, <=10 chars)").
const AliasMaxLen = 10

// Store is the configuration store contract (§6). Unknown keys are
// permitted; implementations need not validate values, since typed
// accessors below are responsible for falling back to documented
// defaults on invalid data (§7 "Invalid configuration value").
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Flush() error
}

// Alias returns the alias key's value, truncated to AliasMaxLen bytes.
func Alias(s Store) string {
	v, ok := s.Get(KeyAlias)
	if !ok {
		return ""
	}
	if len(v) > AliasMaxLen {
		v = v[:AliasMaxLen]
	}
	return string(v)
}

// Nametag returns the nametag key's value.
func Nametag(s Store) string {
	v, _ := s.Get(KeyNametag)
	return string(v)
}

// RadioTXPower parses the radio_tx_power key as a signed decimal integer
// dBm, logging and falling back to DefaultRadioTXPowerDBm on any parse
// failure (§7).
func RadioTXPower(s Store, log logging.LeveledLogger) int {
	v, ok := s.Get(KeyRadioTXPower)
	if !ok {
		return DefaultRadioTXPowerDBm
	}
	n, err := strconv.Atoi(string(v))
	if err != nil {
		if log != nil {
			log.Warnf("invalid %s=%q, using default %d dBm: %v", KeyRadioTXPower, v, DefaultRadioTXPowerDBm, err)
		}
		return DefaultRadioTXPowerDBm
	}
	return n
}

// ChatTTL parses the chat_ttl key, clamped to [0,15] (§6 "chat_ttl
// (integer TTL for outgoing chat, default 3, clamped to [0,15])").
func ChatTTL(s Store, log logging.LeveledLogger) uint8 {
	v, ok := s.Get(KeyChatTTL)
	if !ok {
		return DefaultChatTTL
	}
	n, err := strconv.Atoi(string(v))
	if err != nil {
		if log != nil {
			log.Warnf("invalid %s=%q, using default %d: %v", KeyChatTTL, v, DefaultChatTTL, err)
		}
		return DefaultChatTTL
	}
	if n < 0 {
		n = 0
	}
	if n > 15 {
		n = 15
	}
	return uint8(n)
}

// SendCooldownMs parses the send_cooldown_ms key as a non-negative
// millisecond duration (§6).
func SendCooldownMs(s Store, log logging.LeveledLogger) time.Duration {
	v, ok := s.Get(KeySendCooldownMs)
	if !ok {
		return DefaultSendCooldownMs * time.Millisecond
	}
	n, err := strconv.Atoi(string(v))
	if err != nil || n < 0 {
		if log != nil {
			log.Warnf("invalid %s=%q, using default %dms", KeySendCooldownMs, v, DefaultSendCooldownMs)
		}
		return DefaultSendCooldownMs * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}
