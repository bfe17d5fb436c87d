package badge

import (
	"crypto/rand"
	"os"
)

// MachineIDProvider reads the host's machine-id (present on most Linux
// distributions at /etc/machine-id or /var/lib/dbus/machine-id) as the
// HardwareIDProvider backing a node's address derivation. This is the
// closest general-purpose-OS equivalent of the original firmware's
// `machine.unique_id()` silicon ID: stable across reboots, unique per
// installation.
type MachineIDProvider struct {
	Paths []string
}

// DefaultMachineIDPaths are tried in order by a zero-value MachineIDProvider.
var DefaultMachineIDPaths = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

func (p MachineIDProvider) HardwareID() ([]byte, error) {
	paths := p.Paths
	if len(paths) == 0 {
		paths = DefaultMachineIDPaths
	}
	var lastErr error
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// PersistedRandomIDProvider generates a random identifier on first use
// and persists it under path, so the derived address remains stable
// across restarts even on hosts with no machine-id (e.g. a microcontroller
// target with no OS-level identity file). This is the fallback path a
// bring-up board would use before real silicon-ID support is wired in.
type PersistedRandomIDProvider struct {
	Path string
}

func (p PersistedRandomIDProvider) HardwareID() ([]byte, error) {
	if b, err := os.ReadFile(p.Path); err == nil && len(b) > 0 {
		return b, nil
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}
	if err := os.WriteFile(p.Path, id, 0o600); err != nil {
		return nil, err
	}
	return id, nil
}

var (
	_ HardwareIDProvider = MachineIDProvider{}
	_ HardwareIDProvider = PersistedRandomIDProvider{}
)
