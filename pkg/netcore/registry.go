package netcore

import (
	"fmt"
	"sync"

	"github.com/kcriqui/badgenet/pkg/frame"
)

// Callback is a port handler invoked from the receive pump for every
// validated, non-duplicate frame addressed to this node (or broadcast)
// whose payload length matches the registered protocol's declared size
// (§4.C receive pump step 3). Callbacks must not block (§4.E "Port
// handlers... must not block and must return quickly").
type Callback func(f *frame.Frame, typed any)

// Registry holds the process-lifetime protocol descriptors and their
// ordered callback lists (§3 "Protocol descriptor", "Receive callback
// table"). It is safe for concurrent use; RegisterCallback/RegisterProtocol
// take a lock only across the map update, never across callback
// invocation (§5 "callbacks should not run under the mutex").
type Registry struct {
	mu        sync.RWMutex
	protocols map[uint8]frame.Protocol
	callbacks map[uint8][]Callback
}

// NewRegistry creates a registry preloaded with the "unknown protocol"
// descriptor for port 0 (§3).
func NewRegistry() *Registry {
	r := &Registry{
		protocols: make(map[uint8]frame.Protocol),
		callbacks: make(map[uint8][]Callback),
	}
	r.protocols[frame.PortUnknown] = frame.UnknownProtocol
	return r
}

// RegisterProtocol registers p's port. Registering an identical
// descriptor for an already-registered port is a no-op; registering a
// conflicting one (same port, different name or payload length) fails
// (§3, §8 "Double-registering").
func (r *Registry) RegisterProtocol(p frame.Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(p)
}

func (r *Registry) registerLocked(p frame.Protocol) error {
	if existing, ok := r.protocols[p.Port]; ok {
		if existing.Equal(p) {
			return nil
		}
		return fmt.Errorf("%w: port %d already %q/%d bytes, got %q/%d bytes",
			frame.ErrProtocolConflict, p.Port, existing.Name, existing.PayloadLen, p.Name, p.PayloadLen)
	}
	r.protocols[p.Port] = p
	return nil
}

// RegisterCallback registers p's protocol (per RegisterProtocol's rules)
// then appends fn to its callback list in registration order (§3
// "registering a port implies its protocol descriptor is also
// registered").
func (r *Registry) RegisterCallback(p frame.Protocol, fn Callback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.registerLocked(p); err != nil {
		return err
	}
	r.callbacks[p.Port] = append(r.callbacks[p.Port], fn)
	return nil
}

// Protocol looks up the descriptor registered for port.
func (r *Registry) Protocol(port uint8) (frame.Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[port]
	return p, ok
}

// CallbacksFor returns a snapshot of the callbacks registered for port,
// in registration order.
func (r *Registry) CallbacksFor(port uint8) []Callback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cbs := r.callbacks[port]
	if len(cbs) == 0 {
		return nil
	}
	out := make([]Callback, len(cbs))
	copy(out, cbs)
	return out
}
