package badge

import (
	"context"
	"sync"

	"github.com/kcriqui/badgenet/pkg/appruntime"
	"github.com/kcriqui/badgenet/pkg/config"
	"github.com/kcriqui/badgenet/pkg/frame"
	"github.com/kcriqui/badgenet/pkg/netcore"
	"github.com/pion/logging"
)

// Node is the top-level orchestrator wiring the radio driver, network
// core, application runtime, and configuration store together
// (grounded on the teacher's Node: NewNode validates and assembles,
// Start(ctx) brings the stack up, Stop() tears it down). Unlike the
// teacher, a Node has no commissioning/fabric lifecycle: once its
// address is derived at construction, the network core and runtime run
// until Stop.
type Node struct {
	cfg   Config
	log   logging.LeveledLogger
	store config.Store

	address uint32
	core    *netcore.Core
	runtime *appruntime.Runtime

	mu       sync.RWMutex
	state    State
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopped  chan struct{}
}

// New validates cfg, derives the node's address from its hardware
// identity, and assembles the network core and application runtime. The
// returned Node is not yet running; call Start.
func New(cfg Config) (*Node, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	hwID, err := cfg.HardwareID.HardwareID()
	if err != nil {
		return nil, err
	}
	address := AddressFromHardwareID(hwID)

	n := &Node{
		cfg:     cfg,
		store:   cfg.Store,
		address: address,
		state:   StateUninitialized,
		stopped: make(chan struct{}),
	}
	if cfg.LoggerFactory != nil {
		n.log = cfg.LoggerFactory.NewLogger("badge")
	} else {
		n.log = logging.NewDefaultLoggerFactory().NewLogger("badge")
	}

	coreCfg := cfg.Core
	coreCfg.OwnAddress = address
	coreCfg.LoggerFactory = cfg.LoggerFactory
	if coreCfg.SendCooldown == 0 {
		coreCfg.SendCooldown = config.SendCooldownMs(cfg.Store, n.log)
	}
	n.core = netcore.New(cfg.Radio, coreCfg)

	if err := cfg.Radio.SetTXPower(config.RadioTXPower(cfg.Store, n.log)); err != nil {
		n.log.Warnf("failed to apply configured radio_tx_power: %v", err)
	}

	n.runtime = appruntime.NewRuntime(appruntime.Config{LoggerFactory: cfg.LoggerFactory})

	if err := n.registerBuiltinProtocols(); err != nil {
		return nil, err
	}

	n.state = StateInitialized
	return n, nil
}

// Address returns this node's immutable 32-bit address.
func (n *Node) Address() uint32 { return n.address }

// Core exposes the network core for applications that need to originate
// frames or inspect the promiscuous queue (§4.E, §5).
func (n *Node) Core() *netcore.Core { return n.core }

// Runtime exposes the application runtime for registering apps (§4.D).
func (n *Node) Runtime() *appruntime.Runtime { return n.runtime }

// Store exposes the configuration store external collaborator (§6).
func (n *Node) Store() config.Store { return n.store }

// State returns the node's current lifecycle state.
func (n *Node) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// RegisterApp adds an application to the runtime. Call before Start.
func (n *Node) RegisterApp(a appruntime.App) {
	n.runtime.Register(a)
}

// registerBuiltinProtocols wires the reserved ports that the node
// itself answers rather than leaving to an application (spec.md §8
// scenario 6 "PING/PONG"; §6 CONFIG_OVERRIDE). TEXT_CHAT and
// SIGNED_TEXT_CHAT are reserved descriptors an application (not the
// node) dispatches against, so only their protocol layouts are
// registered here to reserve the ports and let forwarding see them as
// "known" rather than catch-all.
func (n *Node) registerBuiltinProtocols() error {
	if err := n.core.Registry().RegisterCallback(frame.PingProtocol, n.handlePing); err != nil {
		return err
	}
	if err := n.core.Registry().RegisterProtocol(frame.PongProtocol); err != nil {
		return err
	}
	if err := n.core.Registry().RegisterCallback(frame.ConfigOverrideProtocol, n.handleConfigOverride); err != nil {
		return err
	}
	if err := n.core.Registry().RegisterProtocol(frame.TextChatProtocol); err != nil {
		return err
	}
	if err := n.core.Registry().RegisterProtocol(frame.SignedTextChatProtocol); err != nil {
		return err
	}
	return nil
}

// handlePing answers a PING addressed to this node with a unicast PONG
// carrying the TTL the PING arrived with and this node's last-packet
// RSSI/SNR (spec.md §8 scenario 6).
func (n *Node) handlePing(f *frame.Frame, typed any) {
	ping, ok := typed.(frame.Ping)
	if !ok || ping.Target != n.address {
		return
	}
	pong := frame.Pong{
		Target:    f.Header.Source,
		TTLAtPing: f.Header.TTL,
		Seq:       ping.Seq,
		RSSI:      float32(n.cfg.Radio.RSSI()),
		SNR:       float32(n.cfg.Radio.SNR()),
	}
	// §8 scenario 6 and original_source/firmware/badge/net/net_tools.py
	// hardcode the PONG's own TTL at 7; chat_ttl governs outgoing chat,
	// not this reply.
	if err := n.core.Originate(f.Header.Source, frame.PortPong, pongTTL, pong.Encode()); err != nil {
		n.log.Warnf("failed to originate PONG: %v", err)
	}
}

// pongTTL is the fixed hop budget for a PONG reply (§8 scenario 6 "TTL=7").
const pongTTL = 7

// handleConfigOverride verifies the signature against key||value and,
// if it checks out, applies the change to the local config store (§6).
// With no Verifier configured, CONFIG_OVERRIDE frames are received and
// forwarded like any other frame but never applied.
func (n *Node) handleConfigOverride(f *frame.Frame, typed any) {
	if n.cfg.Verifier == nil {
		return
	}
	co, ok := typed.(frame.ConfigOverride)
	if !ok {
		return
	}
	message := append([]byte(co.Key), co.Value...)
	if err := n.cfg.Verifier.Verify(message, co.Signature); err != nil {
		n.log.Warnf("rejected CONFIG_OVERRIDE for key %q: %v", co.Key, err)
		return
	}
	if err := n.store.Set(co.Key, co.Value); err != nil {
		n.log.Warnf("failed to apply CONFIG_OVERRIDE for key %q: %v", co.Key, err)
		return
	}
	if err := n.store.Flush(); err != nil {
		n.log.Warnf("failed to flush config store after CONFIG_OVERRIDE: %v", err)
	}
}

// Start brings the network core and application runtime up and blocks
// until ctx is canceled or the network core's receive pump hits a fatal
// radio fault (§7). Unlike the teacher's Start, which returns once the
// stack is initialized, a Node's Start runs for the node's lifetime;
// callers that need non-blocking startup should invoke it in its own
// goroutine, matching cmd/badge-node's entrypoint.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	if !n.state.CanStart() {
		n.mu.Unlock()
		if n.state == StateRunning || n.state == StateStarting {
			return ErrAlreadyStarted
		}
		return ErrNotInitialized
	}
	n.state = StateStarting
	runCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n.runtime.Run(runCtx)
	}()

	n.mu.Lock()
	n.state = StateRunning
	n.mu.Unlock()
	n.log.Infof("node started, address=%08x", n.address)

	err := n.core.Run(runCtx)

	cancel()
	wg.Wait()

	n.mu.Lock()
	n.state = StateStopped
	n.mu.Unlock()
	close(n.stopped)
	n.log.Info("node stopped")
	return err
}

// Stop requests an orderly shutdown and waits for Start to return.
func (n *Node) Stop() error {
	n.mu.RLock()
	canStop := n.state.CanStop()
	cancel := n.cancel
	n.mu.RUnlock()
	if !canStop {
		return ErrNotStarted
	}
	n.stopOnce.Do(func() {
		if cancel != nil {
			cancel()
		}
	})
	<-n.stopped
	return nil
}
