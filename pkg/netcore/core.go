package netcore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kcriqui/badgenet/pkg/frame"
	"github.com/kcriqui/badgenet/pkg/radio"
	"github.com/pion/logging"
)

// Config configures a Core. Zero values are replaced with the documented
// defaults by applyDefaults.
type Config struct {
	// OwnAddress is this node's immutable 32-bit address (§3 "Node
	// identity").
	OwnAddress uint32

	// TXQueueBound is the transmit queue's capacity (§3, default 20).
	TXQueueBound int

	// PromiscuousBound is the promiscuous capture queue's capacity (§3,
	// default 100).
	PromiscuousBound int

	// DupCacheExpiry is the duplicate cache's expiration window (§3,
	// default 6000s).
	DupCacheExpiry time.Duration

	// CacheFlushInterval is how often the cache-flush task runs (§4.C
	// "Cache flush"). Default: DupCacheExpiry/10, capped at 60s.
	CacheFlushInterval time.Duration

	// TransmitCooldown is the minimum inter-transmit interval (§4.C
	// transmit pump step 5, default 100ms).
	TransmitCooldown time.Duration

	// SendCooldown is an additional, independently configurable sleep
	// applied after every successful transmit (supplemented from
	// original_source per SPEC_FULL.md E.3's "two distinct cooldowns";
	// normally sourced from the send_cooldown_ms config key). Default 0.
	SendCooldown time.Duration

	// ScanBackoffMax bounds the random carrier-busy backoff (§4.C
	// transmit pump step 6, default 10ms).
	ScanBackoffMax time.Duration

	// PopPollInterval is how long the transmit pump sleeps before
	// retrying an empty queue (§4.C "if the transmit queue is empty,
	// suspend briefly and retry").
	PopPollInterval time.Duration

	RandomSource  RandomSource
	LoggerFactory logging.LoggerFactory
}

func (c *Config) applyDefaults() {
	if c.TXQueueBound == 0 {
		c.TXQueueBound = 20
	}
	if c.PromiscuousBound == 0 {
		c.PromiscuousBound = 100
	}
	if c.DupCacheExpiry == 0 {
		c.DupCacheExpiry = 6000 * time.Second
	}
	if c.CacheFlushInterval == 0 {
		c.CacheFlushInterval = c.DupCacheExpiry / 10
		if c.CacheFlushInterval > 60*time.Second {
			c.CacheFlushInterval = 60 * time.Second
		}
		if c.CacheFlushInterval <= 0 {
			c.CacheFlushInterval = time.Second
		}
	}
	if c.TransmitCooldown == 0 {
		c.TransmitCooldown = 100 * time.Millisecond
	}
	if c.ScanBackoffMax == 0 {
		c.ScanBackoffMax = 10 * time.Millisecond
	}
	if c.PopPollInterval == 0 {
		c.PopPollInterval = 5 * time.Millisecond
	}
	if c.RandomSource == nil {
		c.RandomSource = DefaultRandomSource
	}
}

// Core bridges pkg/radio's driver and the applications: protocol
// registry, receive pump, transmit pump, duplicate cache, TTL flood
// logic, and the promiscuous tap (§4.C).
type Core struct {
	cfg   Config
	radio radio.Driver
	log   logging.LeveledLogger

	registry  *Registry
	dup       *DupCache
	txq       *FrameQueue
	promisc   *FrameQueue
	promiscOn atomic.Bool
	seq       frame.SequenceCounter

	lastSend atomic.Pointer[time.Time]

	wg sync.WaitGroup
}

// New creates a Core bound to drv. The returned Core is not yet running;
// call Run to start its pumps.
func New(drv radio.Driver, cfg Config) *Core {
	cfg.applyDefaults()
	c := &Core{
		cfg:      cfg,
		radio:    drv,
		registry: NewRegistry(),
		dup:      NewDupCache(cfg.DupCacheExpiry),
		txq:      NewFrameQueue(cfg.TXQueueBound),
		promisc:  NewFrameQueue(cfg.PromiscuousBound),
	}
	if cfg.LoggerFactory != nil {
		c.log = cfg.LoggerFactory.NewLogger("netcore")
	}
	var epoch time.Time
	c.lastSend.Store(&epoch)
	return c
}

// OwnAddress returns this node's address.
func (c *Core) OwnAddress() uint32 { return c.cfg.OwnAddress }

// Registry exposes the protocol registry for protocol/callback
// registration by applications (§4.E).
func (c *Core) Registry() *Registry { return c.registry }

// TXQueueLen reports the current transmit queue depth.
func (c *Core) TXQueueLen() int { return c.txq.Len() }

// SetPromiscuous toggles promiscuous capture (§3 "Promiscuous queue").
func (c *Core) SetPromiscuous(on bool) { c.promiscOn.Store(on) }

// Promiscuous reports whether capture is currently enabled.
func (c *Core) Promiscuous() bool { return c.promiscOn.Load() }

// PromiscuousQueue exposes the capture queue for a debugging application
// (§5 "the promiscuous queue is the supported interface").
func (c *Core) PromiscuousQueue() *FrameQueue { return c.promisc }

// Originate builds and enqueues a locally originated frame: source is
// always this node's own address, and sequence is drawn from the
// process-wide counter (§4.A "Sequence numbering"). ttl should already be
// clamped to [0,15] by the caller (e.g. via the chat_ttl config key).
func (c *Core) Originate(dst uint32, port uint8, ttl uint8, payload []byte) error {
	proto, ok := c.registry.Protocol(port)
	if !ok {
		return fmt.Errorf("netcore: originate port %d: %w", port, ErrPortUnregistered)
	}
	f, err := frame.Encode(frame.EncodeParams{
		Destination: dst,
		Source:      c.cfg.OwnAddress,
		Port:        port,
		TTL:         ttl,
		Seq:         c.seq.Next(),
		Payload:     payload,
		PayloadLen:  proto.PayloadLen,
	})
	if err != nil {
		return err
	}
	c.txq.EnqueueLocal(f, c.cfg.OwnAddress)
	return nil
}

// Run starts the receive pump, transmit pump, and cache-flush task, and
// blocks until ctx is cancelled or the receive pump hits a fatal radio
// fault (§7 "Radio receive failure: ... considered fatal to the RX pump,
// which terminates so a supervisor may restart it"). It always returns a
// non-nil error: ctx.Err() on ordinary shutdown, or the receive fault
// otherwise.
func (c *Core) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	fatal := make(chan error, 1)

	c.wg.Add(3)
	go c.receivePump(ctx, fatal)
	go c.transmitPump(ctx)
	go c.cacheFlushLoop(ctx)

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-fatal:
		cancel() // stop the transmit pump and cache flush too
	}
	c.wg.Wait()
	return err
}

func (c *Core) receivePump(ctx context.Context, fatal chan<- error) {
	defer c.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		data, err := c.radio.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if c.log != nil {
				c.log.Errorf("radio receive failed, rx pump stopping: %v", err)
			}
			select {
			case fatal <- fmt.Errorf("netcore: radio receive failed: %w", err):
			default:
			}
			return
		}
		c.handleInbound(data)
	}
}

// handleInbound implements the receive pump's per-frame logic (§4.C
// receive pump).
func (c *Core) handleInbound(data []byte) {
	f, err := frame.Decode(data)
	if err != nil {
		if c.log != nil {
			c.log.Warnf("malformed frame: %v", err)
		}
		return
	}

	checksum := f.Header.Checksum
	if prior := c.dup.InsertOrIncrement(checksum); prior > 0 {
		if c.log != nil {
			c.log.Debugf("duplicate frame %04x, count now %d", checksum, prior+1)
		}
		return
	}

	if c.promiscOn.Load() {
		c.promisc.PushDropOldest(f)
	}

	if fwd, ok := f.Retransmit(c.cfg.OwnAddress); ok {
		if !c.txq.TryEnqueueForward(fwd) {
			if c.log != nil {
				c.log.Debugf("tx backpressure, dropping forward of %04x", checksum)
			}
		}
	}

	if !f.IsForMe(c.cfg.OwnAddress) {
		return // eligible for forwarding only, not dispatch (§4.C step 4)
	}

	proto, ok := c.registry.Protocol(f.Header.Port)
	if !ok {
		if c.log != nil {
			c.log.Debugf("no protocol registered for port %d", f.Header.Port)
		}
		return
	}
	if len(f.Payload) != proto.PayloadLen {
		if c.log != nil {
			c.log.Debugf("payload length mismatch on port %d (%s): got %d want %d",
				f.Header.Port, proto.Name, len(f.Payload), proto.PayloadLen)
		}
		return
	}

	typed := decodeTyped(f.Header.Port, f.Payload)
	for _, cb := range c.registry.CallbacksFor(f.Header.Port) {
		c.dispatch(cb, f, proto, typed)
	}
}

// dispatch isolates a single callback invocation: a panic inside cb is
// recovered and logged, never suppressing subsequent callbacks or
// crashing the pump (§4.C, §7 "Callback exception").
func (c *Core) dispatch(cb Callback, f *frame.Frame, proto frame.Protocol, typed any) {
	defer func() {
		if r := recover(); r != nil && c.log != nil {
			c.log.Warnf("callback panic for protocol %s: %v", proto.Name, r)
		}
	}()
	cb(f, typed)
}

func decodeTyped(port uint8, payload []byte) any {
	switch port {
	case frame.PortPing:
		return frame.DecodePing(payload)
	case frame.PortPong:
		return frame.DecodePong(payload)
	case frame.PortConfigOverride:
		return frame.DecodeConfigOverride(payload)
	case frame.PortTextChat:
		return frame.DecodeTextChat(payload)
	case frame.PortSignedTextChat:
		return frame.DecodeSignedTextChat(payload)
	default:
		return nil
	}
}

func (c *Core) transmitPump(ctx context.Context) {
	defer c.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}

		f, _, dropBackpressure, ok := c.txq.PopForSend(c.cfg.OwnAddress)
		if !ok {
			if !sleepCtx(ctx, c.cfg.PopPollInterval) {
				return
			}
			continue
		}

		if f.Header.Source == 0 {
			f = f.WithSource(c.cfg.OwnAddress) // §4.C transmit pump step 1
		}
		checksum := f.Header.Checksum

		// Step 3 (incl. E.3 "sent twice" supplement): a frame that was
		// queued for forward but already sent/forwarded by the time its
		// turn came up is dropped silently.
		if c.dup.SeenCount(checksum) > 1 {
			if c.log != nil {
				c.log.Debugf("tx: %04x already sent or forwarded, dropping", checksum)
			}
			continue
		}

		// Step 4: backpressure favors local traffic.
		if dropBackpressure {
			if c.log != nil {
				c.log.Debugf("tx: backpressure, dropping forwarded %04x", checksum)
			}
			continue
		}

		// Step 5: minimum inter-transmit interval.
		if !c.waitCooldown(ctx) {
			return
		}

		// Step 6: carrier sense with random backoff until free.
		if !c.waitChannelFree(ctx) {
			return
		}

		// Step 7: hand to the radio driver.
		if err := c.radio.Send(ctx, f.Bytes()); err != nil {
			if ctx.Err() != nil {
				return
			}
			if c.log != nil {
				c.log.Warnf("radio send failed, dropping %04x: %v", checksum, err)
			}
			continue
		}
		now := time.Now()
		c.lastSend.Store(&now)
		c.dup.MarkSent(checksum)

		// Step 8: promiscuous tap.
		if c.promiscOn.Load() {
			c.promisc.PushDropOldest(f)
		}

		if c.cfg.SendCooldown > 0 {
			if !sleepCtx(ctx, c.cfg.SendCooldown) {
				return
			}
		}
	}
}

func (c *Core) waitCooldown(ctx context.Context) bool {
	last := c.lastSend.Load()
	elapsed := time.Since(*last)
	if elapsed >= c.cfg.TransmitCooldown {
		return true
	}
	return sleepCtx(ctx, c.cfg.TransmitCooldown-elapsed)
}

func (c *Core) waitChannelFree(ctx context.Context) bool {
	for {
		state, err := c.radio.ScanChannel()
		if err != nil {
			if c.log != nil {
				c.log.Warnf("channel scan error, treating as busy: %v", err)
			}
		} else if state == radio.ChannelFree {
			return true
		}
		backoff := time.Duration(c.cfg.RandomSource.Float64() * float64(c.cfg.ScanBackoffMax))
		if !sleepCtx(ctx, backoff) {
			return false
		}
	}
}

func (c *Core) cacheFlushLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.CacheFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.dup.Purge()
		}
	}
}

// sleepCtx sleeps for d or returns early (with false) if ctx is
// cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
