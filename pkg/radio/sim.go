package radio

import (
	"context"
	"sync"
	"time"

	"github.com/pion/logging"
)

// bytesPerAirSecond approximates LoRa airtime at the default modem
// preset closely enough to drive realistic carrier-sense fixtures in
// tests (§8 scenario 4 "channel-busy deferral").
const bytesPerAirSecond = 2000

// Link is a shared medium one or more SimDrivers attach to, modeling a
// broadcast LoRa channel for tests without real hardware. Grounded on the
// retrieved nRF radio stack's stub driver (ystepanoff/nrfcomm
// driver/stub), generalized from a point-to-point rx queue to a
// broadcast medium since badgenet is a flood-forwarding mesh.
type Link struct {
	mu   sync.Mutex
	subs []chan []byte
}

// NewLink creates an empty shared medium.
func NewLink() *Link { return &Link{} }

func (l *Link) attach(buf int) chan []byte {
	ch := make(chan []byte, buf)
	l.mu.Lock()
	l.subs = append(l.subs, ch)
	l.mu.Unlock()
	return ch
}

func (l *Link) detach(ch chan []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, sub := range l.subs {
		if sub == ch {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

// broadcast delivers frame to every attached driver except exclude (a
// real half-duplex radio never hears its own transmission).
func (l *Link) broadcast(exclude chan []byte, frame []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		if ch == exclude {
			continue
		}
		cp := make([]byte, len(frame))
		copy(cp, frame)
		select {
		case ch <- cp:
		default:
		}
	}
}

// SimDriver is an in-memory Driver for tests: no hardware is touched,
// carrier sense reports busy while this driver's own last send is still
// "on air" or while a frame is queued for delivery, and RSSI/SNR are
// fixed unless overridden with SetLastPacketQuality.
type SimDriver struct {
	link *Link
	rx   chan []byte
	log  logging.LeveledLogger

	mu         sync.Mutex
	closed     bool
	busyUntil  time.Time
	rssi, snr  float64
	freqMHz    float64
	txPowerDBm int
}

// NewSimDriver attaches a new simulated node to link.
func NewSimDriver(link *Link, loggerFactory logging.LoggerFactory) *SimDriver {
	d := &SimDriver{
		link:       link,
		rx:         link.attach(32),
		rssi:       -80,
		snr:        8,
		freqMHz:    915.25, // slot 27, an arbitrary mid-band default
		txPowerDBm: 9,
	}
	if loggerFactory != nil {
		d.log = loggerFactory.NewLogger("radio-sim")
	}
	return d
}

// Recv implements Driver.
func (d *SimDriver) Recv(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-d.rx:
		if !ok {
			return nil, ErrClosed
		}
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send implements Driver.
func (d *SimDriver) Send(ctx context.Context, frame []byte) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.busyUntil = time.Now().Add(airtime(len(frame)))
	d.mu.Unlock()

	d.link.broadcast(d.rx, frame)
	if d.log != nil {
		d.log.Debugf("tx %d bytes", len(frame))
	}
	return nil
}

// ScanChannel implements Driver: busy while this node's own airtime
// hasn't elapsed, or while a frame is already queued for delivery to it.
func (d *SimDriver) ScanChannel() (ChannelState, error) {
	d.mu.Lock()
	busy := time.Now().Before(d.busyUntil)
	d.mu.Unlock()
	if busy || len(d.rx) > 0 {
		return ChannelBusy, nil
	}
	return ChannelFree, nil
}

// RSSI implements Driver.
func (d *SimDriver) RSSI() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rssi
}

// SNR implements Driver.
func (d *SimDriver) SNR() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snr
}

// SetLastPacketQuality lets tests fabricate RSSI/SNR readings, e.g. for
// the PONG payload's reported quality (§8 scenario 6).
func (d *SimDriver) SetLastPacketQuality(rssi, snr float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rssi, d.snr = rssi, snr
}

// SetFrequency implements Driver.
func (d *SimDriver) SetFrequency(mhz float64) error {
	if _, err := SlotForFrequency(mhz); err != nil {
		return err
	}
	d.mu.Lock()
	d.freqMHz = mhz
	d.mu.Unlock()
	return nil
}

// SetTXPower implements Driver.
func (d *SimDriver) SetTXPower(dBm int) error {
	d.mu.Lock()
	d.txPowerDBm = dBm
	d.mu.Unlock()
	return nil
}

// TXPower reports the last value applied via SetTXPower, for tests that
// assert a configured radio_tx_power was actually wired through (§6).
func (d *SimDriver) TXPower() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txPowerDBm
}

// Close detaches this driver from its link; any blocked Recv returns
// ErrClosed.
func (d *SimDriver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()
	d.link.detach(d.rx)
	close(d.rx)
	return nil
}

func airtime(n int) time.Duration {
	return time.Duration(float64(n)/bytesPerAirSecond*float64(time.Second)) + time.Millisecond
}

var _ Driver = (*SimDriver)(nil)
