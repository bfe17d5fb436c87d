// Package appruntime schedules applications as independent foreground/
// background state machines (spec.md §4.D-§4.F). The original firmware
// runs every application as a cooperative task on a single-threaded
// event loop; this port gives each application its own goroutine, which
// sleeps on a timer between steps, instead (spec.md §9 "Cooperative tasks
// → native concurrency"),
// since Go has no single-threaded executor primitive to imitate
// faithfully. Shared state an application touches through the runtime
// (foreground ownership) is synchronized explicitly rather than relying
// on single-threaded exclusivity.
package appruntime

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Default suspend intervals (spec.md §4.D: "Default intervals: foreground
// 100 ms, background 1000 ms; each application may override").
const (
	DefaultForegroundInterval = 100
	DefaultBackgroundInterval = 1000
)

// App is the application contract (spec.md §4.E). Implementations embed
// BaseApp for the foreground/background bookkeeping and override the
// lifecycle hooks they need.
type App interface {
	// Name identifies the application, e.g. for menu slot labels.
	Name() string

	// Start registers protocols/callbacks and is called once by the
	// runtime before the app's task is spawned.
	Start(rt *Runtime)

	// Stop clears both active flags; the app's task exits on its next
	// tick after observing them cleared.
	Stop()

	// SwitchToForeground must be idempotent.
	SwitchToForeground()

	// SwitchToBackground releases any display/input ownership while
	// remaining receptive to network callbacks.
	SwitchToBackground()

	// RunForeground is one bounded-time step of UI/input logic.
	RunForeground()

	// RunBackground is one bounded-time step of passive logic.
	RunBackground()

	// ForegroundIntervalMS and BackgroundIntervalMS report this app's
	// suspend intervals; return DefaultForegroundInterval /
	// DefaultBackgroundInterval to use the runtime's defaults.
	ForegroundIntervalMS() int
	BackgroundIntervalMS() int

	// IsForeground and IsBackground report this app's current state. An
	// app with both false has been stopped; its task exits on the next
	// tick (spec.md §4.D "Cancellation/shutdown").
	IsForeground() bool
	IsBackground() bool
}

// BaseApp implements the bookkeeping common to every application
// (active_foreground/active_background flags, idempotent transitions),
// mirroring the original firmware's BaseApp. Embed it and override the
// lifecycle hooks that need real behavior.
type BaseApp struct {
	id   uuid.UUID
	name string

	foreground atomic.Bool
	background atomic.Bool
	active     atomic.Bool

	ForegroundIntervalOverrideMS int
	BackgroundIntervalOverrideMS int
}

// NewBaseApp constructs a BaseApp starting in background mode, matching
// the original firmware's constructor (active_background defaults true,
// active_foreground defaults false).
func NewBaseApp(name string) BaseApp {
	b := BaseApp{id: uuid.New(), name: name}
	b.active.Store(true)
	b.background.Store(true)
	return b
}

func (b *BaseApp) ID() uuid.UUID { return b.id }

func (b *BaseApp) Name() string { return b.name }

// SwitchToForeground sets the foreground flag and clears background.
// Idempotent: calling it while already foreground is a no-op observable
// effect (flags end in the same state).
func (b *BaseApp) SwitchToForeground() {
	b.foreground.Store(true)
	b.background.Store(false)
}

// SwitchToBackground sets the background flag and clears foreground.
func (b *BaseApp) SwitchToBackground() {
	b.background.Store(true)
	b.foreground.Store(false)
}

// Stop clears both active flags (spec.md §4.D "Cancellation/shutdown").
func (b *BaseApp) Stop() {
	b.foreground.Store(false)
	b.background.Store(false)
	b.active.Store(false)
}

func (b *BaseApp) IsForeground() bool { return b.foreground.Load() }
func (b *BaseApp) IsBackground() bool { return b.background.Load() }
func (b *BaseApp) Active() bool       { return b.active.Load() }

func (b *BaseApp) ForegroundIntervalMS() int {
	if b.ForegroundIntervalOverrideMS > 0 {
		return b.ForegroundIntervalOverrideMS
	}
	return DefaultForegroundInterval
}

func (b *BaseApp) BackgroundIntervalMS() int {
	if b.BackgroundIntervalOverrideMS > 0 {
		return b.BackgroundIntervalOverrideMS
	}
	return DefaultBackgroundInterval
}

// RunForeground and RunBackground default to no-ops; embedders override.
func (b *BaseApp) RunForeground() {}
func (b *BaseApp) RunBackground() {}

// Start defaults to a no-op; embedders override to register protocols.
func (b *BaseApp) Start(rt *Runtime) {}
