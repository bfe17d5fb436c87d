package appruntime

import (
	"context"
	"sync"
	"time"

	"github.com/pion/logging"
)

// Config configures a Runtime.
type Config struct {
	LoggerFactory logging.LoggerFactory
}

// Runtime runs every registered App's foreground/background loop on its
// own goroutine (spec.md §4.D, generalized per §9's native-concurrency
// note: one goroutine per task in place of one single-threaded executor).
// Transitioning an app between foreground/background, and stopping it,
// is safe from any goroutine because BaseApp's flags are atomics.
type Runtime struct {
	log logging.LeveledLogger

	mu   sync.Mutex
	apps []App

	wg sync.WaitGroup
}

// NewRuntime constructs a Runtime. A nil LoggerFactory falls back to
// pion/logging's default logger factory.
func NewRuntime(cfg Config) *Runtime {
	rt := &Runtime{log: logging.NewDefaultLoggerFactory().NewLogger("appruntime")}
	if cfg.LoggerFactory != nil {
		rt.log = cfg.LoggerFactory.NewLogger("appruntime")
	}
	return rt
}

// Register adds an app to the runtime. Call before Run; apps registered
// after Run starts are picked up the next time Run is (re)invoked.
func (rt *Runtime) Register(a App) {
	rt.mu.Lock()
	rt.apps = append(rt.apps, a)
	rt.mu.Unlock()
}

// Apps returns a snapshot of the registered apps, for a menu to present
// as selectable slots.
func (rt *Runtime) Apps() []App {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make([]App, len(rt.apps))
	copy(out, rt.apps)
	return out
}

// ForegroundApp reports the app currently holding the foreground, or nil
// if none does (spec.md §8 invariant 7 allows a transient gap during an
// atomic transition; the menu's background heartbeat is what restores
// the invariant after an app exits without foregrounding another).
func (rt *Runtime) ForegroundApp() App {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, a := range rt.apps {
		if a.IsForeground() {
			return a
		}
	}
	return nil
}

// Run calls Start on every registered app and spawns its task loop. Run
// blocks until ctx is canceled, then waits for every task to observe
// cancellation and return.
func (rt *Runtime) Run(ctx context.Context) {
	rt.mu.Lock()
	apps := make([]App, len(rt.apps))
	copy(apps, rt.apps)
	rt.mu.Unlock()

	for _, a := range apps {
		a.Start(rt)
		rt.wg.Add(1)
		go rt.runTask(ctx, a)
	}

	<-ctx.Done()
	rt.wg.Wait()
}

// runTask is the per-application loop from spec.md §4.D:
//
//	while active:
//	    if active_foreground:  run_foreground(); sleep(foreground_interval)
//	    elif active_background: run_background(); sleep(background_interval)
//	    else: stop()
//
// run_foreground/run_background are bounded-time steps; the sleep
// between ticks is this task's only suspension point, mirroring the
// single executor's await points (spec.md §5).
func (rt *Runtime) runTask(ctx context.Context, a App) {
	defer rt.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		switch {
		case a.IsForeground():
			rt.runStep(a, a.RunForeground)
			if !sleepCtx(ctx, time.Duration(a.ForegroundIntervalMS())*time.Millisecond) {
				return
			}
		case a.IsBackground():
			rt.runStep(a, a.RunBackground)
			if !sleepCtx(ctx, time.Duration(a.BackgroundIntervalMS())*time.Millisecond) {
				return
			}
		default:
			a.Stop()
			return
		}
	}
}

// runStep invokes an app's step callback with the same per-callback
// panic isolation the network core applies to protocol callbacks
// (pkg/netcore's dispatch): one misbehaving app must not take down the
// runtime or any other app's task.
func (rt *Runtime) runStep(a App, step func()) {
	defer func() {
		if r := recover(); r != nil {
			rt.log.Warnf("appruntime: app %q step panicked: %v", a.Name(), r)
		}
	}()
	step()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
