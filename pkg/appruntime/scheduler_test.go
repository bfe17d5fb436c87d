package appruntime

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingApp is a minimal App whose Run{Foreground,Background} steps
// just increment counters, for exercising the scheduler's loop and
// interval selection without real UI/network behavior.
type countingApp struct {
	BaseApp
	fgCount atomic.Int32
	bgCount atomic.Int32
	panicOn int32 // if >0, RunForeground panics on the call with this count
}

func newCountingApp(name string) *countingApp {
	a := &countingApp{BaseApp: NewBaseApp(name)}
	a.ForegroundIntervalOverrideMS = 5
	a.BackgroundIntervalOverrideMS = 5
	return a
}

func (a *countingApp) RunForeground() {
	n := a.fgCount.Add(1)
	if a.panicOn > 0 && n == a.panicOn {
		panic("simulated app panic")
	}
}

func (a *countingApp) RunBackground() { a.bgCount.Add(1) }

var _ App = (*countingApp)(nil)

func TestRuntimeRunsBackgroundByDefault(t *testing.T) {
	rt := NewRuntime(Config{})
	a := newCountingApp("bg-app")
	rt.Register(a)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	rt.Run(ctx)

	if a.bgCount.Load() == 0 {
		t.Error("RunBackground was never called; BaseApp starts in background mode by default")
	}
	if a.fgCount.Load() != 0 {
		t.Error("RunForeground should not run while the app is backgrounded")
	}
}

func TestRuntimeRunsForegroundAfterSwitch(t *testing.T) {
	rt := NewRuntime(Config{})
	a := newCountingApp("fg-app")
	a.SwitchToForeground()
	rt.Register(a)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	rt.Run(ctx)

	if a.fgCount.Load() == 0 {
		t.Error("RunForeground was never called after SwitchToForeground")
	}
}

func TestRuntimeStopEndsTask(t *testing.T) {
	rt := NewRuntime(Config{})
	a := newCountingApp("stoppable")
	rt.Register(a)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rt.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	a.Stop()
	time.Sleep(20 * time.Millisecond)
	countAfterStop := a.bgCount.Load()
	time.Sleep(20 * time.Millisecond)
	if a.bgCount.Load() != countAfterStop {
		t.Error("app task kept running after Stop cleared both flags")
	}
	cancel()
	wg.Wait()
}

func TestRuntimeIsolatesPanickingApp(t *testing.T) {
	rt := NewRuntime(Config{})
	a := newCountingApp("panicker")
	a.panicOn = 2
	a.SwitchToForeground()
	rt.Register(a)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	rt.Run(ctx) // must not crash the test process despite the panic

	if a.fgCount.Load() < 3 {
		t.Errorf("app step count = %d after a panicking step, want the loop to keep running", a.fgCount.Load())
	}
}

func TestRuntimeForegroundAppReportsHolder(t *testing.T) {
	rt := NewRuntime(Config{})
	a := newCountingApp("holder")
	rt.Register(a)

	if got := rt.ForegroundApp(); got != nil {
		t.Errorf("ForegroundApp = %v, want nil before anyone foregrounds", got)
	}
	a.SwitchToForeground()
	if got := rt.ForegroundApp(); got != App(a) {
		t.Errorf("ForegroundApp = %v, want %v", got, a)
	}
}
