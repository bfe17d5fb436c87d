package appruntime

import (
	"github.com/pion/logging"
)

// Keypad is the launcher's input source: one boolean slot-press signal
// per labeled key, polled once per foreground tick. Grounded in the
// original firmware's keyboard.f1()..f5() polling
// (original_source/firmware/badge/apps/app_menu.py); a real badge
// implementation backs this with GPIO/keyboard-matrix reads, a test
// implementation with a fake.
type Keypad interface {
	// SlotPressed reports whether the function key for the given
	// zero-based slot was pressed since the last poll.
	SlotPressed(slot int) bool
}

// Slot names an application that can be launched from a menu position.
// A nil App leaves the slot unoccupied, matching the original firmware's
// `name_list` entries for absent apps.
type Slot struct {
	App App
}

// Menu is the foreground/background launcher app (spec.md §4.F),
// grounded on the original firmware's AppMenu. It presents up to five
// labeled slots; on a slot press it backgrounds itself and foregrounds
// the selected app. A non-primary (secondary) menu reserves its last
// slot as a "home" button that backgrounds itself without launching
// anything and foregrounds HomeMenu if one is set; with no HomeMenu, the
// primary menu's heartbeat takes the foreground back.
type Menu struct {
	BaseApp

	rt      *Runtime
	keypad  Keypad
	slots   []Slot
	primary bool

	log logging.LeveledLogger

	heartbeatCounter int

	// HomeMenu is the primary menu a secondary menu's home slot
	// foregrounds directly (spec.md §4.F "On a 'home' press inside a
	// secondary menu: foreground the primary menu"). Left nil on the
	// primary menu itself; set by whoever constructs a secondary menu.
	HomeMenu *Menu
}

// NewMenu constructs a menu over up to five slots. primary marks this as
// the badge's main menu: only the main menu's background heartbeat
// self-foregrounds when no app holds the foreground (spec.md §4.F
// "Background heartbeat"); a secondary menu's last slot is a home
// button instead.
func NewMenu(name string, keypad Keypad, slots []Slot, primary bool, lf logging.LoggerFactory) *Menu {
	m := &Menu{
		BaseApp: NewBaseApp(name),
		keypad:  keypad,
		slots:   slots,
		primary: primary,
		log:     logging.NewDefaultLoggerFactory().NewLogger("appruntime"),
	}
	if lf != nil {
		m.log = lf.NewLogger("appruntime")
	}
	return m
}

// Start records the runtime so the background heartbeat can inspect
// other apps' foreground state.
func (m *Menu) Start(rt *Runtime) {
	m.rt = rt
}

// homeSlot is the reserved "go back to the primary menu" slot a
// secondary menu exposes in place of a fifth application (spec.md §4.F
// "On a 'home' press inside a secondary menu: foreground the primary
// menu").
const homeSlot = 4

// RunForeground polls the keypad once per tick (spec.md §4.D:
// run_foreground is a single bounded-time step, not itself suspending)
// and switches the foreground app on a slot press.
func (m *Menu) RunForeground() {
	for i, s := range m.slots {
		if i >= 5 || !m.keypad.SlotPressed(i) {
			continue
		}
		if s.App == nil {
			if !m.primary && i == homeSlot {
				m.SwitchToBackground()
				if m.HomeMenu != nil {
					m.HomeMenu.SwitchToForeground()
				}
			}
			return
		}
		m.SwitchToBackground()
		s.App.SwitchToForeground()
		return
	}
}

// RunBackground is the launcher's heartbeat. Only the primary menu
// checks for an unclaimed foreground (spec.md §4.F); a secondary menu
// does nothing while backgrounded, matching the original firmware's
// `if not self.main: return`.
func (m *Menu) RunBackground() {
	if !m.primary || m.rt == nil {
		return
	}
	if m.rt.ForegroundApp() == nil {
		m.SwitchToForeground()
		return
	}
	m.heartbeatCounter++
	if m.heartbeatCounter&0x0F == 0 {
		m.log.Debugf("appruntime: %s heartbeat, foreground app %q", m.Name(), m.rt.ForegroundApp().Name())
	}
}

// NoopKeypad reports no presses. Useful for headless bring-up before a
// real keyboard-matrix scanner is wired in.
type NoopKeypad struct{}

func (NoopKeypad) SlotPressed(int) bool { return false }

var (
	_ App    = (*Menu)(nil)
	_ Keypad = NoopKeypad{}
)
