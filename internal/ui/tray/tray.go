package tray

import (
	"problemtimer/internal/core/repetition"
	"problemtimer/internal/ui/display"

	"fyne.io/fyne/v2"
)

// MenuSetter is the desktop capability used by the tray.
// fyne's desktop.App satisfies it.
type MenuSetter interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTimer   func()
	OnPreferences func()
	OnToggleRun   func()
	OnSkip        func()
	OnReset       func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        MenuSetter
	statusItem *fyne.MenuItem
	runItem    *fyne.MenuItem
	skipItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  Callbacks
	running    bool
}

// New creates a tray manager with the provided callbacks.
func New(app MenuSetter, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: Ready", nil)
	manager.statusItem.Disabled = true

	manager.runItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggleRun)
	})
	manager.skipItem = fyne.NewMenuItem("Completed", func() {
		invoke(manager.callbacks.OnSkip)
	})
	manager.skipItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		invoke(manager.callbacks.OnReset)
	})

	manager.refreshMenu()
	return manager
}

// Update mirrors the timer state in the menu.
func (manager *Manager) Update(snapshot repetition.Snapshot) {
	controls := display.ControlsFor(snapshot)
	manager.running = snapshot.Phase == repetition.PhaseRunning

	manager.statusItem.Label = "Status: " + display.Summary(snapshot)
	if manager.running {
		manager.runItem.Label = "Pause"
		manager.runItem.Disabled = !controls.Pause
	} else {
		manager.runItem.Label = "Start"
		manager.runItem.Disabled = !controls.Start
	}
	manager.skipItem.Disabled = !controls.Skip
	manager.resetItem.Disabled = !controls.Reset
	manager.refreshMenu()
}

// Running reports whether the last update was in the running phase.
func (manager *Manager) Running() bool {
	return manager.running
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Problem Timer",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", func() {
			invoke(manager.callbacks.OnShowTimer)
		}),
		fyne.NewMenuItemSeparator(),
		manager.runItem,
		manager.skipItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Voice settings", func() {
			invoke(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}
