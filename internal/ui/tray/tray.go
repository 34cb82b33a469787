package tray

import (
	"fmt"

	"countdown/internal/core/model"

	"fyne.io/fyne/v2"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow   func()
	OnStart  func()
	OnStop   func()
	OnReset  func()
	OnPreset func(minutes int)
	OnQuit   func()
}

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Manager handles system tray state.
type Manager struct {
	host       MenuHost
	title      string
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	presets    []int
	remaining  int
	running    bool
}

// New creates a tray manager and installs its menu.
func New(host MenuHost, title string, presets []int, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		title:     title,
		callbacks: callbacks,
		presets:   append([]int(nil), presets...),
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnStart != nil {
			manager.callbacks.OnStart()
		}
	})
	manager.stopItem = fyne.NewMenuItem("Stop", func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})

	manager.refreshStatus()
	return manager
}

// SetState updates the status line and which controls are enabled.
func (manager *Manager) SetState(remaining int, running bool) {
	manager.remaining = remaining
	manager.running = running
	manager.refreshStatus()
}

// SetPresets replaces the presets submenu.
func (manager *Manager) SetPresets(presets []int) {
	manager.presets = append([]int(nil), presets...)
	manager.refreshMenu()
}

// Menu returns the menu currently installed.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.buildMenu()
}

func (manager *Manager) refreshStatus() {
	switch {
	case manager.running:
		manager.statusItem.Label = fmt.Sprintf("Running: %s", model.FormatRemaining(manager.remaining))
	case manager.remaining > 0:
		manager.statusItem.Label = fmt.Sprintf("Paused: %s", model.FormatRemaining(manager.remaining))
	default:
		manager.statusItem.Label = "Idle"
	}
	manager.startItem.Disabled = manager.running
	manager.stopItem.Disabled = !manager.running
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.buildMenu())
	}
}

func (manager *Manager) buildMenu() *fyne.Menu {
	presetItems := make([]*fyne.MenuItem, 0, len(manager.presets))
	for _, minutes := range manager.presets {
		presetItems = append(presetItems, fyne.NewMenuItem(fmt.Sprintf("%d minutes", minutes), func() {
			if manager.callbacks.OnPreset != nil {
				manager.callbacks.OnPreset(minutes)
			}
		}))
	}
	presets := fyne.NewMenuItem("Presets", nil)
	presets.ChildMenu = fyne.NewMenu("", presetItems...)

	return fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		manager.startItem,
		manager.stopItem,
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		}),
		presets,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}
