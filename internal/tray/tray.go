// Package tray provides a macOS status bar interface for hand tracking.
package tray

import (
	"sync"
	"time"

	"github.com/getlantern/systray"
)

// StatusInterval is how often the hand status line is refreshed.
const StatusInterval = 250 * time.Millisecond

// Tray represents the macOS system tray application.
type Tray struct {
	onToggle   func(enabled bool) bool
	onSettings func()
	onQuit     func()
	handStatus func() bool
	running    func() bool
	enabled    bool
	tracked    bool
	mu         sync.RWMutex
	stopCh     chan struct{}

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuHand   *systray.MenuItem
}

// New creates a new Tray. enabled is the initial tracking state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
		stopCh:  make(chan struct{}),
	}
}

// OnToggle sets the callback called when tracking is toggled. It returns the
// resulting state, so a failed start leaves the menu showing "Stopped".
func (t *Tray) OnToggle(fn func(enabled bool) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// HandStatus sets the function polled for the "Hand: tracked/lost" line.
func (t *Tray) HandStatus(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handStatus = fn
}

// TrackingStatus sets the function polled for the toggle state, so sessions
// stopped elsewhere show as stopped.
func (t *Tray) TrackingStatus(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Hand Joints")
	systray.SetTooltip("Hand joint tracking")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Start or stop tracking")
	systray.AddSeparator()

	t.menuHand = systray.AddMenuItem(handTitle(false), "Whether a hand is currently tracked")
	t.menuHand.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit")

	go t.pollHandStatus()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.stopCh:
	default:
		close(t.stopCh)
	}
}

func (t *Tray) pollHandStatus() {
	ticker := time.NewTicker(StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.refresh()
		}
	}
}

// refresh pulls the tracking and hand state into the menu.
func (t *Tray) refresh() {
	t.mu.RLock()
	hand, running := t.handStatus, t.running
	t.mu.RUnlock()

	if running != nil {
		if enabled := running(); enabled != t.IsEnabled() {
			t.SetEnabled(enabled)
		}
	}
	if hand != nil {
		t.SetHandTracked(hand())
	}
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	want := !t.enabled
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	got := want
	if callback != nil {
		got = callback(want)
	}
	t.SetEnabled(got)
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Quit closes the menu and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetEnabled updates the tracking state shown in the menu.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetHandTracked updates the hand status line when it changes.
func (t *Tray) SetHandTracked(tracked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tracked == t.tracked {
		return
	}
	t.tracked = tracked
	if t.menuHand != nil {
		t.menuHand.SetTitle(handTitle(tracked))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// HandTracked returns the last hand status shown.
func (t *Tray) HandTracked() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tracked
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Stopped"
}

func handTitle(tracked bool) string {
	if tracked {
		return "Hand: tracked"
	}
	return "Hand: lost"
}
