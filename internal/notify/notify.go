// Package notify defines the fire-and-forget side-effect sinks the core
// triggers on timer completion. Implementations live at the edges (the
// TUI rings the terminal bell and posts a status line); the core never
// inspects a result.
package notify

// Permission mirrors the read-only notification permission state.
type Permission string

const (
	Granted Permission = "granted"
	Denied  Permission = "denied"
	Default Permission = "default"
)

// Notifier shows a notification. Implementations must not block.
type Notifier interface {
	Notify(title, body string)
}

// Chime plays the completion sound. Implementations must not block.
type Chime interface {
	Play()
}

// Gated wraps a Notifier and drops notifications unless permission has
// been granted and the user has them enabled.
type Gated struct {
	Notifier   Notifier
	Permission Permission
	Enabled    bool
}

func (g Gated) Notify(title, body string) {
	if g.Notifier == nil || g.Permission != Granted || !g.Enabled {
		return
	}
	g.Notifier.Notify(title, body)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, body string)

func (f NotifierFunc) Notify(title, body string) { f(title, body) }

// ChimeFunc adapts a function to the Chime interface.
type ChimeFunc func()

func (f ChimeFunc) Play() { f() }
