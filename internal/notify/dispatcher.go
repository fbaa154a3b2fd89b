package notify

import (
	"strings"

	"github.com/gen2brain/beeep"
)

const defaultTitle = "Meditimer"

// Dispatcher posts desktop notifications.
type Dispatcher struct {
	enabled bool
	send    func(title, message string) error
}

// NewDispatcher creates a Dispatcher. A disabled dispatcher drops messages.
func NewDispatcher(enabled bool) *Dispatcher {
	return &Dispatcher{
		enabled: enabled,
		send:    desktopNotify,
	}
}

// Notify shows a notification. Empty titles fall back to the app name.
func (dispatcher *Dispatcher) Notify(title, message string) error {
	if dispatcher == nil || !dispatcher.enabled {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	message = strings.TrimSpace(message)
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	return dispatcher.send(title, message)
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}
