package resources

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

// IconState selects the tray icon variant.
type IconState int

const (
	IconIdle IconState = iota
	IconRunning
	IconPaused
)

const iconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<circle cx="32" cy="32" r="29" fill="none" stroke="%[1]s" stroke-width="4"/>
<circle cx="32" cy="32" r="%[2]d" fill="%[1]s"/>
<path d="M18 46 Q32 30 46 46" fill="none" stroke="%[1]s" stroke-width="3" stroke-linecap="round"/>
</svg>`

var iconCache sync.Map

// AppIcon returns the application icon.
func AppIcon() fyne.Resource {
	return Icon(IconRunning)
}

// Icon returns the icon for state. Resources are built once and cached.
func Icon(state IconState) fyne.Resource {
	if cached, ok := iconCache.Load(state); ok {
		return cached.(fyne.Resource)
	}

	color, radius := "#7c8a9e", 6
	switch state {
	case IconRunning:
		color, radius = "#d9a441", 10
	case IconPaused:
		color, radius = "#8a8a8a", 8
	}
	name := fmt.Sprintf("meditimer-%d.svg", state)
	resource := fyne.NewStaticResource(name, []byte(fmt.Sprintf(iconTemplate, color, radius)))
	iconCache.Store(state, resource)
	return resource
}
