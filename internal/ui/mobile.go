package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// isMobileDevice checks if the app is running on a phone or tablet
func isMobileDevice() bool {
	return fyne.CurrentDevice().IsMobile()
}

// isPortrait returns true if a mobile device is held upright
func isPortrait() bool {
	switch fyne.CurrentDevice().Orientation() {
	case fyne.OrientationHorizontalLeft, fyne.OrientationHorizontalRight:
		return false
	default:
		return true
	}
}

// optionsRow lays choices side by side on desktop and stacks them on a
// portrait phone screen.
func optionsRow(objects ...fyne.CanvasObject) *fyne.Container {
	if isMobileDevice() && isPortrait() {
		return container.NewVBox(objects...)
	}
	return container.NewAdaptiveGrid(len(objects), objects...)
}

// newActionButton creates a primary button sized for touch on mobile
func newActionButton(text string, onTapped func()) *widget.Button {
	btn := widget.NewButton(text, onTapped)
	btn.Importance = widget.HighImportance
	return btn
}

// touchSized pads a control up to the minimum touch target on mobile
func touchSized(obj fyne.CanvasObject) fyne.CanvasObject {
	if !isMobileDevice() {
		return obj
	}
	return container.NewGridWrap(fyne.NewSize(obj.MinSize().Width, MinTouchTargetSize), obj)
}
