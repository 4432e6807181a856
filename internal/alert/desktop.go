package alert

import "github.com/gen2brain/beeep"

// Fixed cue tone. There is no configuration surface for the sound itself.
const (
	cueFreq     = 660.0
	cueDuration = 200 // milliseconds
)

// DesktopNotifier is the beeep-backed platform notifier.
type DesktopNotifier struct {
	// Icon is the path to the icon shown on popups. Empty means no icon.
	Icon string
}

var _ Notifier = (*DesktopNotifier)(nil)

// Available reports platform support. beeep degrades internally per
// platform, so this is a constant on the supported targets.
func (DesktopNotifier) Available() bool { return true }

// Push displays a native notification. The tag is carried as the app name
// so consecutive popups share one notification slot where the platform
// supports it.
func (n DesktopNotifier) Push(title, body, tag string) error {
	prev := beeep.AppName
	beeep.AppName = tag
	defer func() { beeep.AppName = prev }()

	return beeep.Notify(title, body, n.Icon)
}

// Cue plays the fixed notification tone.
func (DesktopNotifier) Cue() error {
	return beeep.Beep(cueFreq, cueDuration)
}
