package alert

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Permission is the desktop-notification permission state. It follows the
// three-state model of the platform APIs this client targets: undecided,
// allowed, refused.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// PermissionStore persists the permission decision between sessions.
// A denied decision is terminal for the session and never re-prompted.
type PermissionStore interface {
	Load() (Permission, error)
	Save(Permission) error
}

// Prompter asks the user for a permission decision. Implementations may
// take arbitrarily long; callers must treat the call as asynchronous.
type Prompter interface {
	Request(ctx context.Context) (Permission, error)
}

// TerminalPrompter asks via an interactive terminal form. On a
// non-interactive stdin it leaves the decision undecided rather than
// blocking a headless run.
type TerminalPrompter struct{}

// Request presents the permission prompt.
func (TerminalPrompter) Request(ctx context.Context) (Permission, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return PermissionDefault, nil
	}

	var allow bool
	err := huh.NewConfirm().
		Title("Show desktop notifications?").
		Description("pulse can raise a system notification when the marketplace pushes an event.").
		Value(&allow).
		Run()
	if err != nil {
		return PermissionDefault, fmt.Errorf("permission prompt: %w", err)
	}

	if allow {
		return PermissionGranted, nil
	}
	return PermissionDenied, nil
}
