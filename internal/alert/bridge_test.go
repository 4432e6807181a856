package alert

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/pulse/internal/core/gate"
)

type fakeNotifier struct {
	mu        sync.Mutex
	available bool
	pushErr   error
	cueErr    error
	pushes    []string
	cues      int
}

func (f *fakeNotifier) Available() bool { return f.available }

func (f *fakeNotifier) Push(title, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, title)
	return nil
}

func (f *fakeNotifier) Cue() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cueErr != nil {
		return f.cueErr
	}
	f.cues++
	return nil
}

func (f *fakeNotifier) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

type fakePrompter struct {
	result Permission
	err    error
	calls  int
}

func (f *fakePrompter) Request(context.Context) (Permission, error) {
	f.calls++
	return f.result, f.err
}

type memPermissions struct {
	perm  Permission
	saves int
}

func (m *memPermissions) Load() (Permission, error) { return m.perm, nil }

func (m *memPermissions) Save(p Permission) error {
	m.perm = p
	m.saves++
	return nil
}

func TestBridge_NotifyWhenGranted(t *testing.T) {
	n := &fakeNotifier{available: true}
	b := New(n, &memPermissions{perm: PermissionGranted}, nil, zerolog.Nop())

	b.Notify(context.Background(), "Interview Scheduled", "Tuesday 10:00")

	require.Equal(t, 1, n.pushCount())
	assert.Equal(t, "Interview Scheduled", n.pushes[0])
}

func TestBridge_NoPopupWhenUnavailable(t *testing.T) {
	n := &fakeNotifier{available: false}
	b := New(n, &memPermissions{perm: PermissionGranted}, nil, zerolog.Nop())

	b.Notify(context.Background(), "t", "b")

	assert.Zero(t, n.pushCount())
}

func TestBridge_DeniedIsTerminal(t *testing.T) {
	n := &fakeNotifier{available: true}
	p := &fakePrompter{result: PermissionGranted}
	b := New(n, &memPermissions{perm: PermissionDenied}, nil, zerolog.Nop(), WithPrompter(p))

	b.Notify(context.Background(), "t", "b")
	b.Notify(context.Background(), "t2", "b2")

	assert.Zero(t, n.pushCount())
	assert.Zero(t, p.calls, "a denied decision is never re-prompted")
}

func TestBridge_DefaultPromptsOnce(t *testing.T) {
	t.Run("granted result shows popup and persists", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		p := &fakePrompter{result: PermissionGranted}
		perms := &memPermissions{perm: PermissionDefault}
		b := New(n, perms, nil, zerolog.Nop(), WithPrompter(p))

		b.Notify(context.Background(), "first", "b")

		assert.Equal(t, 1, p.calls)
		assert.Equal(t, 1, n.pushCount())
		assert.Equal(t, PermissionGranted, perms.perm)
		assert.Equal(t, 1, perms.saves)
	})

	t.Run("denied result suppresses popup", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		p := &fakePrompter{result: PermissionDenied}
		b := New(n, &memPermissions{perm: PermissionDefault}, nil, zerolog.Nop(), WithPrompter(p))

		b.Notify(context.Background(), "t", "b")

		assert.Zero(t, n.pushCount())
		assert.Equal(t, PermissionDenied, b.Permission())
	})

	t.Run("pending result means no popup and no retry for this event", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		p := &fakePrompter{result: PermissionDefault}
		b := New(n, &memPermissions{perm: PermissionDefault}, nil, zerolog.Nop(), WithPrompter(p))

		b.Notify(context.Background(), "t", "b")
		b.Notify(context.Background(), "t2", "b2")

		assert.Zero(t, n.pushCount())
		assert.Equal(t, 1, p.calls, "one prompt per session")
	})
}

func TestBridge_RapidPopups(t *testing.T) {
	t.Run("a burst shows every distinct popup, newest last", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		b := New(n, &memPermissions{perm: PermissionGranted}, nil, zerolog.Nop())

		b.Notify(context.Background(), "one", "b")
		b.Notify(context.Background(), "two", "b")
		b.Notify(context.Background(), "three", "b")

		require.Equal(t, 3, n.pushCount(), "the slot must end up holding the newest popup")
		assert.Equal(t, "three", n.pushes[2])
	})

	t.Run("an exact repeat of the visible popup is skipped", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		b := New(n, &memPermissions{perm: PermissionGranted}, nil, zerolog.Nop())

		b.Notify(context.Background(), "one", "b")
		b.Notify(context.Background(), "one", "b")
		b.Notify(context.Background(), "one", "other body")

		assert.Equal(t, 2, n.pushCount(), "same title with a new body is not a repeat")
	})
}

func TestBridge_PushFailureIsSwallowed(t *testing.T) {
	n := &fakeNotifier{available: true, pushErr: errors.New("dbus gone")}
	b := New(n, &memPermissions{perm: PermissionGranted}, nil, zerolog.Nop())

	// Must not panic or surface the error.
	b.Notify(context.Background(), "t", "b")
}

func TestBridge_PlayCue(t *testing.T) {
	t.Run("skipped before interaction", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		g := gate.New()
		b := New(n, &memPermissions{}, g, zerolog.Nop())

		b.PlayCue()

		assert.Zero(t, n.cues)
	})

	t.Run("plays after interaction", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		g := gate.New()
		g.Trigger()
		b := New(n, &memPermissions{}, g, zerolog.Nop())

		b.PlayCue()

		assert.Equal(t, 1, n.cues)
	})

	t.Run("disabled by config", func(t *testing.T) {
		n := &fakeNotifier{available: true}
		g := gate.New()
		g.Trigger()
		b := New(n, &memPermissions{}, g, zerolog.Nop(), WithSound(false))

		b.PlayCue()

		assert.Zero(t, n.cues)
	})

	t.Run("playback failure is swallowed", func(t *testing.T) {
		n := &fakeNotifier{available: true, cueErr: errors.New("no audio device")}
		g := gate.New()
		g.Trigger()
		b := New(n, &memPermissions{}, g, zerolog.Nop())

		b.PlayCue()
	})
}
