package feed

import (
	"sync"

	"github.com/rs/zerolog"
)

// Snapshot is the persisted subset of the store: the ordered notification
// list and the unread counter. Connection state is deliberately excluded;
// it is session-scoped and rebuilt on every start.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// Persister saves and restores feed snapshots.
type Persister interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Store is the single source of truth for notification data. The list is
// ordered newest first; arrivals are prepended, items are removed on
// dismissal and otherwise never rewritten, except for the read flag.
//
// Every item carries a read flag and the unread counter is the number of
// unread items. Replace recomputes the counter from the flags so the two
// never drift apart.
type Store struct {
	mu        sync.RWMutex
	items     []Notification
	unread    int
	persister Persister
	onChange  func()
	onAdd     func(Notification)
	logger    zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPersister enables snapshot persistence. Every mutation writes a new
// snapshot; there is exactly one writer per data dir so last-writer-wins
// is sufficient.
func WithPersister(p Persister) StoreOption {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a feed store. If a persister is configured, the last
// snapshot is rehydrated; a load failure starts an empty feed rather than
// failing the program.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	if s.persister != nil {
		snap, err := s.persister.Load()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to load feed snapshot, starting empty")
			return s
		}
		s.items = snap.Notifications
		s.unread = countUnread(snap.Notifications)
	}

	return s
}

// OnChange registers a callback invoked after every mutation. The callback
// runs outside the store lock. Only one callback is supported; the TUI is
// the sole consumer.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// OnAdd registers a callback invoked with each newly added notification,
// outside the store lock. Replace does not fire it; hydration is not an
// arrival.
func (s *Store) OnAdd(fn func(Notification)) {
	s.mu.Lock()
	s.onAdd = fn
	s.mu.Unlock()
}

// Add prepends a notification and increments the unread counter. The store
// does not deduplicate by id; the dispatcher owns duplicate suppression.
func (s *Store) Add(n Notification) {
	s.mu.Lock()
	n.Read = false
	s.items = append([]Notification{n}, s.items...)
	s.unread++
	s.persistLocked()
	added := s.onAdd
	s.mu.Unlock()
	if added != nil {
		added(n)
	}
	s.notify()
}

// Replace swaps the list wholesale, used on hydration from the marketplace
// API. The unread counter is recomputed from the items' read flags.
func (s *Store) Replace(items []Notification) {
	s.mu.Lock()
	s.items = make([]Notification, len(items))
	copy(s.items, items)
	s.unread = countUnread(s.items)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// MarkRead flags a notification as read and decrements the unread counter,
// floored at zero. Returns false if the id is unknown. Marking an
// already-read item is a no-op.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		found = true
		if !s.items[i].Read {
			s.items[i].Read = true
			if s.unread > 0 {
				s.unread--
			}
			s.persistLocked()
		}
		break
	}
	s.mu.Unlock()
	if found {
		s.notify()
	}
	return found
}

// Remove dismisses a notification by id. The unread counter is not
// adjusted; dismissal is not acknowledgement.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	removed := false
	out := s.items[:0]
	for _, n := range s.items {
		if n.ID == id {
			removed = true
			continue
		}
		out = append(out, n)
	}
	s.items = out
	if removed {
		s.persistLocked()
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
	return removed
}

// ClearUnread resets the unread counter to zero and flags every item read.
func (s *Store) ClearUnread() {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// List returns a copy of the feed, newest first.
func (s *Store) List() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns a notification by id.
func (s *Store) Get(id string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.items {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// Unread returns the current unread count.
func (s *Store) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Len returns the number of notifications in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// persistLocked writes a snapshot. Callers must hold the write lock.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	snap := Snapshot{
		Notifications: make([]Notification, len(s.items)),
		UnreadCount:   s.unread,
	}
	copy(snap.Notifications, s.items)
	if err := s.persister.Save(snap); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist feed snapshot")
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func countUnread(items []Notification) int {
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}
