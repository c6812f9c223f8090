package engagement

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mchugh/liveblog/internal/client/api"
	"github.com/mchugh/liveblog/internal/platform/logger"
)

// Kind distinguishes the two engagement signals.
type Kind string

const (
	KindView Kind = "view"
	KindLike Kind = "like"
)

// ErrAlreadyEngaged is returned when a signal for an (item, kind) pair is
// already confirmed or in flight. It is informational ("already liked"), not
// a failure.
var ErrAlreadyEngaged = errors.New("engagement already recorded or in flight")

// ContentAPI is the slice of the backend API the tracker needs.
type ContentAPI interface {
	LikeItem(ctx context.Context, id uuid.UUID) (*api.Item, error)
	RecordView(ctx context.Context, id uuid.UUID) error
}

// Defaults
const (
	DefaultDwellTime      = 3 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Config configures a Tracker.
type Config struct {
	API    ContentAPI
	Store  StateStore
	Logger logger.Logger

	// DwellTime is how long an item must stay visible before a view signal
	// fires.
	DwellTime time.Duration

	// RequestTimeout bounds the dwell-triggered view request, which runs
	// without a caller-supplied context.
	RequestTimeout time.Duration

	// OnConfirmed is invoked after a signal is confirmed by the server. The
	// caller should invalidate any cached counters and refetch: the local
	// optimistic state is never the final truth.
	OnConfirmed func(id uuid.UUID, kind Kind)

	// OnFailed is invoked when a submission fails. The pair is back to
	// untouched and may be retried.
	OnFailed func(id uuid.UUID, kind Kind, err error)
}

// Tracker prevents duplicate view/like signals within a persisted browsing
// session. Each (item, kind) pair moves untouched -> pending -> confirmed,
// falling back to untouched on failure. At most one request per pair is ever
// outstanding.
type Tracker struct {
	api            ContentAPI
	store          StateStore
	logger         logger.Logger
	dwellTime      time.Duration
	requestTimeout time.Duration
	onConfirmed    func(id uuid.UUID, kind Kind)
	onFailed       func(id uuid.UUID, kind Kind, err error)

	mu        sync.Mutex
	confirmed map[Kind]map[uuid.UUID]bool
	pending   map[Kind]map[uuid.UUID]bool
	timers    map[uuid.UUID]*time.Timer

	// saveMu orders writes to the store: snapshot and Save happen under the
	// same lock, so an earlier, smaller snapshot can never overwrite a later
	// one.
	saveMu sync.Mutex
}

// NewTracker creates a tracker, loading the persisted dedup state.
func NewTracker(cfg Config) (*Tracker, error) {
	if cfg.DwellTime == 0 {
		cfg.DwellTime = DefaultDwellTime
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	state, err := cfg.Store.Load()
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		api:            cfg.API,
		store:          cfg.Store,
		logger:         cfg.Logger,
		dwellTime:      cfg.DwellTime,
		requestTimeout: cfg.RequestTimeout,
		onConfirmed:    cfg.OnConfirmed,
		onFailed:       cfg.OnFailed,
		confirmed: map[Kind]map[uuid.UUID]bool{
			KindView: make(map[uuid.UUID]bool),
			KindLike: make(map[uuid.UUID]bool),
		},
		pending: map[Kind]map[uuid.UUID]bool{
			KindView: make(map[uuid.UUID]bool),
			KindLike: make(map[uuid.UUID]bool),
		},
		timers: make(map[uuid.UUID]*time.Timer),
	}

	for _, id := range state.Viewed {
		t.confirmed[KindView][id] = true
	}
	for _, id := range state.Liked {
		t.confirmed[KindLike][id] = true
	}

	return t, nil
}

// Like submits a like for the item. It is immediate but single-flight: a
// second trigger while one is pending, or after confirmation, returns
// ErrAlreadyEngaged without issuing a request.
func (t *Tracker) Like(ctx context.Context, id uuid.UUID) error {
	if err := t.begin(id, KindLike); err != nil {
		return err
	}

	_, err := t.api.LikeItem(ctx, id)
	t.finish(id, KindLike, err)
	return err
}

// MarkVisible signals that the item entered the viewport. The view is only
// submitted after the dwell threshold elapses without MarkHidden; nothing
// happens if a view for the item is already pending or confirmed.
func (t *Tracker) MarkVisible(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.confirmed[KindView][id] || t.pending[KindView][id] {
		return
	}
	if _, running := t.timers[id]; running {
		return
	}

	t.timers[id] = time.AfterFunc(t.dwellTime, func() {
		t.submitView(id)
	})
}

// MarkHidden signals that the item left the viewport. A dwell timer that has
// not fired yet is cancelled and the pair stays untouched.
func (t *Tracker) MarkHidden(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
}

// Confirmed reports whether the (item, kind) pair has been confirmed this
// session.
func (t *Tracker) Confirmed(id uuid.UUID, kind Kind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.confirmed[kind][id]
}

// Pending reports whether a request for the (item, kind) pair is in flight.
func (t *Tracker) Pending(id uuid.UUID, kind Kind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending[kind][id]
}

// Close cancels all outstanding dwell timers.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

// submitView runs when a dwell timer fires.
func (t *Tracker) submitView(id uuid.UUID) {
	t.mu.Lock()
	delete(t.timers, id)
	t.mu.Unlock()

	if err := t.begin(id, KindView); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.requestTimeout)
	defer cancel()

	err := t.api.RecordView(ctx, id)
	t.finish(id, KindView, err)
}

// begin performs the guarded untouched -> pending transition. It fails with
// ErrAlreadyEngaged when the pair is already pending or confirmed, which is
// what makes double triggers produce exactly one outstanding request.
func (t *Tracker) begin(id uuid.UUID, kind Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.confirmed[kind][id] || t.pending[kind][id] {
		return ErrAlreadyEngaged
	}
	t.pending[kind][id] = true
	return nil
}

// finish completes a pending transition: to confirmed on success (persisting
// the id) or back to untouched on failure (allowing retry).
func (t *Tracker) finish(id uuid.UUID, kind Kind, err error) {
	t.mu.Lock()
	delete(t.pending[kind], id)

	if err != nil {
		t.mu.Unlock()
		if t.logger != nil {
			t.logger.Warn(context.Background(), "engagement submission failed",
				"item_id", id, "kind", string(kind), "error", err)
		}
		if t.onFailed != nil {
			t.onFailed(id, kind, err)
		}
		return
	}

	t.confirmed[kind][id] = true
	t.mu.Unlock()

	t.persist()
	if t.onConfirmed != nil {
		t.onConfirmed(id, kind)
	}
}

// persist writes the confirmed sets to the store. It holds saveMu across both
// the snapshot and the Save, so concurrent confirmations reach the store in
// snapshot order and every confirmed id ends up persisted.
func (t *Tracker) persist() {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	state := t.snapshotLocked()
	t.mu.Unlock()

	if err := t.store.Save(state); err != nil && t.logger != nil {
		t.logger.Warn(context.Background(), "failed to persist engagement state", "error", err)
	}
}

// snapshotLocked builds the persisted form. Callers must hold t.mu.
func (t *Tracker) snapshotLocked() PersistedState {
	state := PersistedState{
		Viewed: make([]uuid.UUID, 0, len(t.confirmed[KindView])),
		Liked:  make([]uuid.UUID, 0, len(t.confirmed[KindLike])),
	}
	for id := range t.confirmed[KindView] {
		state.Viewed = append(state.Viewed, id)
	}
	for id := range t.confirmed[KindLike] {
		state.Liked = append(state.Liked, id)
	}
	return state
}
