package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/enigma/internal/logging"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/aretw0/enigma/pkg/ports"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and reference count for a specific session.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// liveMachine is a built machine and the key sheet revision it was built from.
type liveMachine struct {
	mach     *machine.Machine
	revision time.Time
}

// Status is a snapshot of a session.
type Status struct {
	Sheet     *domain.KeySheet `json:"sheet"`
	Positions string           `json:"positions"`
}

// Manager orchestrates sessions: it stores key sheets and keeps one machine per
// session in memory, serializing every operation on the same session.
// Rotor positions are never persisted; after a restart a session begins again
// at its key sheet's code.
type Manager struct {
	store  ports.KeySheetStore
	tables *wiring.Tables

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active sessions

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	logger   *slog.Logger
	hooks    domain.Hooks
	machines map[string]*liveMachine // built machines, guarded by mu
	now      func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking of key sheet mutations.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock may be held.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTables sets the wiring tables used to build machines.
func WithTables(tables *wiring.Tables) Option {
	return func(m *Manager) {
		m.tables = tables
	}
}

// WithHooks registers observability hooks on every machine the manager builds.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// NewManager creates a new session Manager backed by the given key sheet store.
func NewManager(store ports.KeySheetStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		tables:   wiring.Default(),
		locks:    make(map[string]*lockEntry),
		machines: make(map[string]*liveMachine),
		lockTTL:  30 * time.Second,
		logger:   logging.NewNop(), // Default to no-op
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the local lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// withDistributedLock wraps WithLock with the optional cross-replica lock.
func (m *Manager) withDistributedLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if m.locker == nil {
			return fn(ctx)
		}
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
		return fn(ctx)
	})
}

// Create validates the settings, stores them as a key sheet and starts a fresh
// machine for the session. An empty sessionID gets a generated one.
// Creating an existing session replaces its key sheet and resets its machine.
func (m *Manager) Create(ctx context.Context, sessionID string, settings domain.Settings) (*domain.KeySheet, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var sheet *domain.KeySheet
	err := m.withDistributedLock(ctx, sessionID, func(ctx context.Context) error {
		mach, err := m.build(settings)
		if err != nil {
			return err
		}

		sheet = &domain.KeySheet{
			Name:      sessionID,
			Settings:  mach.Settings(),
			CreatedAt: m.now().UTC(),
		}
		if err := m.store.Save(ctx, sheet); err != nil {
			return fmt.Errorf("failed to save key sheet: %w", err)
		}
		m.setMachine(sessionID, mach, sheet.CreatedAt)
		m.logger.Info("Session Created", "session_id", sessionID, "rotors", sheet.Settings.Rotors)
		return nil
	})
	return sheet, err
}

// Encrypt runs text through the session's machine, advancing its rotors.
func (m *Manager) Encrypt(ctx context.Context, sessionID, text string) (string, error) {
	out, _, err := m.EncryptWithPositions(ctx, sessionID, text)
	return out, err
}

// EncryptWithPositions is Encrypt that also reports the rotor positions left
// by this call, read before any other operation on the session can run.
func (m *Manager) EncryptWithPositions(ctx context.Context, sessionID, text string) (out, positions string, err error) {
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mach, _, err := m.loadMachine(ctx, sessionID)
		if err != nil {
			return err
		}
		out = mach.EncryptString(text)
		positions = mach.Positions()
		return nil
	})
	return out, positions, err
}

// Reset puts the session's rotors back on the key sheet's code.
func (m *Manager) Reset(ctx context.Context, sessionID string) (string, error) {
	var positions string
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mach, _, err := m.loadMachine(ctx, sessionID)
		if err != nil {
			return err
		}
		mach.Reset()
		positions = mach.Positions()
		m.logger.Debug("Session Reset", "session_id", sessionID, "positions", positions)
		return nil
	})
	return positions, err
}

// Status returns the key sheet and the current rotor positions of a session.
func (m *Manager) Status(ctx context.Context, sessionID string) (*Status, error) {
	var st *Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mach, sheet, err := m.loadMachine(ctx, sessionID)
		if err != nil {
			return err
		}
		st = &Status{Sheet: sheet, Positions: mach.Positions()}
		return nil
	})
	return st, err
}

// Delete removes the key sheet and drops the session's machine.
// Deleting an unknown session reports ErrSessionNotFound.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.withDistributedLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
			}
			return err
		}
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return err
		}
		m.dropMachine(sessionID)
		m.logger.Info("Session Deleted", "session_id", sessionID)
		return nil
	})
}

// List returns the known session IDs.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	names, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Store returns the underlying key sheet store.
func (m *Manager) Store() ports.KeySheetStore {
	return m.store
}

func (m *Manager) build(settings domain.Settings) (*machine.Machine, error) {
	return machine.New(m.tables, settings,
		machine.WithHooks(m.hooks),
		machine.WithLogger(m.logger),
	)
}

func (m *Manager) setMachine(sessionID string, mach *machine.Machine, revision time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machines[sessionID] = &liveMachine{mach: mach, revision: revision}
}

func (m *Manager) dropMachine(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.machines, sessionID)
}

// loadMachine returns the live machine of a session together with its stored
// key sheet. The machine is rebuilt at the sheet's code when this process has
// not seen the session yet or when the sheet was replaced since the machine
// was built, for example by another replica sharing the store. A sheet that
// is gone from the store drops the machine.
// The caller must hold the session lock.
func (m *Manager) loadMachine(ctx context.Context, sessionID string) (*machine.Machine, *domain.KeySheet, error) {
	sheet, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.dropMachine(sessionID)
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return nil, nil, fmt.Errorf("failed to load key sheet: %w", err)
	}

	m.mu.Lock()
	live, ok := m.machines[sessionID]
	m.mu.Unlock()
	if ok && live.revision.Equal(sheet.CreatedAt) {
		return live.mach, sheet, nil
	}

	mach, err := m.build(sheet.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("stored key sheet %q is invalid: %w", sessionID, err)
	}
	m.setMachine(sessionID, mach, sheet.CreatedAt)
	if ok {
		m.logger.Info("Session Reloaded", "session_id", sessionID, "positions", mach.Positions())
	} else {
		m.logger.Info("Session Resumed", "session_id", sessionID, "positions", mach.Positions())
	}
	return mach, sheet, nil
}
