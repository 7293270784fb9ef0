// Package controller owns the preference record and publishes the derived
// theme to subscribers.
package controller

import (
	"context"
	"log/slog"
	"sync"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"
	"biomas/internal/palette"
	"biomas/internal/services"
	"biomas/internal/theme"
)

// State of the controller lifecycle
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used by the controller and its save queue
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSaveHook registers fn to receive the result of every save. It runs on
// the save queue goroutine.
func WithSaveHook(fn func(services.SaveResult)) Option {
	return func(c *Controller) {
		c.saveHook = fn
	}
}

// Listener receives every replacement theme
type Listener = func(theme.DerivedTheme)

type subscription struct {
	id string
	fn Listener
}

type mutation struct {
	name  string
	apply func(preferences.PreferenceRecord) preferences.PreferenceRecord
}

type publication struct {
	subs  []subscription
	theme theme.DerivedTheme
}

// Controller is the single owner of the preference record. Change requests
// received before the stored record is loaded are queued and replayed in
// order once the controller is ready.
type Controller struct {
	store    preferences.Store
	memo     *theme.Memo
	writer   *services.Writer
	logger   *slog.Logger
	saveHook func(services.SaveResult)

	mu         sync.Mutex
	state      State
	record     preferences.PreferenceRecord
	current    theme.DerivedTheme
	pending    []mutation
	subs       []subscription
	readyCh    chan struct{}
	outbox     []publication
	delivering bool
}

// New creates a controller and starts loading the stored record
func New(ctx context.Context, store preferences.Store, registry *palette.Registry, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		memo:    theme.NewMemo(registry),
		logger:  slog.Default(),
		state:   StateUninitialized,
		record:  preferences.DefaultRecord(),
		readyCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.current = c.memo.Derive(c.record)
	c.writer = services.NewWriter(ctx, store, c.logger, c.onSaveResult)

	c.state = StateLoading
	go c.load(ctx)

	return c
}

func (c *Controller) load(ctx context.Context) {
	record := preferences.DefaultRecord()
	if raw, ok := c.store.Load(ctx); ok {
		record = preferences.Normalize(raw)
	} else {
		c.logger.Debug("No stored preferences, using defaults")
	}

	c.mu.Lock()
	c.record = record
	c.current = c.memo.Derive(record)
	c.state = StateReady

	c.publishLocked(c.current)
	for _, m := range c.pending {
		if th, changed := c.applyLocked(m); changed {
			c.publishLocked(th)
		}
	}
	replayed := len(c.pending)
	c.pending = nil

	c.logger.Info("Preferences ready",
		"color_mode", record.ColorMode,
		"font_scale", record.FontScale,
		"font_family", record.FontFamily,
		"libras_enabled", record.LibrasEnabled,
		"replayed", replayed)

	c.drainLocked()
	close(c.readyCh)
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready is closed once the stored record has been loaded and published
func (c *Controller) Ready() <-chan struct{} {
	return c.readyCh
}

// Theme returns the latest theme. Before the controller is ready it is the
// theme derived from the default record.
func (c *Controller) Theme() theme.DerivedTheme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Record returns a copy of the authoritative record
func (c *Controller) Record() preferences.PreferenceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Subscribe registers fn for every theme replacement. Listeners run
// synchronously in mutation order. A setter called from inside a listener
// is applied at once and published after the current delivery finishes.
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	id := common.GenerateUUID()

	c.mu.Lock()
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// SetColorMode selects the palette. Unknown modes resolve to the default.
func (c *Controller) SetColorMode(mode preferences.ColorMode) {
	c.mutate(mutation{name: "color_mode", apply: func(r preferences.PreferenceRecord) preferences.PreferenceRecord {
		r.ColorMode = preferences.ParseColorMode(string(mode))
		return r
	}})
}

// SetFontScale sets the font multiplier, clamped to the slider range
func (c *Controller) SetFontScale(scale float64) {
	c.mutate(mutation{name: "font_scale", apply: func(r preferences.PreferenceRecord) preferences.PreferenceRecord {
		r.FontScale = preferences.ClampFontScale(scale)
		return r
	}})
}

// SetFontFamily sets the font family. An empty family resolves to System.
func (c *Controller) SetFontFamily(family preferences.FontFamily) {
	c.mutate(mutation{name: "font_family", apply: func(r preferences.PreferenceRecord) preferences.PreferenceRecord {
		r.FontFamily = preferences.ResolveFontFamily(string(family))
		return r
	}})
}

// SetLibrasEnabled toggles the sign-language interpreter overlay
func (c *Controller) SetLibrasEnabled(enabled bool) {
	c.mutate(mutation{name: "libras_enabled", apply: func(r preferences.PreferenceRecord) preferences.PreferenceRecord {
		r.LibrasEnabled = enabled
		return r
	}})
}

// ApplyStaged commits all four fields as a single change: one derivation,
// one publication and one save.
func (c *Controller) ApplyStaged(staged preferences.PreferenceRecord) {
	c.mutate(mutation{name: "staged", apply: func(preferences.PreferenceRecord) preferences.PreferenceRecord {
		return staged.Validate()
	}})
}

// ApplyStagedChanges commits the fields present in changes as a single
// change. Absent fields keep the value they have when the change is applied,
// including changes queued before the stored record is loaded.
func (c *Controller) ApplyStagedChanges(changes preferences.RawRecord) {
	c.mutate(mutation{name: "staged", apply: func(r preferences.PreferenceRecord) preferences.PreferenceRecord {
		return r.Merge(changes)
	}})
}

// Flush waits until every save requested so far has reached the store
func (c *Controller) Flush(ctx context.Context) error {
	return c.writer.Flush(ctx)
}

// Close waits for the load to finish and drains pending saves
func (c *Controller) Close(ctx context.Context) error {
	select {
	case <-c.readyCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	return c.writer.Close(ctx)
}

func (c *Controller) mutate(m mutation) {
	c.mu.Lock()
	if c.state != StateReady {
		c.pending = append(c.pending, m)
		c.mu.Unlock()
		c.logger.Debug("Preference change queued until ready", "change", m.name)
		return
	}

	if th, changed := c.applyLocked(m); changed {
		c.publishLocked(th)
	}
	c.drainLocked()
}

// applyLocked must be called with c.mu held
func (c *Controller) applyLocked(m mutation) (theme.DerivedTheme, bool) {
	next := m.apply(c.record)
	if next == c.record {
		return c.current, false
	}

	c.record = next
	c.current = c.memo.Derive(next)

	if _, err := c.writer.Enqueue(next); err != nil {
		c.logger.Warn("Preference change not persisted", "change", m.name, "error", err)
	}

	c.logger.Debug("Preferences changed", "change", m.name)
	return c.current, true
}

// publishLocked must be called with c.mu held. It queues th for the
// subscribers registered now.
func (c *Controller) publishLocked(th theme.DerivedTheme) {
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.outbox = append(c.outbox, publication{subs: subs, theme: th})
}

// drainLocked must be called with c.mu held and releases it. The first
// caller delivers queued publications in order until the outbox is empty;
// callers arriving meanwhile, including listeners, leave theirs queued.
func (c *Controller) drainLocked() {
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	for len(c.outbox) > 0 {
		p := c.outbox[0]
		c.outbox = c.outbox[1:]
		c.mu.Unlock()

		for _, s := range p.subs {
			c.notify(s, p.theme)
		}

		c.mu.Lock()
	}

	c.outbox = nil
	c.delivering = false
	c.mu.Unlock()
}

func (c *Controller) notify(s subscription, th theme.DerivedTheme) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Theme listener panicked", "subscription", s.id, "panic", r)
		}
	}()
	s.fn(th)
}

func (c *Controller) onSaveResult(result services.SaveResult) {
	if !result.OK() {
		c.logger.Warn("Keeping in-memory preferences after failed save", "seq", result.Seq)
	}
	if c.saveHook != nil {
		c.saveHook(result)
	}
}
