// Package session owns slicer sessions: each session holds one validated
// configuration, a mesh, and once sliced its layers, toolpath and
// statistics. The Manager is safe for concurrent use from many goroutines.
package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/MeshSlicer/internal/export"
	"github.com/piwi3910/MeshSlicer/internal/gcode"
	"github.com/piwi3910/MeshSlicer/internal/logging"
	"github.com/piwi3910/MeshSlicer/internal/metrics"
	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/slicer"
	"github.com/piwi3910/MeshSlicer/internal/toolpath"
)

// session is one entry of the registry. Fields below mu are guarded by it;
// busy and progress are read without the lock.
type session struct {
	id string

	busy     atomic.Bool
	progress slicer.Progress

	mu       sync.Mutex
	state    State
	disposed bool
	cancel   context.CancelFunc // Set while a slice is in flight
	config   model.SlicerConfig
	mesh     *model.Mesh
	layers   []model.Layer
	toolpath model.Toolpath
	stats    model.Statistics
	warnings []string
}

// Manager is the registry of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session

	logger  *slog.Logger
	metrics *metrics.Metrics
	workers int
	timeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for lifecycle events and layer warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics reports session and slice metrics to mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithWorkers bounds per-slice layer concurrency. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(m *Manager) { m.workers = n }
}

// WithTimeout bounds every slice run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager creates an empty session registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*session),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create validates cfg and registers a new session in the Created state.
func (m *Manager) Create(cfg model.SlicerConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	s := &session{id: uuid.NewString(), state: StateCreated, config: cfg}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.logger.Info("session created", "session", s.id, "layer_height", cfg.LayerHeight, "profile", cfg.PrinterProfile)
	return s.id, nil
}

func (m *Manager) get(id string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	return s, nil
}

// lock fetches the session and locks it. The caller must unlock.
func (m *Manager) lock(id string) (*session, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	return s, nil
}

// Load stores a private copy of mesh in the session. An invalid mesh is
// rejected and leaves the session unchanged. Loading again before slicing
// replaces the mesh.
func (m *Manager) Load(id string, mesh *model.Mesh) error {
	s, err := m.lock(id)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	if s.busy.Load() {
		return fmt.Errorf("%w: slice in progress", model.ErrSessionBusy)
	}
	if s.state != StateCreated && s.state != StateLoaded {
		return fmt.Errorf("%w: cannot load a mesh in state %s", model.ErrSessionState, s.state)
	}
	if err := mesh.Validate(); err != nil {
		return err
	}

	s.mesh = mesh.Clone()
	s.state = StateLoaded
	m.logger.Info("mesh loaded", "session", id, "vertices", len(mesh.Vertices), "triangles", len(mesh.Triangles))
	return nil
}

// Slice runs the full pipeline on the loaded mesh. Only one slice per
// session may run at a time; a second call fails with ErrSessionBusy.
// On cancellation or timeout the session stays Loaded with no layers.
func (m *Manager) Slice(ctx context.Context, id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	if !s.busy.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: slice in progress", model.ErrSessionBusy)
	}
	defer s.busy.Store(false)

	// Snapshot
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	if s.state != StateLoaded {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot slice in state %s", model.ErrSessionState, state)
	}
	if m.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, m.timeout)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel
	cfg, mesh := s.config, s.mesh
	s.mu.Unlock()

	// Compute
	logger := m.logger.With("session", id)
	start := time.Now()
	layers, err := slicer.New(cfg, slicer.WithWorkers(m.workers), slicer.WithLogger(logger)).Slice(ctx, mesh, &s.progress)

	var (
		tp       model.Toolpath
		stats    model.Statistics
		warnings []string
	)
	if err == nil {
		tp = toolpath.New(cfg).Sequence(layers)
		stats = model.CalculateStatistics(mesh, layers, tp, cfg)
		warnings = collectWarnings(layers)
		profile := model.GetProfile(cfg.PrinterProfile)
		warnings = append(warnings, gcode.FormatViolationWarnings(gcode.CheckBuildVolume(tp, profile), profile)...)
	}
	elapsed := time.Since(start)

	// Commit
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel = nil

	if s.disposed {
		m.metrics.ObserveSlice(metrics.ResultCancelled, elapsed, 0, 0)
		logger.Info("session disposed during slice", "elapsed", elapsed)
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCancelled
		}
		m.metrics.ObserveSlice(result, elapsed, 0, 0)
		logger.Warn("slice aborted", "error", err, "elapsed", elapsed)
		return fmt.Errorf("slicing session %s: %w", id, err)
	}

	s.layers = layers
	s.toolpath = tp
	s.stats = stats
	s.warnings = warnings
	s.state = StateSliced

	m.metrics.ObserveSlice(metrics.ResultOK, elapsed, len(layers), stats.WarningCount)
	logger.Info("slice complete", "layers", len(layers), "warnings", len(warnings), "elapsed", elapsed)
	return nil
}

// collectWarnings flattens per-layer warnings, tagging each with its layer.
func collectWarnings(layers []model.Layer) []string {
	var out []string
	for _, l := range layers {
		for _, w := range l.Warnings {
			out = append(out, fmt.Sprintf("layer %d: %s", l.Index, w))
		}
	}
	return out
}

// sliced locks the session and checks that it has layers. The caller must
// unlock.
func (m *Manager) sliced(id string) (*session, error) {
	s, err := m.lock(id)
	if err != nil {
		return nil, err
	}
	if !s.state.hasLayers() {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session is %s, not sliced", model.ErrSessionState, state)
	}
	return s, nil
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d not in [0, %d)", model.ErrLayerIndexOutOfRange, index, count)
	}
	return nil
}

// GetLayer returns a deep copy of one sliced layer.
func (m *Manager) GetLayer(id string, index int) (model.Layer, error) {
	s, err := m.sliced(id)
	if err != nil {
		return model.Layer{}, err
	}
	defer s.mu.Unlock()

	if err := checkIndex(index, len(s.layers)); err != nil {
		return model.Layer{}, err
	}
	return s.layers[index].Clone(), nil
}

// Preview returns the wire form of one layer. It is the same value the
// JSON export writes for that layer.
func (m *Manager) Preview(id string, index int) (export.LayerData, error) {
	s, err := m.sliced(id)
	if err != nil {
		return export.LayerData{}, err
	}
	defer s.mu.Unlock()

	if err := checkIndex(index, len(s.layers)); err != nil {
		return export.LayerData{}, err
	}
	return export.NewLayerData(s.layers[index]), nil
}

// LayerCount returns the number of sliced layers.
func (m *Manager) LayerCount(id string) (int, error) {
	s, err := m.sliced(id)
	if err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	return len(s.layers), nil
}

// Layers returns deep copies of all sliced layers.
func (m *Manager) Layers(id string) ([]model.Layer, error) {
	s, err := m.sliced(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make([]model.Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Clone()
	}
	return out, nil
}

// Config returns the session configuration.
func (m *Manager) Config(id string) (model.SlicerConfig, error) {
	s, err := m.lock(id)
	if err != nil {
		return model.SlicerConfig{}, err
	}
	defer s.mu.Unlock()
	return s.config, nil
}

// ExportGCode writes the program for the sliced session to w and marks
// the session Exported.
func (m *Manager) ExportGCode(id string, w io.Writer) error {
	return m.export(id, "gcode", func(snap snapshot) error {
		return gcode.New(snap.config).Write(w, snap.toolpath)
	})
}

// ExportJSON writes the layer export to w and marks the session Exported.
func (m *Manager) ExportJSON(id string, w io.Writer) error {
	return m.export(id, "json", func(snap snapshot) error {
		return export.WriteJSON(w, snap.layers)
	})
}

// snapshot is the sliced data an export reads. Layers and toolpath are
// never mutated after commit, so the snapshot is read without the lock.
type snapshot struct {
	config   model.SlicerConfig
	layers   []model.Layer
	toolpath model.Toolpath
}

func (m *Manager) export(id, format string, write func(snapshot) error) error {
	s, err := m.sliced(id)
	if err != nil {
		return err
	}
	snap := snapshot{config: s.config, layers: s.layers, toolpath: s.toolpath}
	s.mu.Unlock()

	if err := write(snap); err != nil {
		return fmt.Errorf("exporting %s for session %s: %w", format, id, err)
	}

	s.mu.Lock()
	if !s.disposed {
		s.state = StateExported
	}
	s.mu.Unlock()
	m.logger.Info("session exported", "session", id, "format", format)
	return nil
}

// Statistics returns filament, time and count totals for a sliced session.
func (m *Manager) Statistics(id string) (model.Statistics, error) {
	s, err := m.sliced(id)
	if err != nil {
		return model.Statistics{}, err
	}
	defer s.mu.Unlock()
	return s.stats, nil
}

// Warnings returns the layer and build-volume warnings of a sliced session.
func (m *Manager) Warnings(id string) ([]string, error) {
	s, err := m.sliced(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return slices.Clone(s.warnings), nil
}

// Status reports the session state and slice progress. It never waits for
// a running slice.
func (m *Manager) Status(id string) (Status, error) {
	s, err := m.lock(id)
	if err != nil {
		return Status{}, err
	}
	state := s.state
	s.mu.Unlock()
	return s.status(state), nil
}

func (s *session) status(state State) Status {
	done, total := s.progress.Snapshot()
	return Status{
		ID:          s.id,
		State:       state,
		Busy:        s.busy.Load(),
		LayersDone:  done,
		LayersTotal: total,
	}
}

// List returns the status of every live session ordered by id.
func (m *Manager) List() []Status {
	m.mu.RLock()
	all := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	out := make([]Status, 0, len(all))
	for _, s := range all {
		s.mu.Lock()
		state := s.state
		s.mu.Unlock()
		out = append(out, s.status(state))
	}
	slices.SortFunc(out, func(a, b Status) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Dispose removes the session. A slice in flight is cancelled; later
// operations on the id fail with ErrSessionNotFound.
func (m *Manager) Dispose(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}

	s.mu.Lock()
	s.disposed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mesh, s.layers, s.toolpath = nil, nil, model.Toolpath{}
	s.mu.Unlock()

	m.metrics.SessionClosed()
	m.logger.Info("session disposed", "session", id)
	return nil
}
