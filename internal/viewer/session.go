// Package viewer holds the interactive state around a loaded toolpath: which file is
// shown, the layer slider, the travel toggle and when the camera should be refitted.
// It drives an Installer that owns whatever the geometry is drawn with.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"toolpath-viewer/internal/camera"
	"toolpath-viewer/internal/gcode"
	"toolpath-viewer/internal/geometry"
	"toolpath-viewer/internal/logging"
	"toolpath-viewer/internal/mathutil"
	"toolpath-viewer/internal/toolpath"
)

var (
	// ErrNoModel is returned by operations that need a loaded model.
	ErrNoModel = errors.New("viewer: no model loaded")
	// ErrSuperseded is returned for a load whose result arrived after a newer load began.
	ErrSuperseded = errors.New("viewer: load superseded")
)

// Installer receives geometry results. Release is always called on the previous result
// before the next one is installed.
type Installer interface {
	Install(res geometry.Result) error
	Release()
}

// Option configures a Session.
type Option func(*Session)

// WithDisplayConfig replaces the default display settings.
func WithDisplayConfig(cfg geometry.DisplayConfig) Option {
	return func(s *Session) { s.display = cfg }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = logging.OrNop(l) }
}

// Details summarizes the loaded model for display.
type Details struct {
	Name            string
	Bounds          mathutil.Box3
	EstimatedHeight float64
	Metadata        map[string]string
	TotalCommands   int
	LayerCount      int
	Layer           int
	Skipped         map[string]int
}

// Session is safe for concurrent use.
type Session struct {
	installer Installer
	display   geometry.DisplayConfig
	log       *slog.Logger

	mu        sync.Mutex
	gen       uint64
	name      string
	model     *toolpath.Model
	layer     int
	autoFit   bool
	fitWanted bool
	installed bool
	visible   mathutil.Box3
}

// NewSession creates a session that installs geometry into installer.
func NewSession(installer Installer, opts ...Option) *Session {
	s := &Session{
		installer: installer,
		display:   geometry.DefaultDisplayConfig(),
		log:       logging.NewNop(),
		visible:   mathutil.EmptyBox(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load interprets text as the file name. On a parse error the previously loaded model
// stays current and the error is returned.
func (s *Session) Load(name, text string) error {
	gen := s.begin()
	model, err := gcode.Interpret(text)
	return s.finish(gen, name, model, err)
}

// LoadAsync is Load on a separate goroutine. The channel yields exactly one value;
// ErrSuperseded means a later load started first and this result was dropped.
func (s *Session) LoadAsync(name, text string) <-chan error {
	gen := s.begin()
	done := make(chan error, 1)
	go func() {
		model, err := gcode.Interpret(text)
		done <- s.finish(gen, name, model, err)
	}()
	return done
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *Session) finish(gen uint64, name string, model *toolpath.Model, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debug("discarding stale load", "file", name, "generation", gen)
		return ErrSuperseded
	}
	if err != nil {
		s.log.Warn("parse failed, keeping previous model", "file", name, "error", err)
		return err
	}

	s.name = name
	s.model = model
	s.layer = max(0, model.MaxLayerIndex())
	s.autoFit = true
	s.fitWanted = false
	s.log.Info("model loaded", "file", name, "layers", model.LayerCount(), "commands", model.TotalCommands)
	return nil
}

// SetLayer selects the highest visible layer, clamped to the model's range.
// It returns the layer actually selected.
func (s *Session) SetLayer(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return 0, ErrNoModel
	}
	s.layer = min(max(n, 0), max(0, s.model.MaxLayerIndex()))
	return s.layer, nil
}

// Layer returns the selected layer.
func (s *Session) Layer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layer
}

// SetTravelVisible toggles non-extruding moves.
func (s *Session) SetTravelVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display.TravelVisible = v
}

// Fit requests a camera refit on the next Refresh. The request is dropped if that
// Refresh has nothing visible.
func (s *Session) Fit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		s.fitWanted = true
	}
}

// VisibleBounds returns the bounds of the installed result, or the empty box.
func (s *Session) VisibleBounds() mathutil.Box3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Refresh releases the installed result, builds geometry for the current selection and
// installs it. The framing is valid only when fitted is true: once after each newly
// loaded file and after Fit, provided something is visible.
func (s *Session) Refresh() (framing camera.Framing, fitted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.installed {
		s.installer.Release()
		s.installed = false
		s.visible = mathutil.EmptyBox()
	}
	if s.model == nil {
		return camera.Framing{}, false, ErrNoModel
	}

	res := geometry.Build(s.model, s.layer, s.display)
	if err := s.installer.Install(res); err != nil {
		return camera.Framing{}, false, fmt.Errorf("viewer: install: %w", err)
	}
	s.installed = true
	s.visible = res.VisibleBounds

	if (s.autoFit || s.fitWanted) && !res.VisibleBounds.IsEmpty() {
		s.autoFit = false
		s.fitWanted = false
		return camera.Frame(res.VisibleBounds), true, nil
	}
	s.fitWanted = false
	return camera.Framing{}, false, nil
}

// Close releases any installed result.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.installed {
		s.installer.Release()
		s.installed = false
	}
}

// Details describes the loaded model.
func (s *Session) Details() (Details, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return Details{}, ErrNoModel
	}
	return Details{
		Name:            s.name,
		Bounds:          s.model.Bounds,
		EstimatedHeight: s.model.EstimatedHeight,
		Metadata:        maps.Clone(s.model.Metadata),
		TotalCommands:   s.model.TotalCommands,
		LayerCount:      s.model.LayerCount(),
		Layer:           s.layer,
		Skipped:         maps.Clone(s.model.Skipped),
	}, nil
}
