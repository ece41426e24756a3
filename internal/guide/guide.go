// package guide runs the split-screen "find it in Spotify" flow: open Spotify beside the
// terminal, wait for the user to copy a link, and hand the link back once it shows up on the
// clipboard.
//
// Window management and clipboard access are injected as [Opener] and [Clipboard] so the flow
// itself is deterministic and testable; see platform.go for the system implementations.
package guide

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/shared"
)

// WindowName is the target name every guide window shares, so reopening reuses one window.
const WindowName = "spotify"

// Screen is the usable desktop area.
type Screen struct {
	AvailWidth  int
	AvailHeight int
}

// Geometry places a window.
type Geometry struct {
	Width  int
	Height int
	Left   int
	Top    int
}

// PopupGeometry is the right half of s at full height.
func PopupGeometry(s Screen) Geometry {
	half := s.AvailWidth / 2
	return Geometry{Width: half, Height: s.AvailHeight, Left: half, Top: 0}
}

// String renders g as a window features string.
func (g Geometry) String() string {
	return fmt.Sprintf("width=%d,height=%d,left=%d,top=%d", g.Width, g.Height, g.Left, g.Top)
}

// Window is a handle to an opened guide window.
type Window interface {
	Closed() bool
	Close() error
	Focus() error
}

// Opener opens url in a named window.
type Opener interface {
	Open(url, name string, g Geometry) (Window, error)
}

// Clipboard reads the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
}

// State is the phase of a guide flow.
type State string

const (
	StateClosed    State = "closed"
	StateOpen      State = "open"
	StateDetected  State = "detected"
	StateCancelled State = "cancelled"
)

// Config wires a [Flow].
type Config struct {
	URL        string
	Screen     Screen
	Opener     Opener
	Clipboard  Clipboard
	Valid      func(text string) bool // accepts clipboard text worth handing back
	OnDetected func(text string)      // called with accepted clipboard text
	Logger     *log.Logger
}

// Flow tracks one guide window and watches the clipboard for a usable link.
type Flow struct {
	mu       sync.Mutex
	cfg      Config
	logger   *log.Logger
	window   Window
	state    State
	detected string
}

// New creates a closed [Flow].
func New(cfg Config) *Flow {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Valid == nil {
		cfg.Valid = func(string) bool { return false }
	}
	return &Flow{cfg: cfg, logger: logger, state: StateClosed}
}

// State returns the current phase.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Detected returns the last accepted clipboard text.
func (f *Flow) Detected() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detected
}

// Open shows the guide window on the right half of the screen.
// A window this flow opened that is still open is focused instead of reopened.
func (f *Flow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.window != nil && !f.window.Closed() {
		if err := f.window.Focus(); err != nil {
			f.logger.Debug("failed to focus guide window", "error", err)
		}
		f.state = StateOpen
		return nil
	}

	if f.cfg.Opener == nil {
		return fmt.Errorf("%w: no window opener", shared.ErrServiceUnavailable)
	}

	g := PopupGeometry(f.cfg.Screen)
	w, err := f.cfg.Opener.Open(f.cfg.URL, WindowName, g)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.cfg.URL, err)
	}

	f.logger.Debug("opened guide window", "url", f.cfg.URL, "geometry", g.String())
	f.window = w
	f.state = StateOpen
	f.detected = ""
	return nil
}

// CheckClipboard reads the clipboard and hands valid text to OnDetected.
//
// Read failures are ignored: the user can always paste by hand. The same text is handed over
// only once in a row.
func (f *Flow) CheckClipboard() (string, bool) {
	if f.cfg.Clipboard == nil {
		return "", false
	}
	text, err := f.cfg.Clipboard.ReadText()
	if err != nil {
		f.logger.Debug("clipboard unavailable", "error", err)
		return "", false
	}
	return f.offer(text)
}

// VisibilityChanged reacts to the terminal regaining or losing focus.
// Regaining focus checks the clipboard, since the user is likely back from copying a link.
func (f *Flow) VisibilityChanged(visible bool) (string, bool) {
	if !visible {
		return "", false
	}
	return f.CheckClipboard()
}

// Close closes the guide window if it is still open. Closing before anything was detected
// cancels the flow.
func (f *Flow) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.window != nil && !f.window.Closed() {
		err = f.window.Close()
	}
	f.window = nil

	if f.state != StateDetected {
		f.state = StateCancelled
	}
	return err
}

func (f *Flow) offer(text string) (string, bool) {
	if !f.cfg.Valid(text) {
		return "", false
	}

	f.mu.Lock()
	if text == f.detected {
		f.mu.Unlock()
		return text, false
	}
	f.detected = text
	f.state = StateDetected
	onDetected := f.cfg.OnDetected
	f.mu.Unlock()

	f.logger.Debug("detected link on clipboard", "text", text)
	if onDetected != nil {
		onDetected(text)
	}
	return text, true
}
