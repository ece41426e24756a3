package guide

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/desertthunder/mixtape/internal/shared"
)

// SystemClipboard reads the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", shared.ErrClipboardUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrClipboardUnavailable, err)
	}
	return text, nil
}

// BrowserOpener opens guide pages in the default browser.
//
// The browser owns the window once launched, so geometry is advisory and the returned handle
// only tracks whether this process considers it closed.
type BrowserOpener struct {
	open func(url string) error
}

func NewBrowserOpener() *BrowserOpener {
	return &BrowserOpener{open: shared.OpenBrowser}
}

func (b *BrowserOpener) Open(url, name string, g Geometry) (Window, error) {
	if err := b.open(url); err != nil {
		return nil, err
	}
	return &browserWindow{}, nil
}

type browserWindow struct {
	mu     sync.Mutex
	closed bool
}

func (w *browserWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *browserWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *browserWindow) Focus() error { return nil }

// Watch polls the clipboard every interval until it holds valid text that differs from what
// was there when watching started, or ctx is done.
//
// Terminals rarely report focus changes, so this stands in for VisibilityChanged in one-shot
// commands.
func (f *Flow) Watch(ctx context.Context, interval time.Duration) (string, error) {
	if f.cfg.Clipboard == nil {
		return "", shared.ErrClipboardUnavailable
	}

	baseline, _ := f.cfg.Clipboard.ReadText()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", shared.ErrNoInputDetected, ctx.Err())
		case <-ticker.C:
			text, err := f.cfg.Clipboard.ReadText()
			if err != nil || text == baseline {
				continue
			}
			if found, ok := f.offer(text); ok {
				return found, nil
			}
		}
	}
}
