package tasks

import "sync"

// Source records how the current playlist was chosen.
type Source string

const (
	SourceNone Source = "none"
	SourceURL  Source = "url"
	SourceList Source = "list"
)

// SelectedPlaylist is the playlist generation will be seeded from.
type SelectedPlaylist struct {
	ID       string
	Name     string
	URL      string
	ImageURL string
	Source   Source
}

// Empty reports whether nothing is selected.
func (p SelectedPlaylist) Empty() bool {
	return p.ID == ""
}

// Selection holds the current [SelectedPlaylist]. The zero value has nothing selected.
type Selection struct {
	mu      sync.RWMutex
	current SelectedPlaylist
}

func NewSelection() *Selection {
	return &Selection{}
}

// Set replaces the selection.
//
// An empty ID clears it; a non-empty ID with no source counts as picked from a list.
func (s *Selection) Set(p SelectedPlaylist) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case p.ID == "":
		p = SelectedPlaylist{Source: SourceNone}
	case p.Source == "" || p.Source == SourceNone:
		p.Source = SourceList
	}
	s.current = p
}

// Clear resets to no selection.
func (s *Selection) Clear() {
	s.Set(SelectedPlaylist{})
}

// Get returns the current selection.
func (s *Selection) Get() SelectedPlaylist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Empty() {
		return SelectedPlaylist{Source: SourceNone}
	}
	return s.current
}
