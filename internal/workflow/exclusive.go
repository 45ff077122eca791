package workflow

import "sync"

// ExclusiveSection admits one holder at a time. Share a single section
// between every Manager that must not transcode concurrently.
type ExclusiveSection struct {
	mu sync.Mutex
}

// NewExclusiveSection returns an unlocked section.
func NewExclusiveSection() *ExclusiveSection {
	return &ExclusiveSection{}
}

// Do runs fn while holding the section.
func (s *ExclusiveSection) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
