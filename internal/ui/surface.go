package ui

import (
	"sync"

	"github.com/desertthunder/moviex/internal/actions"
)

var _ actions.Surface = (*recorder)(nil)

// report is what an action showed, collected for the result view.
type report struct {
	Errors   []string
	Messages []string
	Notices  []string
	Target   string
}

// recorder collects surface calls made while an action runs off the UI goroutine.
type recorder struct {
	mu sync.Mutex
	r  report
}

func (s *recorder) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Errors, s.r.Messages = nil, nil
}

func (s *recorder) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Errors = append(s.r.Errors, msg)
}

func (s *recorder) ShowMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Messages = append(s.r.Messages, msg)
}

func (s *recorder) Notify(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Notices = append(s.r.Notices, msg)
}

func (s *recorder) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Target = path
}

func (s *recorder) snapshot() report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r
}
