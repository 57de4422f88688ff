package testing

import "sync"

// FakeSurface records what an action showed, in order.
type FakeSurface struct {
	mu       sync.Mutex
	Errors   []string
	Messages []string
	Notices  []string
	Visits   []string
	Clears   int
}

func (f *FakeSurface) ClearMessages() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Clears++
}

func (f *FakeSurface) ShowError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors = append(f.Errors, msg)
}

func (f *FakeSurface) ShowMessage(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, msg)
}

func (f *FakeSurface) Notify(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Notices = append(f.Notices, msg)
}

func (f *FakeSurface) Navigate(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Visits = append(f.Visits, path)
}

// LastVisit returns the most recent navigation target, or "".
func (f *FakeSurface) LastVisit() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Visits) == 0 {
		return ""
	}
	return f.Visits[len(f.Visits)-1]
}
