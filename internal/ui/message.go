package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgListLoaded
	MsgActionDone
)

type progressEvent struct {
	gen    int
	update tasks.ProgressUpdate
	wait   tea.Cmd // reads the next event of the same pass
}

type listLoaded struct {
	gen   int
	scope models.Scope
	count int
	err   error
}

type actionDone struct {
	name   string
	report report
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(gen int, update tasks.ProgressUpdate, wait tea.Cmd) Msg {
	return Msg{kind: MsgProgressUpdate, data: progressEvent{gen: gen, update: update, wait: wait}}
}

// listLoadedMsg is the constructor for [MsgListLoaded]
func listLoadedMsg(gen int, scope models.Scope, count int, err error) Msg {
	return Msg{kind: MsgListLoaded, data: listLoaded{gen: gen, scope: scope, count: count, err: err}}
}

// waitForProgress returns a command reading one event of render pass gen.
// After progress closes it yields the pass's completion message.
func waitForProgress(gen int, progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	var wait tea.Cmd
	wait = func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(gen, update, wait)
	}
	return wait
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(name string, r report, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionDone{name: name, report: r, err: err}}
}
