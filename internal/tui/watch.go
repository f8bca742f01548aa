package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/wiggumlabs/ralphctl/internal/loop"
)

// refreshInterval is the polling fallback for state changes the watcher
// misses (the state file is replaced by rename, and editors or remote
// filesystems can defeat inotify).
const refreshInterval = 2 * time.Second

type fileChangedMsg struct{}
type tickMsg time.Time

// Watch is the live status view. It re-renders whenever the state file
// changes and on a coarse tick fallback.
type Watch struct {
	store    *loop.Store
	watcher  *fsnotify.Watcher
	spinner  spinner.Model
	state    *loop.State
	loadErr  error
	quitting bool
}

// NewWatch creates the watch view over the given store. stateDir is the
// directory holding the state file; the directory is watched rather than the
// file so atomic rename replacement keeps delivering events.
func NewWatch(store *loop.Store, stateDir string) (*Watch, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(stateDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch state directory: %w", err)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	w := &Watch{
		store:   store,
		watcher: watcher,
		spinner: sp,
	}
	w.reload()
	return w, nil
}

// Run blocks until the user quits the view.
func (w *Watch) Run() error {
	defer func() { _ = w.watcher.Close() }()

	p := tea.NewProgram(w)
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (w *Watch) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, w.waitForChange(), tick())
}

// Update implements tea.Model.
func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			w.quitting = true
			return w, tea.Quit
		}
		return w, nil

	case fileChangedMsg:
		w.reload()
		return w, w.waitForChange()

	case tickMsg:
		w.reload()
		return w, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	return w, nil
}

// View implements tea.Model.
func (w *Watch) View() string {
	if w.quitting {
		return ""
	}
	if w.loadErr != nil {
		return cancelledStyle.Render("error: "+w.loadErr.Error()) + "\n"
	}

	out := RenderState(w.state)
	if w.state != nil && w.state.Active {
		out += "\n" + w.spinner.View() + mutedStyle.Render(" waiting for next iteration")
	}
	out += "\n" + mutedStyle.Render("q to quit")
	return out + "\n"
}

// reload re-reads the snapshot from the store.
func (w *Watch) reload() {
	state, err := w.store.Status()
	w.state, w.loadErr = state, err
}

// waitForChange blocks on the next relevant filesystem event.
func (w *Watch) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					return fileChangedMsg{}
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				// Re-read on watcher errors; the tick fallback covers gaps.
				return fileChangedMsg{}
			}
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
