package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/trackmysleep/internal/config"
	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/report"
	"github.com/jask/trackmysleep/internal/service"
)

// ClearedMessage is the snackbar text shown after the history is cleared.
const ClearedMessage = "All your data is gone forever"

// App is the sleep tracker program: a tracker screen and a quality screen.
type App struct {
	ctx      context.Context
	tracker  *service.Tracker
	quality  *service.QualityService
	states   <-chan service.State
	unsub    func()
	tz       *time.Location
	layout   string
	snackFor time.Duration

	screen   screen
	state    service.State
	rating   repository.Night // night on the quality screen
	qCursor  int
	status   string
	failed   bool
	snackbar string
	snackSeq int

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	width    int
	ready    bool
}

type screen string

const (
	screenTracker screen = "tracker"
	screenQuality screen = "quality"
)

// New builds the app and subscribes to tracker state. The tracker must
// outlive the program.
func New(ctx context.Context, cfg config.Config, tracker *service.Tracker, quality *service.QualityService, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	states, unsub := tracker.Subscribe()
	a := &App{
		ctx:      ctx,
		tracker:  tracker,
		quality:  quality,
		states:   states,
		unsub:    unsub,
		tz:       tz,
		layout:   cfg.UI.DateFormat,
		snackFor: time.Duration(cfg.UI.SnackbarSeconds) * time.Second,
		screen:   screenTracker,
		qCursor:  3,
		keys:     defaultKeys(),
		help:     help.New(),
		viewport: viewport.New(80, 12),
	}
	a.applyState(tracker.State())
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.initCmd(), a.waitForState(), a.waitForEvent())
}

// Close drops the state subscription.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.help.Width = m.Width
		a.viewport.Width = m.Width
		// title, night line, buttons, status, snackbar, help
		h := m.Height - 8
		if h < 3 {
			h = 3
		}
		a.viewport.Height = h
		a.ready = true
		return a, nil
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.screen == screenQuality {
			return a.handleQualityKey(m)
		}
		return a.handleTrackerKey(m)
	case stateMsg:
		a.applyState(service.State(m))
		return a, a.waitForState()
	case eventMsg:
		return a, tea.Batch(a.handleEvent(service.Event(m)), a.waitForEvent())
	case ratedMsg:
		a.screen = screenTracker
		a.status, a.failed = fmt.Sprintf("night #%d rated %s", m.Night.ID, report.QualityString(m.Night.Quality)), false
		return a, nil
	case snackbarExpiredMsg:
		if m.seq == a.snackSeq {
			a.snackbar = ""
		}
		return a, nil
	case statusMsg:
		a.status, a.failed = string(m), false
		return a, nil
	case errMsg:
		a.status, a.failed = "error: "+m.Error(), true
		return a, nil
	}
	return a, nil
}

func (a *App) handleTrackerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Start):
		a.status = "starting..."
		return a, a.startCmd()
	case key.Matches(m, a.keys.Stop):
		a.status = "stopping..."
		return a, a.stopCmd()
	case key.Matches(m, a.keys.Clear):
		a.status = "clearing..."
		return a, a.clearCmd()
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(m)
	return a, cmd
}

func (a *App) handleQualityKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Skip):
		a.screen = screenTracker
		a.status, a.failed = fmt.Sprintf("night #%d left unrated", a.rating.ID), false
		return a, nil
	case key.Matches(m, a.keys.Left):
		if a.qCursor > report.MinQuality {
			a.qCursor--
		}
		return a, nil
	case key.Matches(m, a.keys.Right):
		if a.qCursor < report.MaxQuality {
			a.qCursor++
		}
		return a, nil
	case key.Matches(m, a.keys.Rate):
		return a, a.rateCmd(a.rating.ID, a.qCursor)
	}
	if m.Type == tea.KeyRunes && len(m.Runes) == 1 {
		if q := int(m.Runes[0] - '0'); q >= report.MinQuality && q <= report.MaxQuality {
			a.qCursor = q
			return a, a.rateCmd(a.rating.ID, q)
		}
	}
	return a, nil
}

func (a *App) handleEvent(ev service.Event) tea.Cmd {
	switch ev.Kind {
	case service.EventNavigateToQuality:
		a.screen = screenQuality
		a.rating = ev.Night
		a.qCursor = 3
		a.status = ""
	case service.EventShowSnackbar:
		a.snackbar = ClearedMessage
		a.snackSeq++
		if a.snackFor <= 0 {
			return nil
		}
		seq := a.snackSeq
		return tea.Tick(a.snackFor, func(time.Time) tea.Msg { return snackbarExpiredMsg{seq: seq} })
	}
	return nil
}

// applyState mirrors the derived flags onto the key bindings so disabled
// actions neither fire nor show in help.
func (a *App) applyState(s service.State) {
	a.state = s
	a.keys.Start.SetEnabled(s.StartVisible)
	a.keys.Stop.SetEnabled(s.StopVisible)
	a.keys.Clear.SetEnabled(s.ClearVisible)
	a.viewport.SetContent(report.FormatNights(s.Nights, a.layout, a.tz))
}

// commands
func (a *App) initCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.tracker.Init(a.ctx); err != nil {
			return errMsg{err}
		}
		return statusMsg("")
	}
}

func (a *App) startCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := a.tracker.StartTracking(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("tracking night #%d", n.ID))
	}
}

func (a *App) stopCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := a.tracker.StopTracking(a.ctx)
		if err != nil {
			if errors.Is(err, service.ErrNoOpenNight) {
				return statusMsg("nothing to stop")
			}
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("slept %s", report.FormatDuration(n.Duration())))
	}
}

func (a *App) clearCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.tracker.Clear(a.ctx); err != nil {
			return errMsg{err}
		}
		return statusMsg("")
	}
}

func (a *App) rateCmd(nightID int64, quality int) tea.Cmd {
	return func() tea.Msg {
		if a.quality == nil {
			return errMsg{fmt.Errorf("quality service not configured")}
		}
		n, err := a.quality.SetQuality(a.ctx, nightID, quality)
		if err != nil {
			return errMsg{err}
		}
		if err := a.tracker.Refresh(a.ctx); err != nil {
			return errMsg{err}
		}
		return ratedMsg{Night: n}
	}
}

func (a *App) waitForState() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-a.states
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.tracker.Events()
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// messages
type stateMsg service.State

type eventMsg service.Event

type ratedMsg struct {
	Night repository.Night
}

type snackbarExpiredMsg struct{ seq int }

type statusMsg string

type errMsg struct{ error }
