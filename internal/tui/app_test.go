package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/trackmysleep/internal/config"
	"github.com/jask/trackmysleep/internal/database"
	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/service"
)

func testConfig() config.Config {
	return config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite3},
		UI:       config.UIConfig{DateFormat: "2006-01-02 15:04", SnackbarSeconds: 3},
	}
}

func newTestApp(t *testing.T) (*App, *service.Tracker, *repository.NightRepo) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(config.DriverSQLite3, dbPath))
	db, err := database.Open(config.DriverSQLite3, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewNightRepo(db)
	tr := service.NewTracker(repo)
	t.Cleanup(tr.Close)
	require.NoError(t, tr.Init(ctx))

	a := New(ctx, testConfig(), tr, &service.QualityService{Nights: repo}, time.UTC)
	t.Cleanup(a.Close)
	return a, tr, repo
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command once, feeding its message
// back into the app.
func press(t *testing.T, a *App, k tea.KeyMsg) tea.Msg {
	t.Helper()
	_, cmd := a.Update(k)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		a.Update(msg)
	}
	return msg
}

// sync feeds the tracker's current state, as the subscription would.
func sync(a *App, tr *service.Tracker) {
	a.Update(stateMsg(tr.State()))
}

func nextEvent(t *testing.T, tr *service.Tracker) service.Event {
	t.Helper()
	select {
	case ev := <-tr.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
		return service.Event{}
	}
}

func TestTrackerScreenInitialState(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestApp(t)

	view := a.View()
	require.Contains(t, view, "Not tracking")
	require.Contains(t, view, "Here is your sleep data")
	require.True(t, a.keys.Start.Enabled())
	require.False(t, a.keys.Stop.Enabled())
	require.False(t, a.keys.Clear.Enabled())
}

func TestStartStopRateFlow(t *testing.T) {
	t.Parallel()
	a, tr, repo := newTestApp(t)
	ctx := context.Background()

	msg := press(t, a, keyRunes("s"))
	require.Equal(t, statusMsg("tracking night #1"), msg)
	sync(a, tr)
	require.False(t, a.keys.Start.Enabled())
	require.True(t, a.keys.Stop.Enabled())
	require.True(t, a.keys.Clear.Enabled())
	require.Contains(t, a.View(), "Tracking since")

	// start is disabled while a night is open
	press(t, a, keyRunes("s"))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	msg = press(t, a, keyRunes("t"))
	require.IsType(t, statusMsg(""), msg)
	require.True(t, strings.HasPrefix(string(msg.(statusMsg)), "slept "))
	sync(a, tr)

	ev := nextEvent(t, tr)
	require.Equal(t, service.EventNavigateToQuality, ev.Kind)
	a.Update(eventMsg(ev))
	require.Equal(t, screenQuality, a.screen)
	require.Equal(t, ev.Night.ID, a.rating.ID)
	require.Contains(t, a.View(), "How was your sleep?")

	msg = press(t, a, keyRunes("4"))
	require.IsType(t, ratedMsg{}, msg)
	require.Equal(t, screenTracker, a.screen)
	require.Contains(t, a.status, "Pretty good")

	n, err := repo.Get(ctx, ev.Night.ID)
	require.NoError(t, err)
	require.Equal(t, 4, n.Quality)
	sync(a, tr)
	require.Contains(t, a.viewport.View(), "Pretty good")
}

func TestQualityScreenCursorAndSkip(t *testing.T) {
	t.Parallel()
	a, tr, _ := newTestApp(t)
	ctx := context.Background()

	_, err := tr.StartTracking(ctx)
	require.NoError(t, err)
	_, err = tr.StopTracking(ctx)
	require.NoError(t, err)
	a.Update(eventMsg(nextEvent(t, tr)))
	require.Equal(t, screenQuality, a.screen)

	require.Equal(t, 3, a.qCursor)
	press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 5, a.qCursor)
	for i := 0; i < 7; i++ {
		press(t, a, keyRunes("h"))
	}
	require.Equal(t, 0, a.qCursor)

	press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, screenTracker, a.screen)
	require.Contains(t, a.status, "unrated")
}

func TestQualityScreenEnterRatesCursor(t *testing.T) {
	t.Parallel()
	a, tr, repo := newTestApp(t)
	ctx := context.Background()

	_, err := tr.StartTracking(ctx)
	require.NoError(t, err)
	stopped, err := tr.StopTracking(ctx)
	require.NoError(t, err)
	a.Update(eventMsg(nextEvent(t, tr)))

	press(t, a, keyRunes("h"))
	msg := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, ratedMsg{}, msg)

	n, err := repo.Get(ctx, stopped.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n.Quality)
}

func TestClearShowsSnackbarUntilExpired(t *testing.T) {
	t.Parallel()
	a, tr, _ := newTestApp(t)
	ctx := context.Background()

	_, err := tr.StartTracking(ctx)
	require.NoError(t, err)
	sync(a, tr)

	press(t, a, keyRunes("c"))
	sync(a, tr)
	require.True(t, a.keys.Start.Enabled())
	require.False(t, a.keys.Clear.Enabled())

	ev := nextEvent(t, tr)
	require.Equal(t, service.EventShowSnackbar, ev.Kind)
	_, cmd := a.Update(eventMsg(ev))
	require.NotNil(t, cmd)
	require.Contains(t, a.View(), ClearedMessage)

	// an older timer does not hide a newer snackbar
	a.Update(snackbarExpiredMsg{seq: a.snackSeq - 1})
	require.Equal(t, ClearedMessage, a.snackbar)
	a.Update(snackbarExpiredMsg{seq: a.snackSeq})
	require.Empty(t, a.snackbar)
}

func TestErrorsLandInStatus(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestApp(t)
	a.Update(errMsg{context.DeadlineExceeded})
	require.Contains(t, a.View(), "error: context deadline exceeded")
}

func TestQuitAndWindowSize(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestApp(t)

	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Equal(t, 100, a.viewport.Width)
	require.Equal(t, 22, a.viewport.Height)

	_, cmd := a.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
