package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/levelcast/internal/demo"
	"github.com/abhisek/levelcast/internal/record"
	"github.com/abhisek/levelcast/internal/screen"
	"github.com/abhisek/levelcast/internal/screens/forecast"
	"github.com/abhisek/levelcast/internal/screens/home"
	"github.com/abhisek/levelcast/internal/screens/loading"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/source"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type downSource struct{}

func (downSource) CurrentLevel(context.Context) (int, error) {
	return 0, &source.ErrSourceUnavailable{}
}
func (downSource) LevelAttempts(context.Context) ([]record.LevelAttempt, error) { return nil, nil }
func (downSource) ReviewItems(context.Context, []int) ([]record.ItemState, error) {
	return nil, nil
}
func (downSource) ReviewOutcomes(context.Context, []int) ([]record.OutcomeCounters, error) {
	return nil, nil
}

func newModel(src source.Source) AppModel {
	svc := session.NewService(src, source.FixedClock{T: now}, session.DefaultOptions(), nil)
	return newAppModel(Options{Service: svc, SourceName: "demo"})
}

// loaded runs the initial build synchronously.
func loaded(t *testing.T, src source.Source) AppModel {
	t.Helper()
	m := newModel(src)
	next, _ := m.Update(m.build()())
	return next.(AppModel)
}

func TestStartsOnLoadingScreen(t *testing.T) {
	m := newModel(demo.New(3, now))
	assert.True(t, m.loading)
	assert.IsType(t, &loading.LoadingScreen{}, m.stack.Active())
	assert.NotNil(t, m.Init())
}

func TestReportReplacesLoadingWithHome(t *testing.T) {
	m := loaded(t, demo.New(3, now))

	assert.False(t, m.loading)
	require.NotNil(t, m.sess.Report)
	assert.IsType(t, &home.HomeScreen{}, m.stack.Active())
	assert.Equal(t, 1, m.stack.Depth())
	assert.Contains(t, m.status(), "demo")
}

func TestBuildFailureShowsLoadingError(t *testing.T) {
	m := loaded(t, downSource{})

	assert.Nil(t, m.sess.Report)
	assert.IsType(t, &loading.LoadingScreen{}, m.stack.Active())
	assert.Contains(t, m.stack.View(100, 30), "--offline")
}

func TestRefreshFailureKeepsReport(t *testing.T) {
	m := loaded(t, demo.New(3, now))
	r := m.sess.Report

	next, _ := m.Update(reportMsg{err: &source.ErrUnauthorized{}})
	m = next.(AppModel)
	assert.Same(t, r, m.sess.Report)
	assert.Equal(t, 2, m.stack.Depth())

	next, _ = m.Update(reportMsg{report: r})
	m = next.(AppModel)
	assert.Equal(t, 1, m.stack.Depth(), "successful refresh should close the error")
}

func TestRefreshFailureUnwindsToHome(t *testing.T) {
	m := loaded(t, demo.New(3, now))
	m.Update(screen.PushMsg{Screen: forecast.New(m.sess)})
	require.Equal(t, 2, m.stack.Depth())

	next, _ := m.Update(reportMsg{err: &source.ErrSourceUnavailable{}})
	m = next.(AppModel)
	assert.Equal(t, 2, m.stack.Depth())
	assert.IsType(t, &loading.LoadingScreen{}, m.stack.Active())

	next, _ = m.Update(reportMsg{report: m.sess.Report})
	m = next.(AppModel)
	assert.Equal(t, 1, m.stack.Depth())
	assert.IsType(t, &home.HomeScreen{}, m.stack.Active())
}

func TestRefreshIgnoredWhileLoading(t *testing.T) {
	m := newModel(demo.New(3, now))
	_, cmd := m.Update(screen.RefreshMsg{})
	assert.Nil(t, cmd)

	m = loaded(t, demo.New(3, now))
	next, cmd := m.Update(screen.RefreshMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, next.(AppModel).loading)
}

func TestEscPopsUnlessCapturing(t *testing.T) {
	m := loaded(t, demo.New(3, now))
	m.Update(screen.PushMsg{Screen: forecast.New(m.sess)})
	require.Equal(t, 2, m.stack.Depth())

	esc := tea.KeyPressMsg{Code: tea.KeyEscape}

	m.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	_, cmd := m.Update(esc)
	if cmd != nil {
		_, isPop := cmd().(screen.PopMsg)
		assert.False(t, isPop, "esc while typing should not pop")
	}
	assert.Equal(t, 2, m.stack.Depth())

	_, cmd = m.Update(esc)
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, m.stack.Depth())
}

func TestCtrlCQuits(t *testing.T) {
	m := loaded(t, demo.New(3, now))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewTooSmall(t *testing.T) {
	m := loaded(t, demo.New(3, now))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	v := next.(AppModel).View()
	assert.True(t, v.AltScreen)
}
