package ui

import (
	"errors"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/studymd/internal/store"
)

type fakeLinker struct {
	opened []string
	copied []string
	err    error
}

func (f *fakeLinker) Open(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

func (f *fakeLinker) Copy(text string) error {
	f.copied = append(f.copied, text)
	return f.err
}

func sampleItems() []Item {
	return []Item{
		{ID: 1, Category: "Arrays & Hashing", Title: "Two Sum", Difficulty: "Easy", Status: store.StatusNotStarted,
			LeetCode: "https://leetcode.com/problems/two-sum/", YouTube: "https://www.youtube.com/results?search_query=neetcode+Two+Sum"},
		{ID: 2, Category: "Arrays & Hashing", Title: "Group Anagrams", Difficulty: "Medium", Status: store.StatusInProgress,
			LeetCode: "https://leetcode.com/problems/group-anagrams/"},
		{ID: 3, Category: "Stack", Title: "Min Stack", Difficulty: "Medium", Status: store.StatusCompleted,
			LeetCode: "https://leetcode.com/problems/min-stack/"},
	}
}

func press(m browseModel, key string) browseModel {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+o":
		msg = tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+y":
		msg = tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+l":
		msg = tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(browseModel)
}

func TestCursorMovement(t *testing.T) {
	m := newBrowseModel(sampleItems(), nil, &fakeLinker{})

	m = press(m, "up")
	assert.Equal(t, 0, m.cursor)

	m = press(m, "down")
	m = press(m, "down")
	m = press(m, "down")
	assert.Equal(t, 2, m.cursor)

	m = press(m, "end")
	assert.Equal(t, 2, m.cursor)
}

func TestCycleStatusPersists(t *testing.T) {
	var saved []string
	save := func(item Item, status string) error {
		saved = append(saved, item.Title+"="+status)
		return nil
	}
	m := newBrowseModel(sampleItems(), save, &fakeLinker{})

	m = press(m, "enter")
	assert.Equal(t, []string{"Two Sum=" + store.StatusInProgress}, saved)
	assert.Equal(t, store.StatusInProgress, m.items[0].item.Status)

	m = press(m, "enter")
	m = press(m, "enter")
	assert.Equal(t, store.StatusNotStarted, m.items[0].item.Status)
}

func TestCycleStatusKeepsOldValueOnError(t *testing.T) {
	save := func(Item, string) error { return errors.New("database is locked") }
	m := newBrowseModel(sampleItems(), save, &fakeLinker{})

	m = press(m, "enter")
	assert.Equal(t, store.StatusNotStarted, m.items[0].item.Status)
	assert.True(t, m.noticeErr)
	assert.Equal(t, "database is locked", m.notice)
}

func TestSpaceCyclesOnlyWithEmptyQuery(t *testing.T) {
	m := newBrowseModel(sampleItems(), nil, &fakeLinker{})
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	m, _ = updateModel(m, space)
	assert.Equal(t, store.StatusInProgress, m.items[0].item.Status)

	m = press(m, "two")
	m, _ = updateModel(m, space)
	assert.Equal(t, "two ", m.textInput.Value())
	assert.Equal(t, store.StatusInProgress, m.items[0].item.Status)
}

func TestFilterSharesStatusWithFullList(t *testing.T) {
	m := newBrowseModel(sampleItems(), nil, &fakeLinker{})
	m.textInput.SetValue("stack")
	m, _ = updateModel(m, filterMsg{})
	require.Len(t, m.filtered, 1)
	assert.Equal(t, "Min Stack", m.filtered[0].item.Title)

	m = press(m, "enter")
	assert.Equal(t, store.StatusNotStarted, m.items[2].item.Status)
}

func TestFilterMatchesAllWords(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"medium", 2},
		{"arrays medium", 1},
		{"completed", 1},
		{"graphs", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			m := newBrowseModel(sampleItems(), nil, &fakeLinker{})
			m.textInput.SetValue(tt.query)
			m.filterItems()
			assert.Len(t, m.filtered, tt.want)
		})
	}
}

func TestLinkKeys(t *testing.T) {
	links := &fakeLinker{}
	m := newBrowseModel(sampleItems(), nil, links)

	m = press(m, "ctrl+o")
	m = press(m, "ctrl+y")
	m = press(m, "ctrl+l")

	assert.Equal(t, []string{
		"https://leetcode.com/problems/two-sum/",
		"https://www.youtube.com/results?search_query=neetcode+Two+Sum",
	}, links.opened)
	assert.Equal(t, []string{"https://leetcode.com/problems/two-sum/"}, links.copied)
	assert.Equal(t, "Copied link", m.notice)
}

func TestLinkErrorShown(t *testing.T) {
	m := newBrowseModel(sampleItems(), nil, &fakeLinker{err: errors.New("no browser")})
	m = press(m, "ctrl+o")
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.View(), "no browser")
}

func TestEscQuits(t *testing.T) {
	m := newBrowseModel(sampleItems(), nil, &fakeLinker{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, next.(browseModel).quitting)
	assert.Empty(t, next.(browseModel).View())
}

func TestViewShowsSelection(t *testing.T) {
	m := newBrowseModel(sampleItems(), nil, &fakeLinker{})
	m, _ = updateModel(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Two Sum")
	assert.Contains(t, view, "3/3 shown")
	assert.Contains(t, view, "1 done")
}

func TestRunRejectsEmpty(t *testing.T) {
	assert.Error(t, Run(nil, nil, &fakeLinker{}, ""))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0, clamp(-1, 0, 5))
	assert.Equal(t, 5, clamp(9, 0, 5))
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 2, countLines("a\nb"))
	assert.Equal(t, "abc...", truncateString("abcdefghij", 6))
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "短い問題...", truncateString("短い問題のタイトル", 11))
	assert.True(t, utf8.ValidString(truncateString("Ñandú Ñandú Ñandú", 8)))
	assert.Equal(t, 8, ansi.StringWidth(truncateString("Ñandú Ñandú Ñandú", 8)))
	assert.Equal(t, "é  ", padRight("é", 3))

	offset := 0
	start, end := scrollWindow(8, 10, 3, &offset)
	assert.Equal(t, 6, start)
	assert.Equal(t, 9, end)
}

func updateModel(m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(browseModel), cmd
}
