package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gubarz/studymd/internal/store"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Items
// ============================================================================

// Item is one browsable problem
type Item struct {
	ID         int64 // Store row id, 0 when browsing an unsaved parse
	Category   string
	Title      string
	Difficulty string
	Status     string
	LeetCode   string
	YouTube    string
}

// StatusFunc persists a status change; a nil StatusFunc keeps changes in memory
type StatusFunc func(item Item, status string) error

// Linker opens and copies problem links
type Linker interface {
	Open(url string) error
	Copy(text string) error
}

// problemItem wraps an Item with its lower-cased search text
type problemItem struct {
	item   Item
	search string
}

func newProblemItem(item Item) *problemItem {
	return &problemItem{
		item:   item,
		search: strings.ToLower(item.Category + " " + item.Title + " " + item.Difficulty + " " + item.Status),
	}
}

// matchesQuery checks if the item matches all search words
func (p *problemItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !strings.Contains(p.search, word) {
			return false
		}
	}
	return true
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Browse Model
// ============================================================================

type browseModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	items    []*problemItem
	filtered []*problemItem
	cursor   int
	offset   int // viewport scroll offset

	saveStatus StatusFunc
	links      Linker
	notice     string
	noticeErr  bool
}

func newBrowseModel(items []Item, save StatusFunc, links Linker) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter by pattern, title, difficulty or status..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	wrapped := make([]*problemItem, len(items))
	for i, item := range items {
		wrapped[i] = newProblemItem(item)
	}

	return browseModel{
		textInput:  ti,
		items:      wrapped,
		filtered:   wrapped,
		saveStatus: save,
		links:      links,
	}
}

// Init implements tea.Model
func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case filterMsg:
		m.filterItems()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes navigation and action keys; typing falls through to the input
func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit, true
	case "enter":
		m.cycleStatus()
	case " ":
		// Space separates filter words once a query is started
		if m.textInput.Value() != "" {
			return nil, false
		}
		m.cycleStatus()
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.cursor = 0
		m.adjustOffset()
	case "end", "ctrl+e":
		m.cursor = max(0, len(m.filtered)-1)
		m.adjustOffset()
	case "ctrl+o":
		m.withCurrent(func(p *problemItem) { m.report(m.links.Open(p.item.LeetCode), "Opened LeetCode") })
	case "ctrl+y":
		m.withCurrent(func(p *problemItem) { m.report(m.links.Open(p.item.YouTube), "Opened YouTube search") })
	case "ctrl+l":
		m.withCurrent(func(p *problemItem) { m.report(m.links.Copy(p.item.LeetCode), "Copied link") })
	default:
		return nil, false
	}
	return nil, true
}

func (m *browseModel) withCurrent(fn func(p *problemItem)) {
	if m.cursor < len(m.filtered) {
		fn(m.filtered[m.cursor])
	}
}

func (m *browseModel) report(err error, ok string) {
	if err != nil {
		m.notice = err.Error()
		m.noticeErr = true
		return
	}
	m.notice = ok
	m.noticeErr = false
}

// cycleStatus advances the selected problem to its next status
func (m *browseModel) cycleStatus() {
	if m.cursor >= len(m.filtered) {
		return
	}
	p := m.filtered[m.cursor]
	next := store.NextStatus(p.item.Status)

	if m.saveStatus != nil {
		if err := m.saveStatus(p.item, next); err != nil {
			m.report(err, "")
			return
		}
	}

	p.item.Status = next
	p.search = newProblemItem(p.item).search
	m.report(nil, fmt.Sprintf("%s → %s", p.item.Title, next))
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *browseModel) moveCursor(delta int) {
	m.cursor += delta
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *browseModel) adjustOffset() {
	viewHeight := maxInt(m.height-10, 3) // approximate list height
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	maxOffset := max(0, len(m.filtered)-viewHeight)
	m.offset = clamp(m.offset, 0, maxOffset)
}

// filterItems filters the list based on the search query
func (m *browseModel) filterItems() {
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.items
	} else {
		words := strings.Fields(strings.ToLower(query))
		m.filtered = make([]*problemItem, 0, len(m.items))
		for _, item := range m.items {
			if item.matchesQuery(words) {
				m.filtered = append(m.filtered, item)
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	width := maxInt(m.width, 80)
	height := maxInt(m.height, 24)

	preview := m.renderPreview(width)
	previewLines := countLines(preview)

	inputLines := 3 // divider + info + input
	listHeight := maxInt(height-previewLines-inputLines, 3)
	list := m.renderList(listHeight, width)
	listLines := countLines(list)

	padding := maxInt(height-previewLines-listLines-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))
	return b.String()
}

// renderPreview shows the selected problem with its links
func (m browseModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0
	const maxLines = 5

	if m.cursor < len(m.filtered) {
		item := m.filtered[m.cursor].item
		b.WriteString(styles.Category.Render(item.Category))
		b.WriteString("\n")
		b.WriteString(styles.PreviewTitle.Render(item.Title))
		b.WriteString("  ")
		b.WriteString(styles.ForDifficulty(item.Difficulty).Render(item.Difficulty))
		b.WriteString("  ")
		b.WriteString(m.statusStyle(item.Status).Render(item.Status))
		b.WriteString("\n")
		b.WriteString(styles.PreviewLink.Render(item.LeetCode))
		b.WriteString("\n")
		b.WriteString(styles.PreviewLink.Render(item.YouTube))
		b.WriteString("\n")
		lines += 4
	}

	for lines < maxLines {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) statusStyle(status string) lipgloss.Style {
	switch status {
	case store.StatusCompleted:
		return styles.Done
	case store.StatusInProgress:
		return styles.Medium
	default:
		return styles.Dim
	}
}

// renderList renders the scrollable problem list
func (m *browseModel) renderList(maxHeight, width int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)

	// Category column takes roughly a third of the row
	catWidth := clamp(width/3, 12, 32)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i].item, i == m.cursor, catWidth, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderListItem renders one row: category, title, difficulty, status marker
func (m browseModel) renderListItem(item Item, selected bool, catWidth, width int) string {
	catStyle, titleStyle, diffStyle := styles.Category, styles.Title, styles.ForDifficulty(item.Difficulty)
	if selected {
		catStyle = styles.WithSelection(catStyle)
		titleStyle = styles.WithSelection(titleStyle)
		diffStyle = styles.WithSelection(diffStyle)
	}

	marker := statusMarker(item.Status)
	titleWidth := maxInt(width-catWidth-18, 10)

	category := padRight(truncateString(item.Category, catWidth), catWidth)
	title := padRight(truncateString(item.Title, titleWidth), titleWidth)
	difficulty := fmt.Sprintf("%-6s", item.Difficulty)

	line := marker + " " + catStyle.Render(category) + " " + titleStyle.Render(title) + " " + diffStyle.Render(difficulty)
	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

func statusMarker(status string) string {
	switch status {
	case store.StatusCompleted:
		return styles.Done.Render("✓")
	case store.StatusInProgress:
		return styles.Medium.Render("◐")
	default:
		return styles.Dim.Render("○")
	}
}

// renderInput renders the footer and filter input
func (m browseModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	done := 0
	for _, p := range m.items {
		if p.item.Status == store.StatusCompleted {
			done++
		}
	}
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d shown • %d done", len(m.filtered), len(m.items), done)))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Enter status • Ctrl+O open • Ctrl+Y video • Ctrl+L copy • ESC exit"))
	if m.notice != "" {
		b.WriteString("  ")
		if m.noticeErr {
			b.WriteString(styles.Error.Render(m.notice))
		} else {
			b.WriteString(styles.Cursor.Render(m.notice))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Run launches the browser over items
func Run(items []Item, save StatusFunc, links Linker, initialQuery string) error {
	if len(items) == 0 {
		return fmt.Errorf("no problems to browse")
	}

	m := newBrowseModel(items, save, links)
	if initialQuery != "" {
		m.textInput.SetValue(initialQuery)
		m.filterItems()
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	_, err := p.Run()
	cleanup()
	return err
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// maxInt returns the larger of a and b
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// padRight pads s with spaces to width display cells
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates a string to maxLen cells with ellipsis
func truncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	return ansi.Truncate(s, maxLen, "...")
}
