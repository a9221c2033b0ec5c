package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/mine-anything/internal/app"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
)

const (
	frameInterval = 50 * time.Millisecond
	feedTTL       = 6 * time.Second
	headerLines   = 4

	minimapMinWidth = 100
	minimapChars    = 24
)

type AppConfig struct {
	Version   string
	Commit    string
	BuildDate string
}

// App is the terminal host: the page is listed one element per row and
// mined with the keyboard or the mouse.
type App struct {
	cfg AppConfig
	rt  *app.Runtime
}

func NewApp(cfg AppConfig, rt *app.Runtime) *App {
	return &App{cfg: cfg, rt: rt}
}

func (a *App) Run() error {
	m := newMineModel(a.cfg, a.rt)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// --- Styles (retro green) ---
var (
	green       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimGreen    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2")).Padding(0, 1)
)

type keyMap struct {
	Up, Down, Mine, Pause, Cancel, Toggle, Inventory, Block, Console, Quit key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Mine:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "mine")),
	Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "release")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Toggle:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mining mode")),
	Inventory: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inventory")),
	Block:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block site")),
	Console:   key.NewBinding(key.WithKeys("`", ":"), key.WithHelp(":", "debug")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Mine, k.Pause, k.Cancel, k.Toggle, k.Inventory, k.Block, k.Console, k.Quit}
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// --- Mine model ---

type mineModel struct {
	cfg AppConfig
	rt  *app.Runtime

	rows   []*page.Node
	idx    int
	offset int
	height int
	width  int

	invIdx  int
	console textinput.Model
	typing  bool
	bar     progress.Model
	help    help.Model

	last   time.Time
	status string
}

func newMineModel(cfg AppConfig, rt *app.Runtime) mineModel {
	ti := textinput.New()
	ti.Placeholder = "debug command, e.g. add-xp 100"
	ti.Prompt = "🐛 "
	ti.CharLimit = 120
	m := mineModel{
		cfg:     cfg,
		rt:      rt,
		height:  24,
		width:   80,
		console: ti,
		bar:     progress.New(progress.WithGradient("#2E7D32", "#00E5FF"), progress.WithWidth(30)),
		help:    help.New(),
	}
	m.refreshRows()
	return m
}

func (m mineModel) Init() tea.Cmd {
	return frameCmd()
}

// refreshRows lists the visible nodes below body, in document order.
func (m *mineModel) refreshRows() {
	m.rows = m.rows[:0]
	doc := m.rt.Document()
	if doc == nil {
		return
	}
	for _, n := range doc.Nodes() {
		if n.Tag() == "html" || n.Tag() == "body" || !n.Visible() || n.Rect().Height == 0 {
			continue
		}
		m.rows = append(m.rows, n)
	}
	m.idx = clampInt(m.idx, 0, max(0, len(m.rows)-1))
}

func (m mineModel) listHeight() int {
	return max(3, m.height-headerLines-10)
}

func (m *mineModel) follow() {
	lh := m.listHeight()
	if m.idx < m.offset {
		m.offset = m.idx
	}
	if m.idx >= m.offset+lh {
		m.offset = m.idx - lh + 1
	}
	if n := m.selected(); n != nil {
		doc := m.rt.Document()
		doc.ScrollTo(n.Rect().Y - doc.ViewportHeight()/2)
		m.rt.Controller.MouseOver(n)
	}
}

func (m mineModel) selected() *page.Node {
	if m.idx < 0 || m.idx >= len(m.rows) {
		return nil
	}
	return m.rows[m.idx]
}

func (m mineModel) rowAt(y int) *page.Node {
	i := y - headerLines + m.offset
	if y < headerLines || i < 0 || i >= len(m.rows) || i >= m.offset+m.listHeight() {
		return nil
	}
	return m.rows[i]
}

func (m mineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = clampInt(msg.Width/3, 10, 60)
		return m, nil
	case frameMsg:
		now := time.Time(msg)
		delta := frameInterval
		if !m.last.IsZero() {
			delta = now.Sub(m.last)
		}
		m.last = now
		events := m.rt.Step(delta)
		m.rt.HUD.Expire(m.rt.Clock.Now(), feedTTL)
		for _, ev := range events {
			if ev.Kind == game.EventHidden || ev.Kind == game.EventRestored {
				m.refreshRows()
				break
			}
		}
		return m, frameCmd()
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		if m.typing {
			return m.updateConsole(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m mineModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	target := m.rowAt(msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		if target != nil {
			m.rt.Controller.MouseOver(target)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || target == nil {
			return m, nil
		}
		for i, n := range m.rows {
			if n == target {
				m.idx = i
			}
		}
		m.follow()
		m.press(target)
	case tea.MouseActionRelease:
		m.rt.Controller.MouseUp(elementOrNil(target))
	}
	return m, nil
}

// elementOrNil keeps a nil *Node from becoming a non-nil interface.
func elementOrNil(n *page.Node) game.Element {
	if n == nil {
		return nil
	}
	return n
}

func (m *mineModel) press(target *page.Node) {
	if err := m.rt.Controller.MouseDown(0, elementOrNil(target)); err != nil {
		m.status = describeError(err)
		return
	}
	m.status = ""
}

func (m mineModel) updateConsole(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.console.Blur()
		return m, nil
	case tea.KeyEnter:
		line := strings.TrimSpace(m.console.Value())
		m.console.SetValue("")
		if line == "" {
			return m, nil
		}
		lines, err := m.rt.Debug.Run(line)
		if err != nil {
			lines = append(lines, err.Error())
		}
		m.status = strings.Join(lines, "\n")
		return m, nil
	}
	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

func (m mineModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if enc, ok := m.rt.HUD.Top(); ok && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		choice := int(msg.Runes[0] - '1')
		if choice < len(app.Choices(enc)) {
			if enc.Kind == game.SpawnVillager && choice == len(enc.Trades) {
				choice = -1
			}
			text, err := m.rt.Act(enc, choice)
			m.status = text
			if err != nil && text == "" {
				m.status = describeError(err)
			}
			m.refreshRows()
			return m, nil
		}
	}

	if m.rt.Controller.InventoryOpen() {
		if handled, next := m.updateInventory(msg); handled {
			return next, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.idx = clampInt(m.idx-1, 0, max(0, len(m.rows)-1))
		m.follow()
	case key.Matches(msg, keys.Down):
		m.idx = clampInt(m.idx+1, 0, max(0, len(m.rows)-1))
		m.follow()
	case key.Matches(msg, keys.Mine):
		m.press(m.selected())
	case key.Matches(msg, keys.Pause):
		m.rt.Controller.MouseUp(elementOrNil(m.selected()))
	case key.Matches(msg, keys.Cancel):
		m.rt.Controller.KeyDown(game.KeyEvent{Key: "Escape"})
		m.rt.Controller.KeyUp(game.KeyEvent{Key: "Escape"})
	case key.Matches(msg, keys.Toggle):
		m.rt.Controller.Toggle()
	case key.Matches(msg, keys.Inventory):
		m.rt.Controller.KeyDown(game.KeyEvent{Key: "i"})
		m.rt.Controller.KeyUp(game.KeyEvent{Key: "i"})
		m.invIdx = 0
	case key.Matches(msg, keys.Block):
		blocked, err := m.rt.ToggleBlocked(context.Background())
		switch {
		case err != nil:
			m.status = describeError(err)
		case blocked:
			m.status = fmt.Sprintf("Mining disabled on %s", m.rt.Host())
		default:
			m.status = fmt.Sprintf("Mining enabled on %s", m.rt.Host())
		}
	case key.Matches(msg, keys.Console):
		m.typing = true
		m.console.Focus()
	}
	return m, nil
}

// updateInventory handles the keys that mean something else while the
// inventory panel is open.
func (m mineModel) updateInventory(msg tea.KeyMsg) (bool, mineModel) {
	actions := app.InventoryActions(m.rt.Engine.Profile())
	switch {
	case key.Matches(msg, keys.Up):
		m.invIdx = clampInt(m.invIdx-1, 0, max(0, len(actions)-1))
	case key.Matches(msg, keys.Down):
		m.invIdx = clampInt(m.invIdx+1, 0, max(0, len(actions)-1))
	case key.Matches(msg, keys.Mine):
		if m.invIdx < len(actions) {
			if err := actions[m.invIdx].Run(m.rt.Engine); err != nil {
				m.status = describeError(err)
			} else {
				m.status = ""
			}
		}
	default:
		return false, m
	}
	return true, m
}

func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrNotMineable):
		return "Nothing mineable there."
	}
	return "⚠ " + err.Error()
}

func (m mineModel) View() string {
	var b strings.Builder
	p := m.rt.Engine.Profile()
	title := brightGreen.Render("MINE ANYTHING") + dimGreen.Render(fmt.Sprintf("  v%s (%s) %s", m.cfg.Version, m.cfg.Commit, m.cfg.BuildDate))
	b.WriteString(title + "\n")
	b.WriteString(green.Render(app.StatusLine(p, m.rt.Engine.Depth())) + "\n")
	b.WriteString(m.modeLine() + "\n")
	b.WriteString(border.Render(strings.Repeat("─", clampInt(m.width, 20, 120))) + "\n")

	lh := m.listHeight()
	var list strings.Builder
	for i := m.offset; i < len(m.rows) && i < m.offset+lh; i++ {
		list.WriteString(m.renderRow(i) + "\n")
	}
	for i := len(m.rows) - m.offset; i < lh; i++ {
		list.WriteString("\n")
	}

	st := m.rt.Engine.Mining()
	if m.width >= minimapMinWidth {
		minimap := renderMinimapANSI(m.rt.Document(), st.Target, st.Progress, minimapChars, lh)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", minimap) + "\n")
	} else {
		b.WriteString(list.String())
	}

	if st.State == game.StateMining {
		label := "Mining"
		if st.Paused {
			label = "Paused"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", label, describe(st.Target), m.bar.ViewAs(st.Progress)))
	} else {
		b.WriteString("\n")
	}

	if enc, ok := m.rt.HUD.Top(); ok {
		b.WriteString(renderEncounter(enc) + "\n")
	}
	if m.rt.Controller.InventoryOpen() {
		b.WriteString(m.renderInventory(p) + "\n")
	}
	for _, msg := range m.rt.HUD.Messages() {
		b.WriteString(green.Render(msg.Text) + "\n")
	}
	if m.status != "" {
		b.WriteString(brightGreen.Render(m.status) + "\n")
	}
	if m.typing {
		b.WriteString(m.console.View() + "\n")
	}
	b.WriteString(m.help.ShortHelpView(keys.short()))
	return b.String()
}

func (m mineModel) modeLine() string {
	parts := []string{"host " + m.rt.Host()}
	if m.rt.Engine.Disabled() {
		parts = append(parts, warnStyle.Render("BLOCKED"))
	}
	if m.rt.Controller.MiningEnabled() {
		parts = append(parts, brightGreen.Render("⛏️ mining mode"))
	} else {
		parts = append(parts, dimGreen.Render("press m for mining mode"))
	}
	if stage := m.rt.HUD.WardenStage; stage > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("warden stage %d", stage)))
	}
	parts = append(parts, fmt.Sprintf("mined here: %d", m.rt.HUD.MinedOnPage))
	return strings.Join(parts, " · ")
}

func (m mineModel) renderRow(i int) string {
	n := m.rows[i]
	cursor := "  "
	if i == m.idx {
		cursor = "> "
	}
	swatch := "  "
	if c, ok := game.DominantColor(n); ok {
		swatch = lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
	}
	d := game.ElementDepth(n, m.rt.Document())
	line := fmt.Sprintf("%s %4d %s", swatch, d.YCoord, describe(n))
	if hover := m.rt.Controller.Hover(); hover != nil && hover == game.Element(n) {
		line += dimGreen.Render(" ⛏")
	}
	if i == m.idx {
		return cursor + brightGreen.Render(line)
	}
	return cursor + green.Render(line)
}

func describe(el game.Element) string {
	if el == nil {
		return ""
	}
	label := "<" + el.Tag()
	if id := el.ID(); id != "" {
		label += "#" + id
	}
	label += ">"
	if text := strings.Join(strings.Fields(el.Text()), " "); text != "" {
		label += " " + truncate(text, 48)
	}
	return label
}

func renderEncounter(enc app.Encounter) string {
	var b strings.Builder
	b.WriteString(warnStyle.Render(enc.Message))
	for i, c := range app.Choices(enc) {
		b.WriteString(fmt.Sprintf("\n  [%d] %s", i+1, c))
	}
	return panelStyle.Render(b.String())
}

func (m mineModel) renderInventory(p *game.Profile) string {
	var b strings.Builder
	b.WriteString(brightGreen.Render("Inventory") + "\n")
	b.WriteString(strings.Join(app.ResourceLines(p), "  ") + "\n")
	for i, a := range app.InventoryActions(p) {
		cursor := "  "
		if i == m.invIdx {
			cursor = "> "
		}
		style := green
		if !a.Ready {
			style = dimGreen
		}
		b.WriteString(cursor + style.Render(a.Label) + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
