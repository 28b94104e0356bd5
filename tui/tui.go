package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaimleib/antares/engine"
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/engine/save"
	"github.com/chaimleib/antares/types"
)

const (
	framesPerSecond = 10
	ticksPerFrame   = types.TicksPerSecond / framesPerSecond
	maxSpeed        = 16
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// feed collects what the engine reports between frames. It is the
// engine's message and sound collaborator.
type feed struct {
	lines []rawLine
	trace bool
}

func (f *feed) Start(first, last int32) {
	text := fmt.Sprintf("[message %d]", first)
	if first != last {
		text = fmt.Sprintf("[message %d-%d]", first, last)
	}
	f.lines = append(f.lines, rawLine{text: text, kind: kindMessage})
}

func (f *feed) SetStatus(text string) {
	f.lines = append(f.lines, rawLine{text: "» " + text, kind: kindStatus})
}

func (f *feed) Play(id, volume int32, _ types.Ticks, _ int32, at *object.SpaceObject) {
	if !f.trace {
		return
	}
	where := "absolute"
	if at != nil {
		where = at.Name
	}
	f.lines = append(f.lines, rawLine{
		text: fmt.Sprintf("[trace] sound %d volume %d at %s", id, volume, where),
		kind: kindTrace,
	})
}

func (f *feed) drain() []rawLine {
	lines := f.lines
	f.lines = nil
	return lines
}

type keyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Scroll key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Scroll, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Pause:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pause")),
	Faster: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^f", "faster")),
	Slower: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("^b", "slower")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "quit")),
}

// Model is the Bubble Tea model for the Antares HUD.
type Model struct {
	engine *engine.Engine
	feed   *feed

	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	paused   bool
	speed    int
	quitting bool
	lastCmd  string
	saveDir  string
}

// frameMsg advances the level clock by one frame.
type frameMsg time.Time

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []rawLine
	isSystem bool // true for meta-command output
}

// Option configures a Model.
type Option func(*Model)

// WithSpeed sets the starting clock speed, clamped to 1..16.
func WithSpeed(n int) Option {
	return func(m *Model) { m.speed = max(1, min(n, maxSpeed)) }
}

// WithSaveDir sets the directory /save writes results to.
func WithSaveDir(dir string) Option {
	return func(m *Model) { m.saveDir = dir }
}

// New creates a TUI model wired to the given engine. The clock starts
// running at real time unless WithSpeed says otherwise.
func New(eng *engine.Engine, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	f := &feed{}
	eng.Ctx.Messages = f
	eng.Ctx.Sound = f

	h := help.New()
	h.Styles.ShortKey = styleHelp
	h.Styles.ShortDesc = styleHelp

	home, _ := os.UserHomeDir()
	m := Model{
		engine:  eng,
		feed:    f,
		input:   ti,
		help:    h,
		history: NewHistory(100),
		speed:   1,
		saveDir: filepath.Join(home, ".antares", "results"),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, opts ...Option) error {
	m := New(eng, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the commands that print the intro and start the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return m.introOutput() }, nextFrame())
}

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) introOutput() gameOutputMsg {
	info := m.engine.Scenario.Info
	lvl := m.engine.Scenario.Level

	var lines []rawLine
	header := lvl.Title
	if info.Author != "" {
		header += " by " + info.Author
	}
	lines = append(lines, rawLine{text: header, kind: kindWinner})
	if lvl.Prologue != "" {
		lines = append(lines, rawLine{text: lvl.Prologue})
	}

	m.engine.Start()
	lines = append(lines, m.feed.drain()...)
	return gameOutputMsg{lines: lines}
}

// Update handles messages (key presses, window resize, clock frames).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 3 // status bar, input line, help line
		if vpHeight < 1 {
			vpHeight = 1
		}
		vpWidth := m.width
		if m.showPanel() {
			vpWidth -= panelWidth
		}

		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.help.Width = m.width

		m.refreshViewport()

	case frameMsg:
		if m.engine.Over() {
			return m, nil
		}
		if !m.paused {
			m = m.advance(types.Ticks(m.speed * ticksPerFrame))
		}
		return m, nextFrame()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
			return m, nil

		case key.Matches(msg, keys.Faster):
			m.speed = min(m.speed*2, maxSpeed)
			return m, nil

		case key.Matches(msg, keys.Slower):
			if m.speed > 1 {
				m.speed /= 2
			}
			return m, nil

		case key.Matches(msg, keys.Scroll):
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

		switch msg.String() {
		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// advance runs the level for n ticks and logs what it reported.
func (m Model) advance(n types.Ticks) Model {
	e := m.engine
	before := e.Ctx.Queue.Len()
	e.Tick(n)

	lines := m.feed.drain()
	if m.feed.trace {
		lines = append(lines, rawLine{
			text: fmt.Sprintf("[trace] t=%d objects=%d queue %d→%d", e.Now, e.Ctx.Pool.Len(), before, e.Ctx.Queue.Len()),
			kind: kindTrace,
		})
	}
	if e.Over() {
		m.paused = true
		lines = append(lines, m.winnerLines()...)
	}
	if len(lines) == 0 {
		return m
	}
	return m.appendOutput(gameOutputMsg{lines: lines})
}

func (m Model) winnerLines() []rawLine {
	r := m.engine.Result()
	name := "Nobody"
	if r.Winner >= 0 && int(r.Winner) < len(r.Admirals) {
		name = r.Admirals[r.Winner].Name
	}
	lines := []rawLine{{text: fmt.Sprintf("%s wins after %s.", name, clock(r.Elapsed)), kind: kindWinner}}
	if r.Text != "" {
		lines = append(lines, rawLine{text: r.Text})
	}
	return lines
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []rawLine{{text: "Nothing to repeat."}}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: plain(output), isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m = m.appendOutput(gameOutputMsg{input: input})
	return m.handleCommand(input), nil
}

// handleCommand runs one clock command.
func (m Model) handleCommand(input string) Model {
	parts := strings.Fields(strings.ToLower(input))
	say := func(text string) Model {
		return m.appendOutput(gameOutputMsg{lines: []rawLine{{text: text, kind: classifyLine(text)}}})
	}

	switch parts[0] {
	case "tick", "t":
		if m.engine.Over() {
			return say("The level is over.")
		}
		n := int64(1)
		if len(parts) > 1 {
			v, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil || v <= 0 {
				return say("Tick how many? (tick <n>)")
			}
			n = v
		}
		return m.advance(types.Ticks(n))

	case "pause", "p":
		m.paused = true
		return m

	case "resume", "r":
		if !m.engine.Over() {
			m.paused = false
		}
		return m

	case "speed":
		if len(parts) < 2 {
			return say(fmt.Sprintf("Speed is x%d.", m.speed))
		}
		v, err := strconv.Atoi(parts[1])
		if err != nil || v < 1 || v > maxSpeed {
			return say(fmt.Sprintf("Speed must be 1 to %d.", maxSpeed))
		}
		m.speed = v
		return m

	default:
		return say(fmt.Sprintf("Unknown command %q. Type /help for available commands.", parts[0]))
	}
}

func plain(texts []string) []rawLine {
	lines := make([]rawLine, len(texts))
	for i, t := range texts {
		lines[i] = rawLine{text: t}
	}
	return lines
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, rl := range msg.lines {
		rl.isSystem = msg.isSystem
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full layout: log and panel, status bar, input, help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.showPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderPanel(m.viewport.Height))
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View() + "\n" + m.help.View(keys)
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.feed.trace = !m.feed.trace
		if m.feed.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "result"
	}

	data, err := save.Save(m.engine.Result())
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Result saved to %s.", name)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save the current result (default: result)",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /state        — Debug: dump engine state",
		"  /trace        — Toggle debug trace output",
		"",
		"Clock commands:",
		"  tick [n] (t)  — Advance n ticks",
		"  pause (p)     — Stop the clock",
		"  resume (r)    — Restart the clock",
		"  speed <n>     — Run n times faster than real time",
		"  again (g)     — Repeat your last command",
		"",
		"Keys: Tab pauses, ^F/^B change speed, PgUp/PgDn scroll, Up/Down for history",
	}
}

func (m *Model) cmdState() []string {
	e := m.engine
	g := &e.Ctx.Globals
	output := []string{
		fmt.Sprintf("Time: %d", e.Now),
		fmt.Sprintf("Objects: %d/%d", e.Ctx.Pool.Len(), e.Ctx.Pool.Cap()),
		fmt.Sprintf("Queue: %d", e.Ctx.Queue.Len()),
	}
	if d := e.Ctx.Queue.Dropped(); d > 0 {
		output = append(output, fmt.Sprintf("Dropped: %d", d))
	}
	if g.Status != "" {
		output = append(output, fmt.Sprintf("Status: %s", g.Status))
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
