package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/Hackchain/hackchain-debugger/debugger/backend"
	"github.com/Hackchain/hackchain-debugger/debugger/backend/terminal/render"
	"github.com/Hackchain/hackchain-debugger/debugger/input"
	"github.com/Hackchain/hackchain-debugger/debugger/input/action"
	"github.com/Hackchain/hackchain-debugger/debugger/input/event"
	"github.com/Hackchain/hackchain-debugger/debugger/phase"
	"github.com/Hackchain/hackchain-debugger/debugger/view"
)

const (
	minTermWidth  = 60
	minTermHeight = 16
	logHeight     = 6
	logCapacity   = 200

	// title, pane headers, register line, status line, help line
	chromeHeight = 5
)

// ViewportRows returns how many disassembly rows fit in each pane of a
// terminal termHeight lines tall.
func ViewportRows(termHeight int) int {
	return max(termHeight-chromeHeight-logHeight, 1)
}

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	running   bool
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.Config

	mu         sync.Mutex
	eventQueue []backend.InputEvent

	signals chan os.Signal
	done    chan struct{}
}

// New creates a new terminal backend drawing to the controlling terminal
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// NewWithScreen creates a terminal backend drawing to screen. Init still
// has to be called.
func NewWithScreen(screen tcell.Screen) *Backend {
	b := New()
	b.screen = screen
	return b
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	if config.Provider == nil {
		return fmt.Errorf("terminal backend needs a view provider")
	}
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %v", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	t.running = true

	// Capture everything, the log panel filters at draw time
	t.logBuffer = render.NewLogBuffer(logCapacity)
	handler := render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)
	slog.SetDefault(slog.New(handler))
	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	t.done = make(chan struct{})
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go t.handleSignals()

	return nil
}

// Update paints the current view, then blocks until the user does something
func (t *Backend) Update() ([]backend.InputEvent, error) {
	if t.running {
		t.render()
		t.screen.Show()

		t.handleEvent(t.screen.PollEvent())
		for t.screen.HasPendingEvent() {
			t.handleEvent(t.screen.PollEvent())
		}
	}

	t.mu.Lock()
	events := t.eventQueue
	t.eventQueue = nil
	t.mu.Unlock()

	for _, evt := range events {
		slog.Debug("UI event", "action", evt.Action, "type", evt.Type)
	}
	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
		close(t.done)
		t.signals = nil
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.LogLevelIncrease:
		t.changeLogLevel(1)
	case action.LogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel returns the minimum level shown in the log panel
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel
}

func (t *Backend) enqueue(act action.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) handleSignals() {
	select {
	case <-t.signals:
		t.enqueue(action.Quit)
		// Wake up a blocked PollEvent
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	case <-t.done:
	}
}

func (t *Backend) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.processKeyEvent(ev)
	case *tcell.EventResize:
		t.screen.Sync()
	case nil:
		// Screen was finalized
		t.running = false
	}
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if act == action.Quit {
		t.running = false
	}
	t.enqueue(act)
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyEscape: "Escape",
}

// tcellRuneNameMap converts runes to key names used in default mappings
var tcellRuneNameMap = map[rune]string{
	'n': "n",
	's': "s",
	'r': "r",
	'q': "q",
	' ': "Space",
	'+': "+",
	'=': "=",
	'-': "-",
	'_': "_",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.Quit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for r, keyName := range tcellRuneNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[r] = act
		}
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

// phaseColor is the highlight color for the current row of both panes
func phaseColor(p phase.Phase) tcell.Color {
	switch p {
	case phase.Succeeded:
		return tcell.ColorGreen
	case phase.Failed:
		return tcell.ColorRed
	default:
		return tcell.ColorYellow
	}
}

func (t *Backend) render() {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	rows := ViewportRows(termHeight)
	state := t.config.Provider.View(rows)

	dividerX := termWidth / 2
	t.drawTitle(termWidth, state)
	t.drawPane(0, 1, dividerX, " Output ", state.Output, state.OutputRegisters, state.Phase)
	t.drawPane(dividerX+1, 1, termWidth-dividerX-1, " Input ", state.Input, state.InputRegisters, state.Phase)

	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 1; y <= rows+2; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	statusY := rows + 3
	t.drawStatus(statusY, termWidth, dividerX, state)
	t.drawLogs(statusY+1, termWidth, logHeight)
	t.drawHelp(termHeight-1, termWidth)
}

func (t *Backend) drawTitle(termWidth int, state view.State) {
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	title := fmt.Sprintf(" %s | session %s | run %s ", t.config.Title, state.Hash, shortID(state.RunID))
	t.drawText(1, 0, termWidth-1, title, titleStyle)
}

func (t *Backend) drawPane(x, y, width int, title string, w view.Window, registers string, p phase.Phase) {
	if width <= 0 {
		return
	}

	color := phaseColor(p)
	t.drawText(x+1, y, width-1, title, tcell.StyleDefault.Foreground(color))

	lineStyle := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	currentStyle := tcell.StyleDefault.Foreground(color).Bold(true)
	for i, line := range w.Lines {
		style := lineStyle
		if i == w.Current {
			style = currentStyle
		}
		t.drawText(x, y+1+i, width, line, style)
	}

	registerStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	t.drawText(x, y+1+len(w.Lines), width, registers, registerStyle)
}

func (t *Backend) drawStatus(y, termWidth, dividerX int, state view.State) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for x := 0; x < termWidth; x++ {
		t.screen.SetContent(x, y, '─', nil, borderStyle)
	}
	t.screen.SetContent(dividerX, y, '┴', nil, borderStyle)

	status := fmt.Sprintf(" %s  ticks %d/%d ", state.Phase, state.Ticks, state.Budget)
	if state.Verdict != "" {
		status += "- " + state.Verdict + " "
	}
	t.drawText(1, y, termWidth-1, status, tcell.StyleDefault.Foreground(phaseColor(state.Phase)).Bold(true))

	levelTitle := fmt.Sprintf(" Logs [%s] (-/+ filter) ", render.LevelName(t.logLevel))
	t.drawText(termWidth-len(levelTitle)-1, y, len(levelTitle), levelTitle, tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

func (t *Backend) drawLogs(startY, width, height int) {
	if t.logBuffer == nil {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(height, t.logLevel) {
		style := infoStyle
		switch {
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		}

		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		t.drawText(0, startY+i, width, text, style)
	}
}

func (t *Backend) drawHelp(y, width int) {
	helpText := " n/SPACE=step  r=restart  q/ESC=quit | Logs: +/- filter "
	t.drawText(0, y, width, helpText, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
