package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"toolshed/internal/check"
	"toolshed/internal/config"
	"toolshed/internal/convert"
	"toolshed/internal/history"
	"toolshed/internal/links"
)

// TabID selects which tool page is mounted.
type TabID int

const (
	TabConvert TabID = iota
	TabTimer
	TabCheck
	TabOpen
)

var tabTitles = map[TabID]string{
	TabConvert: "Parquet to CSV",
	TabTimer:   "Timer",
	TabCheck:   "Resume Check",
	TabOpen:    "Link Opener",
}

var tabOrder = []TabID{TabConvert, TabTimer, TabCheck, TabOpen}

// Deps carries the tool backends into the TUI. History may be nil.
type Deps struct {
	Config    *config.Config
	Converter *convert.Converter
	Checker   *check.Checker
	Opener    links.TabOpener
	History   *history.Store
	Logger    *zap.Logger
}

// App is the root model: a tab bar plus exactly one mounted page.
// Pages keep their own state; switching tabs shares nothing between them.
type App struct {
	styles Styles
	active TabID
	width  int
	height int

	convert ConvertPage
	timer   TimerPage
	check   CheckPage
	open    OpenPage
}

// NewApp builds the shell with all four pages.
func NewApp(deps Deps) App {
	styles := DefaultStyles()
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return App{
		styles:  styles,
		active:  TabConvert,
		convert: NewConvertPage(deps, styles),
		timer:   NewTimerPage(deps, styles),
		check:   NewCheckPage(deps, styles),
		open:    NewOpenPage(deps, styles),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.convert.Init(), a.check.Init(), a.open.Init())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.convert.SetSize(pageWidth(msg.Width), pageHeight(msg.Height))
		a.timer.SetSize(pageWidth(msg.Width), pageHeight(msg.Height))
		a.check.SetSize(pageWidth(msg.Width), pageHeight(msg.Height))
		a.open.SetSize(pageWidth(msg.Width), pageHeight(msg.Height))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			a.active = nextTab(a.active, 1)
			return a, nil
		case "shift+tab":
			a.active = nextTab(a.active, -1)
			return a, nil
		case "ctrl+p":
			a.active = TabConvert
			return a, nil
		case "ctrl+t":
			a.active = TabTimer
			return a, nil
		case "ctrl+r":
			a.active = TabCheck
			return a, nil
		case "ctrl+l":
			a.active = TabOpen
			return a, nil
		}

	// The countdown keeps running while another tab is mounted, so
	// timer messages always route to the timer page.
	case timer.TickMsg, timer.StartStopMsg, timer.TimeoutMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.Update(msg)
		return a, cmd

	// Background commands finish regardless of which tab is mounted, so
	// each completion message routes to the page that owns it.
	case convertDoneMsg, inspectDoneMsg:
		var cmd tea.Cmd
		a.convert, cmd = a.convert.Update(msg)
		return a, cmd
	case checkDoneMsg:
		var cmd tea.Cmd
		a.check, cmd = a.check.Update(msg)
		return a, cmd
	case openDoneMsg:
		var cmd tea.Cmd
		a.open, cmd = a.open.Update(msg)
		return a, cmd
	}

	// Everything else goes to the active page only.
	var cmd tea.Cmd
	switch a.active {
	case TabConvert:
		a.convert, cmd = a.convert.Update(msg)
	case TabTimer:
		a.timer, cmd = a.timer.Update(msg)
	case TabCheck:
		a.check, cmd = a.check.Update(msg)
	case TabOpen:
		a.open, cmd = a.open.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.width > 0 && a.width < MinimumTerminalWidth {
		return a.styles.Warning.Render("terminal too narrow")
	}

	var body string
	switch a.active {
	case TabConvert:
		body = a.convert.View()
	case TabTimer:
		body = a.timer.View()
	case TabCheck:
		body = a.check.View()
	case TabOpen:
		body = a.open.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.tabBar(),
		body,
		a.styles.Footer.Render("tab: next tool | ctrl+c: quit"),
	)
}

// tabBar renders the switcher row.
func (a App) tabBar() string {
	var cells []string
	for _, id := range tabOrder {
		title := tabTitles[id]
		if id == a.active {
			cells = append(cells, a.styles.ActiveTab.Render(title))
		} else {
			cells = append(cells, a.styles.Tab.Render(title))
		}
	}
	return strings.Join(cells, a.styles.Muted.Render("|")) + "\n"
}

func nextTab(cur TabID, step int) TabID {
	n := len(tabOrder)
	idx := (int(cur) + step + n) % n
	return tabOrder[idx]
}
