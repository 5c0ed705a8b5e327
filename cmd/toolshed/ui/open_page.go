package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"toolshed/internal/history"
	"toolshed/internal/links"
)

// openDoneMsg carries the outcome of a bulk-open run.
type openDoneMsg struct {
	report *links.RunReport
	err    error
}

// OpenPage is the bulk link opener view: one URL per line, open them all.
type OpenPage struct {
	deps   Deps
	styles Styles

	editor textarea.Model

	width   int
	height  int
	busy    bool
	report  *links.RunReport
	lastErr error
}

// NewOpenPage builds the link opener view.
func NewOpenPage(deps Deps, styles Styles) OpenPage {
	ta := textarea.New()
	ta.Placeholder = "one URL per line"
	ta.Focus()

	return OpenPage{deps: deps, styles: styles, editor: ta}
}

// Init implements the page contract.
func (p OpenPage) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize updates the page dimensions.
func (p *OpenPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.editor.SetWidth(w - 4)
	p.editor.SetHeight(h - 8)
}

// Update handles page messages.
func (p OpenPage) Update(msg tea.Msg) (OpenPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" && !p.busy {
			input := p.editor.Value()
			if strings.TrimSpace(input) == "" {
				return p, nil
			}
			p.busy = true
			return p, p.openCmd(input)
		}

	case openDoneMsg:
		p.busy = false
		p.report = msg.report
		p.lastErr = msg.err
		return p, nil
	}

	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	return p, cmd
}

func (p OpenPage) openCmd(input string) tea.Cmd {
	return func() tea.Msg {
		runner := links.NewOpener(p.deps.Config.Opener, p.deps.Opener, p.deps.Logger)
		report, err := runner.Run(context.Background(), input)
		if err == nil && p.deps.History != nil {
			_, _ = p.deps.History.Record(history.Entry{
				Kind:    history.KindOpen,
				Subject: fmt.Sprintf("%d lines", len(links.Parse(input))),
				Outcome: "ok",
				Count:   int64(len(report.Opened)),
			})
		}
		return openDoneMsg{report: report, err: err}
	}
}

// View renders the page.
func (p OpenPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Link Opener"))
	sb.WriteString("\n\n")
	sb.WriteString(p.editor.View())
	sb.WriteString("\n\n")

	switch {
	case p.busy:
		sb.WriteString(p.styles.Muted.Render("opening tabs...") + "\n")
	case p.lastErr != nil:
		sb.WriteString(p.styles.Error.Render("error: "+p.lastErr.Error()) + "\n")
	case p.report != nil:
		sb.WriteString(p.styles.Success.Render(fmt.Sprintf("opened %d tabs", len(p.report.Opened))))
		if p.report.Skipped > 0 {
			sb.WriteString(p.styles.Muted.Render(fmt.Sprintf("  (%d duplicates skipped)", p.report.Skipped)))
		}
		sb.WriteString("\n")
		for _, inv := range p.report.Invalid {
			sb.WriteString(p.styles.Warning.Render(fmt.Sprintf("line %d: %s (%s)", inv.Line, inv.Raw, inv.Reason)) + "\n")
		}
	default:
		sb.WriteString(p.styles.Muted.Render("ctrl+s: open every valid URL") + "\n")
	}
	return p.styles.Panel.Width(p.width).Render(sb.String())
}
