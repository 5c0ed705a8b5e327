package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"toolshed/internal/check"
	"toolshed/internal/history"
)

// checkDoneMsg carries a finished report and its rendered form.
type checkDoneMsg struct {
	report   *check.Report
	rendered string
	err      error
}

// CheckPage is the resume checker view: paste text (or a file path on
// its own line prefixed with @), run the rule passes, read the report.
type CheckPage struct {
	deps   Deps
	styles Styles

	editor  textarea.Model
	results viewport.Model

	width   int
	height  int
	showing bool
	report  *check.Report
	lastErr error
}

// NewCheckPage builds the checker view.
func NewCheckPage(deps Deps, styles Styles) CheckPage {
	ta := textarea.New()
	ta.Placeholder = "paste resume text, or @/path/to/resume.pdf on the first line"
	ta.Focus()

	return CheckPage{
		deps:    deps,
		styles:  styles,
		editor:  ta,
		results: viewport.New(80, 20),
	}
}

// Init implements the page contract.
func (p CheckPage) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize updates the page dimensions.
func (p *CheckPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.editor.SetWidth(w - 4)
	p.editor.SetHeight(h - 6)
	p.results.Width = w - 4
	p.results.Height = h - 6
}

// Update handles page messages.
func (p CheckPage) Update(msg tea.Msg) (CheckPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			input := p.editor.Value()
			if strings.TrimSpace(input) == "" {
				return p, nil
			}
			return p, p.checkCmd(input)
		case "esc":
			if p.showing {
				p.showing = false
				return p, nil
			}
		}
		if p.showing {
			var cmd tea.Cmd
			p.results, cmd = p.results.Update(msg)
			return p, cmd
		}

	case checkDoneMsg:
		p.report = msg.report
		p.lastErr = msg.err
		if msg.err == nil {
			p.results.SetContent(msg.rendered)
			p.showing = true
		}
		return p, nil
	}

	if p.showing {
		var cmd tea.Cmd
		p.results, cmd = p.results.Update(msg)
		return p, cmd
	}
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	return p, cmd
}

// checkCmd resolves the input (inline text or an @path reference),
// runs the checker, and renders the report for the terminal.
func (p CheckPage) checkCmd(input string) tea.Cmd {
	return func() tea.Msg {
		text := input
		trimmed := strings.TrimSpace(input)
		if strings.HasPrefix(trimmed, "@") {
			loaded, err := check.LoadText(strings.TrimPrefix(trimmed, "@"))
			if err != nil {
				return checkDoneMsg{err: err}
			}
			text = loaded
		}

		report := p.deps.Checker.Check(text)

		rendered := report.Markdown()
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(p.width-6)); err == nil {
			if out, err := r.Render(rendered); err == nil {
				rendered = out
			}
		}

		if p.deps.History != nil {
			_, _ = p.deps.History.Record(history.Entry{
				Kind:    history.KindCheck,
				Subject: "resume",
				Outcome: report.Grade,
				Count:   int64(len(report.Findings)),
			})
		}
		return checkDoneMsg{report: report, rendered: rendered}
	}
}

// View renders the page.
func (p CheckPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Resume Check"))
	sb.WriteString("\n\n")

	if p.lastErr != nil {
		sb.WriteString(p.styles.Error.Render("error: "+p.lastErr.Error()) + "\n\n")
	}

	if p.showing {
		sb.WriteString(p.results.View())
		sb.WriteString("\n" + p.styles.Muted.Render("esc: back to editor") + "\n")
	} else {
		sb.WriteString(p.editor.View())
		sb.WriteString("\n" + p.styles.Muted.Render("ctrl+s: run check") + "\n")
	}
	return p.styles.Panel.Width(p.width).Render(sb.String())
}
