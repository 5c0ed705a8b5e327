package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"toolshed/internal/convert"
	"toolshed/internal/history"
)

// convertDoneMsg carries the result of a background conversion.
type convertDoneMsg struct {
	result *convert.Result
	err    error
}

// inspectDoneMsg carries the schema preview of an input file.
type inspectDoneMsg struct {
	info *convert.TableInfo
	err  error
}

// ConvertPage is the parquet-to-CSV view: a path prompt, a schema
// preview, and a one-shot streaming conversion.
type ConvertPage struct {
	deps    Deps
	styles  Styles
	input   textinput.Model
	spinner spinner.Model

	width   int
	height  int
	busy    bool
	info    *convert.TableInfo
	result  *convert.Result
	lastErr error
}

// NewConvertPage builds the converter view.
func NewConvertPage(deps Deps, styles Styles) ConvertPage {
	ti := textinput.New()
	ti.Placeholder = "/path/to/file.parquet"
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ConvertPage{
		deps:    deps,
		styles:  styles,
		input:   ti,
		spinner: sp,
	}
}

// Init implements the page contract.
func (p ConvertPage) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the page dimensions.
func (p *ConvertPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.input.Width = w - 4
}

// Update handles page messages.
func (p ConvertPage) Update(msg tea.Msg) (ConvertPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(p.input.Value())
			if path == "" {
				return p, nil
			}
			p.busy = true
			p.result = nil
			p.lastErr = nil
			return p, tea.Batch(p.spinner.Tick, p.inspectCmd(path))
		case "ctrl+o":
			if p.info == nil {
				return p, nil
			}
			p.busy = true
			return p, tea.Batch(p.spinner.Tick, p.convertCmd(p.info.Path))
		}

	case inspectDoneMsg:
		p.busy = false
		p.info = msg.info
		p.lastErr = msg.err
		return p, nil

	case convertDoneMsg:
		p.busy = false
		p.result = msg.result
		p.lastErr = msg.err
		return p, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		if p.busy {
			return p, cmd
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p ConvertPage) inspectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := p.deps.Converter.Engine().Inspect(context.Background(), path)
		return inspectDoneMsg{info: info, err: err}
	}
}

func (p ConvertPage) convertCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out := convert.OutputName(path, "")
		res, err := p.deps.Converter.ConvertStreaming(context.Background(), path, out, nil)
		if err == nil && p.deps.History != nil {
			_, _ = p.deps.History.Record(history.Entry{
				Kind:     history.KindConvert,
				Subject:  path,
				Outcome:  "ok",
				Count:    res.Rows,
				Duration: res.Duration,
			})
		}
		return convertDoneMsg{result: res, err: err}
	}
}

// View renders the page.
func (p ConvertPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Parquet to CSV"))
	sb.WriteString("\n\n")
	sb.WriteString(p.input.View())
	sb.WriteString("\n\n")

	switch {
	case p.busy:
		sb.WriteString(p.spinner.View() + " working...\n")
	case p.lastErr != nil:
		sb.WriteString(p.styles.Error.Render("error: "+p.lastErr.Error()) + "\n")
	case p.result != nil:
		sb.WriteString(p.styles.Success.Render(fmt.Sprintf(
			"wrote %d rows to %s in %s", p.result.Rows, p.result.Output, p.result.Duration.Round(time.Millisecond))))
		sb.WriteString("\n")
	case p.info != nil:
		sb.WriteString(p.renderSchema())
		sb.WriteString("\n" + p.styles.Muted.Render("ctrl+o: convert to CSV") + "\n")
	default:
		sb.WriteString(p.styles.Muted.Render("enter a parquet path and press enter to inspect it") + "\n")
	}
	return p.styles.Panel.Width(p.width).Render(sb.String())
}

func (p ConvertPage) renderSchema() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d rows)\n\n", p.info.Path, p.info.Rows)
	fmt.Fprintf(&sb, "%-24s %s\n", "column", "type")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, col := range p.info.Columns {
		fmt.Fprintf(&sb, "%-24s %s\n", col.Name, col.Type)
	}
	return sb.String()
}
