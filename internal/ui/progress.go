// Package ui renders live progress for multi-file runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"flexir/internal/pipeline"
)

type fileState uint8

const (
	stateQueued fileState = iota
	stateWorking
	stateOK
	stateFailed
)

type fileItem struct {
	path   string
	state  fileState
	stage  pipeline.Stage
	steps  int // stages finished
	failed bool
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows pipeline events for
// files until events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items[i] = fileItem{path: file}
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished, failed := m.counts()
	header := fmt.Sprintf("%s  %d/%d", m.title, finished, len(m.items))
	if failed > 0 {
		header += fmt.Sprintf("  (%d failed)", failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		label := item.label()
		fmt.Fprintf(&b, "  %s %s\n",
			styleFor(item.state).Render(fmt.Sprintf("%*s", statusWidth, label)),
			truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent folds ev into the file's state. A file finishes when validation
// completes or is skipped, or when a load or decode stage fails.
func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.stage = ev.Stage
	switch ev.Status {
	case pipeline.StatusQueued:
		item.state = stateQueued
	case pipeline.StatusWorking:
		item.state = stateWorking
	case pipeline.StatusDone, pipeline.StatusSkipped:
		item.steps++
	case pipeline.StatusError:
		item.steps++
		item.failed = true
		if ev.Stage == pipeline.StageLoad || ev.Stage == pipeline.StageDecode {
			item.steps = len(pipeline.Stages)
		}
	}
	if item.steps >= len(pipeline.Stages) {
		item.state = stateOK
		if item.failed {
			item.state = stateFailed
		}
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	total := 0
	for _, item := range m.items {
		total += min(item.steps, len(pipeline.Stages))
	}
	return float64(total) / float64(len(m.items)*len(pipeline.Stages))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, item := range m.items {
		switch item.state {
		case stateOK:
			finished++
		case stateFailed:
			finished++
			failed++
		}
	}
	return finished, failed
}

func (it fileItem) label() string {
	switch it.state {
	case stateWorking:
		return stageLabel(it.stage)
	case stateOK:
		return "ok"
	case stateFailed:
		return "failed"
	default:
		return "queued"
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageDecode:
		return "decoding"
	case pipeline.StageLower:
		return "lowering"
	case pipeline.StageValidate:
		return "checking"
	default:
		return string(stage)
	}
}

func styleFor(state fileState) lipgloss.Style {
	switch state {
	case stateOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case stateFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case stateWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
