package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	druntime "github.com/gosuda/dndlang/runtime"
)

type model struct {
	cfg      Config
	viewport viewport.Model
	ready    bool
	width    int
	height   int
	status   string
	running  bool
	vm       *druntime.VM
	events   <-chan tea.Msg
	history  []string
	tail     string
	stream   []druntime.Output
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
)

func newModel(cfg Config) model {
	return model{
		cfg:      cfg,
		viewport: viewport.New(80, 20),
		status:   "starting",
	}
}

func startVM(cfg Config) tea.Cmd {
	return func() tea.Msg {
		vm, err := compileFile(cfg)
		if err != nil {
			return vmDoneMsg{err: err}
		}
		events := make(chan tea.Msg, 256)
		go runVM(vm, events)
		return vmStartedMsg{vm: vm, events: events}
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			return msg
		case <-time.After(20 * time.Millisecond):
			return vmPollMsg{}
		}
	}
}

func (m model) Init() tea.Cmd {
	return startVM(m.cfg)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vh := msg.Height - 1
		if vh < 1 {
			vh = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.ready = true
		return m, nil

	case vmStartedMsg:
		m.vm = msg.vm
		m.events = msg.events
		m.running = true
		m.status = "running"
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendOutput(msg.out)
		return m, waitVMEvent(m.events)

	case vmPollMsg:
		if m.running {
			return m, waitVMEvent(m.events)
		}
		return m, nil

	case vmDoneMsg:
		m.running = false
		m.vm = nil
		m.events = nil
		if msg.err != nil {
			m.status = "failed"
			m.appendOutput(druntime.Output{Text: errStyle.Render(msg.err.Error()), NewLine: true})
		} else {
			m.status = "done"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.running && m.vm != nil {
				m.vm.Interrupt()
				m.status = "interrupting"
				return m, nil
			}
			return m, tea.Quit
		case "r":
			if m.running {
				return m, nil
			}
			m.clearForRestart()
			m.status = "restarting"
			return m, startVM(m.cfg)
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	status := statusStyle.Render(m.cfg.Path + ": " + m.status + "  [q] quit  [r] rerun  [g/G] scroll")
	return m.viewport.View() + "\n" + status
}

func (m *model) appendOutput(out druntime.Output) {
	m.stream = append(m.stream, out)
	m.rebuildContent()
}

func (m *model) rebuildContent() {
	m.history = m.history[:0]
	m.tail = ""
	for _, out := range m.stream {
		if out.NewLine {
			m.history = append(m.history, m.tail+out.Text)
			m.tail = ""
		} else {
			m.tail += out.Text
		}
	}
	content := strings.Join(m.history, "\n")
	if m.tail != "" {
		if content != "" {
			content += "\n"
		}
		content += m.tail
	}
	if content == "" {
		content = "(no output yet)"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *model) clearForRestart() {
	m.history = nil
	m.tail = ""
	m.stream = nil
	m.viewport.SetContent("")
}
