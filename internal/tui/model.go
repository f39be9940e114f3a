// Package tui renders a chat session in the terminal.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatservice "github.com/ShawnKBeck/GraceAI-Frontend/internal/service/chat"
)

const (
	headerHeight = 2
	footerHeight = 3
	minWidth     = 20
)

// eventMsg carries a Controller event into the bubbletea loop.
type eventMsg chatservice.Event

// submitDoneMsg reports that a Submit call returned. A rejected submit leaves
// the draft in the input.
type submitDoneMsg struct {
	accepted bool
}

// Model is the bubbletea model for one chat session.
type Model struct {
	ctx    context.Context
	ctrl   *chatservice.Controller
	events chan chatservice.Event
	stop   func()

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles

	ready bool
	width int
}

// New creates a Model observing ctrl. Call Close when the program exits.
func New(ctx context.Context, ctrl *chatservice.Controller) Model {
	input := textinput.New()
	input.Placeholder = "Type your message here..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	events := make(chan chatservice.Event, 64)
	stop := ctrl.Subscribe(chatservice.ListenerFunc(func(e chatservice.Event) {
		select {
		case events <- e:
		case <-ctx.Done():
		}
	}))

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		events:   events,
		stop:     stop,
		input:    input,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   defaultStyles(),
		width:    80,
	}
	m.viewport.SetContent(m.renderTranscript())
	return m
}

// Close detaches the model from its Controller.
func (m Model) Close() {
	if m.stop != nil {
		m.stop()
	}
}

// waitForEvent delivers the next Controller event as a tea.Msg.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.events:
			return eventMsg(e)
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m Model) submit(text string) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{accepted: m.ctrl.Submit(m.ctx, text)}
	}
}

// Init starts the cursor, the spinner and the event bridge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.waitForEvent(),
	)
}

// Update handles keys, window resizes and Controller events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := m.input.Value()
			if strings.TrimSpace(text) == "" || m.ctrl.Pending() {
				return m, nil
			}
			return m, m.submit(text)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < minWidth {
			m.width = minWidth
		}
		height := msg.Height - headerHeight - footerHeight
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, height)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = height
		}
		m.input.Width = m.width - 4
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()

	case eventMsg:
		switch msg.Kind {
		case chatservice.EventAppended:
			// The draft is cleared only once the Controller accepted it.
			if msg.Message.IsUser && msg.Message.Text == m.input.Value() {
				m.input.Reset()
			}
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
		case chatservice.EventPending:
			if msg.Pending {
				m.input.Blur()
			} else {
				cmds = append(cmds, m.input.Focus())
			}
		}
		cmds = append(cmds, m.waitForEvent())
		return m, tea.Batch(cmds...)

	case submitDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if !m.ctrl.Pending() {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
