// Package tui renders the assistant conversation in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F25D27"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	analysisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	metricsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F87FF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Chat owns the interactive loop around a conversation controller.
type Chat struct {
	controller *conversation.Controller
	gate       *conversation.FeedbackGate
	metrics    *conversation.MetricsCache
}

func NewChat(controller *conversation.Controller, gate *conversation.FeedbackGate, metrics *conversation.MetricsCache) *Chat {
	return &Chat{controller: controller, gate: gate, metrics: metrics}
}

func (c *Chat) Run() error {
	p := tea.NewProgram(newModel(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type chatDoneMsg struct{}

type feedbackDoneMsg struct{}

type metricsDoneMsg struct{}

type model struct {
	chat *Chat

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width   int
	height  int
	ready   bool
	waiting bool
}

func newModel(c *Chat) model {
	ti := textinput.New()
	ti.Placeholder = "输入您的消息..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{chat: c, input: ti, spinner: sp}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-7)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - 7
		}
		m.input.Width = msg.Width - 4
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" || m.chat.controller.InFlight() {
				break
			}
			m.input.SetValue("")
			m.waiting = true
			cmds = append(cmds, m.sendCmd(text), m.spinner.Tick)

		case "ctrl+n":
			m.chat.controller.StartNewSession(context.Background())
			m.refresh()

		case "ctrl+g":
			cmds = append(cmds, m.feedbackCmd(5, conversation.FeedbackPositive))

		case "ctrl+b":
			cmds = append(cmds, m.feedbackCmd(1, conversation.FeedbackNegative))

		case "ctrl+r":
			cmds = append(cmds, m.metricsCmd())
		}

	case chatDoneMsg:
		m.waiting = false
		m.refresh()

	case feedbackDoneMsg, metricsDoneMsg:
		m.refresh()

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.chat.controller.Send(context.Background(), text)
		return chatDoneMsg{}
	}
}

func (m model) feedbackCmd(rating int, ftype conversation.FeedbackType) tea.Cmd {
	return func() tea.Msg {
		if msg, ok := m.chat.controller.Log().LastAssistant(); ok {
			_ = m.chat.gate.Submit(context.Background(), msg.ID, rating, ftype, "")
		}
		return feedbackDoneMsg{}
	}
}

func (m model) metricsCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.chat.metrics.Refresh(context.Background())
		return metricsDoneMsg{}
	}
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *model) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.chat.controller.Log().Messages() {
		label := assistantStyle.Render("助手")
		if msg.Sender == conversation.SenderUser {
			label = userStyle.Render("我")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", label, msg.Text))
		if msg.Analysis != nil {
			b.WriteString(analysisStyle.Render("    "+renderAnalysis(msg.Analysis)) + "\n")
		}
		if msg.FeedbackSubmitted {
			b.WriteString(analysisStyle.Render("    已评价 ✓") + "\n")
		}
		b.WriteString("\n")
	}
	if snapshot, ok := m.chat.metrics.Current(); ok {
		b.WriteString(metricsStyle.Render(fmt.Sprintf(
			"指标  消息数 %d · 满意度 %.0f%% · 平均响应 %.2fs",
			snapshot.TotalMessages,
			snapshot.UserSatisfactionScore*100,
			snapshot.AverageResponseTimeSeconds,
		)) + "\n")
	}
	return b.String()
}

func renderAnalysis(a *conversation.Analysis) string {
	var parts []string
	if intent, score, ok := topScore(a.IntentScores); ok {
		parts = append(parts, fmt.Sprintf("意图 %s %.0f%%", intent, score*100))
	}
	if emotion, score, ok := topScore(a.EmotionScores); ok {
		parts = append(parts, fmt.Sprintf("情感 %s %.0f%%", emotion, score*100))
	}
	for name, v := range a.Entities {
		parts = append(parts, fmt.Sprintf("%s: %s", name, v.String()))
	}
	return strings.Join(parts, " · ")
}

func topScore(scores map[string]float64) (string, float64, bool) {
	best := ""
	bestScore := -1.0
	for label, s := range scores {
		if s > bestScore || (s == bestScore && label < best) {
			best = label
			bestScore = s
		}
	}
	return best, bestScore, best != ""
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}
	var status string
	if m.waiting {
		status = m.spinner.View() + " 正在思考..."
	}
	return fmt.Sprintf(
		"%s\n%s\n%s\n%s\n%s",
		titleStyle.Render("PalonaAI 菜品助手"),
		m.viewport.View(),
		status,
		m.input.View(),
		helpStyle.Render("enter 发送 · ctrl+g/ctrl+b 评价 · ctrl+r 指标 · ctrl+n 新会话 · esc 退出"),
	)
}
