package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/render"
	"github.com/diogo/repochat/internal/session"
	"github.com/diogo/repochat/internal/transcript"
)

// Results of the network calls, delivered back to Update
type (
	statusMsg struct {
		res    session.StatusResult
		manual bool // requested with /status
	}
	initDoneMsg struct {
		res session.InitResult
	}
	chatDoneMsg struct {
		res session.ChatResult
	}
)

const commandHelp = "Commands: /status  /export <file.md|file.json>  /clear  /quit"

// Options configures the chat TUI
type Options struct {
	Config  config.Config
	Backend string // shown in the header and written to exports
	Logger  zerolog.Logger
}

// Model represents the TUI state. Session state lives in the controller;
// the model only holds widgets and transient notices.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	cfg     config.Config
	backend string
	logger  zerolog.Logger
	copyFn  func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	urlInput textinput.Model
	spinner  spinner.Model

	ready    bool
	notice   string
	localErr error

	width  int
	height int
}

// NewModel creates the chat TUI model around a session controller
func NewModel(ctx context.Context, ctrl *session.Controller, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	render.SetDarkMode(ctrl.DarkMode())
	UpdateTheme()

	ta := textarea.New()
	ta.Placeholder = "Ask a question about the repository..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// Enter submits; alt+enter starts a new line
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "https://github.com/user/repo"
	ti.CharLimit = 512
	ti.Prompt = "› "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		cfg:      opts.Config,
		backend:  opts.Backend,
		logger:   opts.Logger,
		copyFn:   clipboard.WriteAll,
		textarea: ta,
		urlInput: ti,
		spinner:  s,
	}
	m.applyWidgetStyles()
	return m
}

// Init checks the backend status and starts the cursor blink
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		textinput.Blink,
		m.checkStatus(false),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case statusMsg:
		wasInitialized := m.ctrl.Initialized()
		m.ctrl.CompleteStatus(msg.res)
		if msg.manual && msg.res.Err == nil {
			m.notice = statusNotice(m.ctrl.Initialized())
		}
		if !wasInitialized && m.ctrl.Initialized() {
			m.enterChat()
		}

	case initDoneMsg:
		if m.ctrl.CompleteInitialize(msg.res) {
			if m.ctrl.RepoURL() == "" {
				m.urlInput.Reset()
			}
			if m.ctrl.Initialized() {
				m.enterChat()
			}
		}

	case chatDoneMsg:
		if m.ctrl.CompleteSend(msg.res) {
			m.refreshMessages()
		}

	case spinner.TickMsg:
		if m.ctrl.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewport()
		}
	}

	// Only key presses reach the inputs to prevent escape sequence leaks
	if km, ok := msg.(tea.KeyMsg); ok && !m.ctrl.Busy() {
		if m.ctrl.Initialized() {
			m.textarea, cmd = m.textarea.Update(km)
		} else {
			m.urlInput, cmd = m.urlInput.Update(km)
		}
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.ctrl.Cancel()
		return m, tea.Quit, true

	case "esc":
		if m.ctrl.Cancel() {
			m.notice = "Request cancelled"
			m.refreshMessages()
			return m, nil, true
		}
		return m, tea.Quit, true

	case "ctrl+t":
		m.toggleTheme()
		return m, nil, true

	case "ctrl+y":
		m.copyLastAnswer()
		return m, nil, true

	case "enter":
		if m.ctrl.Initialized() {
			return m.submitQuestion()
		}
		return m.submitRepoURL()
	}
	return m, nil, false
}

func (m Model) submitRepoURL() (Model, tea.Cmd, bool) {
	m.ctrl.SetRepoURL(m.urlInput.Value())
	req, err := m.ctrl.BeginInitialize(m.ctx)
	if err != nil {
		// Busy or empty URL: the action is disabled
		return m, nil, true
	}
	m.notice = ""
	m.localErr = nil
	return m, tea.Batch(m.runInitialize(req), m.spinner.Tick), true
}

func (m Model) submitQuestion() (Model, tea.Cmd, bool) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" || m.ctrl.Busy() {
		return m, nil, true
	}

	if strings.HasPrefix(input, "/") || input == "exit" || input == "quit" {
		m.textarea.Reset()
		return m.runCommand(input)
	}

	m.ctrl.SetInput(input)
	req, err := m.ctrl.BeginSend(m.ctx)
	if err != nil {
		return m, nil, true
	}
	m.textarea.Reset()
	m.notice = ""
	m.localErr = nil
	m.refreshMessages()

	return m, tea.Batch(m.runSend(req), m.spinner.Tick), true
}

func (m Model) runCommand(input string) (Model, tea.Cmd, bool) {
	fields := strings.Fields(input)
	m.notice = ""
	m.localErr = nil

	switch fields[0] {
	case "/quit", "/exit", "quit", "exit":
		return m, tea.Quit, true

	case "/status":
		m.notice = "Checking repository status..."
		return m, m.checkStatus(true), true

	case "/clear":
		m.ctrl.ClearError()

	case "/export":
		path := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
		if path == "" {
			m.localErr = fmt.Errorf("usage: /export <file.md|file.json>")
			break
		}
		meta := transcript.Meta{Backend: m.backend, ExportedAt: time.Now()}
		if err := transcript.WriteFile(path, m.ctrl.Messages(), meta); err != nil {
			m.localErr = err
			break
		}
		m.logger.Info().Str("path", path).Msg("conversation exported")
		m.notice = "Conversation exported to " + path

	case "/help":
		m.notice = commandHelp

	default:
		m.localErr = fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return m, nil, true
}

func (m *Model) toggleTheme() {
	dark := m.ctrl.ToggleTheme()
	render.SetDarkMode(dark)
	UpdateTheme()
	m.applyWidgetStyles()
	m.updateViewport()
	m.logger.Debug().Bool("dark_mode", dark).Msg("theme toggled")
}

func (m *Model) copyLastAnswer() {
	msgs := m.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != models.RoleAssistant || msgs[i].Loading {
			continue
		}
		if err := m.copyFn(msgs[i].Content); err != nil {
			m.localErr = fmt.Errorf("failed to copy to clipboard: %w", err)
			return
		}
		m.localErr = nil
		m.notice = "Copied last answer to clipboard"
		return
	}
	m.notice = "No answer to copy yet"
}

func (m *Model) enterChat() {
	m.textarea.Focus()
	m.refreshMessages()
}

func (m *Model) applyWidgetStyles() {
	m.textarea.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle

	m.urlInput.PromptStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	m.urlInput.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	m.urlInput.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)

	m.spinner.Style = loadingStyle
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4 // Header panel with border
	inputHeight := 6  // Input panel with border
	statusHeight := 1 // Status bar
	padding := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = viewport.KeyMap{
			PageDown: key.NewBinding(key.WithKeys("pgdown")),
			PageUp:   key.NewBinding(key.WithKeys("pgup")),
		}
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.urlInput.Width = contentWidth - 8
	m.refreshMessages()
}

// refreshMessages redraws the conversation and scrolls to the latest entry
func (m *Model) refreshMessages() {
	m.updateViewport()
	m.viewport.GotoBottom()
}

func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := render.OptionsFromConfig(m.cfg, m.ctrl.DarkMode()).WithWidth(bubbleWidth - 4)

	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.IsUser():
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)

		case msg.IsPlaceholder():
			label := assistantLabelStyle.Render("✦ Assistant")
			body := m.spinner.View() + " " + hintStyle.Render(msg.Content)
			content.WriteString(label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(body))

		default:
			label := assistantLabelStyle.Render("✦ Assistant")
			rendered := render.Answer(msg.Content, opts)
			content.WriteString(label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	if !m.ctrl.Initialized() {
		return m.viewSetup()
	}
	return m.viewChat()
}

func (m Model) renderHeader(width int) string {
	parts := []string{titleStyle.Render("✦ Repository Chat")}
	if m.backend != "" {
		parts = append(parts, hintStyle.Render("  •  "), subtitleStyle.Render(m.backend))
	}
	return headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

func (m Model) viewSetup() string {
	contentWidth := m.width - 4
	sections := []string{m.renderHeader(contentWidth)}

	intro := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Render("✦"),
		welcomeTitleStyle.Render("Chat with a Git repository"),
		subtitleStyle.Render("Enter a repository URL to clone and index it"),
	)
	sections = append(sections, welcomeStyle.Width(contentWidth).Render(intro))

	var inputContent string
	if m.ctrl.Busy() {
		inputContent = m.spinner.View() + " " + loadingStyle.Render("Initializing repository...")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("Repository URL"),
			m.urlInput.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth, []shortcut{
		{"Enter", "Initialize"},
		{"Ctrl+T", "Theme"},
		{"Esc", m.escLabel()},
	}))

	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewChat() string {
	contentWidth := m.width - 4
	sections := []string{m.renderHeader(contentWidth)}

	var messagesContent string
	if len(m.ctrl.Messages()) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.ctrl.Busy() {
		inputContent = m.spinner.View() + " " + loadingStyle.Render(models.PlaceholderText)
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth, []shortcut{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy"},
		{"Ctrl+T", "Theme"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", m.escLabel()},
	}))

	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) escLabel() string {
	if m.ctrl.Busy() {
		return "Cancel"
	}
	return "Quit"
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		welcomeTitleStyle.Width(width).Render("Repository indexed"),
		hintStyle.Width(width).Align(lipgloss.Center).Render("Ask anything about its code below. "+commandHelp),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

type shortcut struct {
	key  string
	desc string
}

func (m Model) renderStatusBar(width int, shortcuts []shortcut) string {
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}
	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// renderBanner shows the session error with its details, then local
// failures and notices
func (m Model) renderBanner() string {
	var lines []string
	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	if text := m.ctrl.ErrorText(); text != "" {
		banner := errorStyle.Render("⚠ " + text)
		if err := m.ctrl.LastErr(); err != nil {
			banner += formatErrorDetails(err, detailStyle)
		}
		lines = append(lines, banner)
	}
	if m.localErr != nil {
		lines = append(lines, errorStyle.Render("⚠ "+m.localErr.Error()))
	}
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func statusNotice(initialized bool) string {
	if initialized {
		return "Backend reports the repository is initialized"
	}
	return "Backend reports no repository initialized"
}

func (m Model) checkStatus(manual bool) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return statusMsg{res: ctrl.RunStatus(ctx), manual: manual}
	}
}

func (m Model) runInitialize(req *session.InitRequest) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return initDoneMsg{res: ctrl.RunInitialize(req)}
	}
}

func (m Model) runSend(req *session.ChatRequest) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return chatDoneMsg{res: ctrl.RunSend(req)}
	}
}

// Run starts the chat TUI and blocks until it exits
func Run(ctx context.Context, ctrl *session.Controller, opts Options) error {
	p := tea.NewProgram(
		NewModel(ctx, ctrl, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	ctrl.Cancel()
	return err
}
