package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewStyleSelect
)

// Menu item indices for main view
const (
	menuDarkMode = iota
	menuCopyToClipboard
	menuMarkdownStyle
	menuExit
	menuItemCount
)

// followThemeLabel is shown for an empty markdown style
const followThemeLabel = "follow theme"

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config     config.Config
	configPath string
	logPath    string
	save       func(config.Config) error

	view        configView
	cursor      int
	styleCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel loads the config file, without environment overrides, into
// a new menu
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadFile()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return newConfigModel(cfg, config.SaveConfig)
}

func newConfigModel(cfg config.Config, save func(config.Config) error) ConfigModel {
	configPath, _ := config.GetConfigPath()
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = "(default, in the config directory)"
	}

	render.SetDarkMode(cfg.DarkMode)
	UpdateTheme()

	m := ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logPath:         logPath,
		save:            save,
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
	m.styleCursor = m.currentStyleIndex()
	return m
}

// styleChoices are the markdown styles offered, led by the empty style
// that follows the dark mode flag
func styleChoices() []render.StyleInfo {
	choices := []render.StyleInfo{{Name: "", Description: "Match the dark mode setting"}}
	return append(choices, render.AvailableStyles()...)
}

func (m ConfigModel) currentStyleIndex() int {
	for i, s := range styleChoices() {
		if s.Name == m.config.Markdown.Style {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewStyleSelect {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			if m.view == viewMain {
				m.cursor = wrap(m.cursor-1, menuItemCount)
			} else {
				m.styleCursor = wrap(m.styleCursor-1, len(styleChoices()))
			}

		case "down", "j":
			if m.view == viewMain {
				m.cursor = wrap(m.cursor+1, menuItemCount)
			} else {
				m.styleCursor = wrap(m.styleCursor+1, len(styleChoices()))
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func wrap(i, n int) int {
	if i < 0 {
		return n - 1
	}
	if i >= n {
		return 0
	}
	return i
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewStyleSelect {
		m.config.Markdown.Style = styleChoices()[m.styleCursor].Name
		m.view = viewMain
		return m.persist(fmt.Sprintf("Markdown style set to %s", styleLabel(m.config.Markdown.Style)))
	}

	switch m.cursor {
	case menuDarkMode:
		m.config.DarkMode = !m.config.DarkMode
		render.SetDarkMode(m.config.DarkMode)
		UpdateTheme()
		return m.persist(fmt.Sprintf("Dark mode %s", enabledWord(m.config.DarkMode)))

	case menuCopyToClipboard:
		m.config.CopyToClipboard = !m.config.CopyToClipboard
		return m.persist(fmt.Sprintf("Copy to clipboard %s", enabledWord(m.config.CopyToClipboard)))

	case menuMarkdownStyle:
		m.view = viewStyleSelect
		m.styleCursor = m.currentStyleIndex()
		return m, nil

	case menuExit:
		return m, tea.Quit
	}

	return m, nil
}

// persist saves the config and shows message, or the save error
func (m ConfigModel) persist(message string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = message
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

func styleLabel(style string) string {
	if style == "" {
		return followThemeLabel
	}
	return style
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration"))
	sections = append(sections, header)

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Log:     %s", configPathStyle.Render(m.logPath)),
		fmt.Sprintf("   Backend: %s", configValueStyle.Render(m.config.BackendURL)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(pathsContent))

	var settings string
	if m.view == viewStyleSelect {
		settings = m.renderStyleSelect()
	} else {
		settings = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) menuLine(index int, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if m.cursor == index {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	pad := 20 - lipgloss.Width(label)
	if pad < 1 {
		pad = 1
	}
	return cursor + style.Render(label) + strings.Repeat(" ", pad) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	items := []string{
		configSectionTitleStyle.Render("⚙ Settings"),
		"",
		m.menuLine(menuDarkMode, "Dark Mode", m.renderBoolValue(m.config.DarkMode)),
		m.menuLine(menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		m.menuLine(menuMarkdownStyle, "Markdown Style", configValueStyle.Render(styleLabel(m.config.Markdown.Style))),
		"",
		m.menuLine(menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderStyleSelect renders the markdown style sub-menu
func (m ConfigModel) renderStyleSelect() string {
	items := []string{configSectionTitleStyle.Render("🎨 Select Markdown Style"), ""}

	for i, s := range styleChoices() {
		cursor := "  "
		style := configMenuItemStyle
		if m.styleCursor == i {
			cursor = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}

		current := ""
		if s.Name == m.config.Markdown.Style {
			current = configStatusOkStyle.Render(" (current)")
		}

		text := fmt.Sprintf("%s - %s", styleLabel(s.Name), s.Description)
		items = append(items, cursor+style.Render(text)+current)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunConfig starts the config TUI
func RunConfig() error {
	p := tea.NewProgram(NewConfigModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
