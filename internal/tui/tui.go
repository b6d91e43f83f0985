// Package tui provides a Bubble Tea terminal user interface for callrail-export.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calltools/callrail-exporter/internal/callrail"
	"github.com/calltools/callrail-exporter/internal/config"
	"github.com/calltools/callrail-exporter/internal/download"
	"github.com/calltools/callrail-exporter/internal/model"
	"github.com/calltools/callrail-exporter/internal/store"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateFetching
	StateDownloading
	StateComplete
	StateError
)

// focusable input fields on the StateInput screen.
const (
	fieldAPIKey = iota
	fieldAccountID
	fieldCount
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focused  int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	// Export context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager

	// Fetch results
	calls     []model.CallRecord
	pageCount int
	partial   bool

	// Download progress
	totalRecordings int32
	downloaded      int32
	failed          int32
	skipped         int32

	// Options
	tagging bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	apiKey := textinput.New()
	apiKey.Placeholder = "API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '*'
	apiKey.Focus()
	apiKey.CharLimit = 200
	apiKey.Width = 48

	accountID := textinput.New()
	accountID.Placeholder = "Account ID"
	accountID.CharLimit = 64
	accountID.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   []textinput.Model{apiKey, accountID},
		spinner:  sp,
		progress: prog,
		settings: settings,
		tagging:  settings.TagRecordings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// FetchDoneMsg is sent when the paginated metadata fetch completes.
	FetchDoneMsg struct {
		Calls   []model.CallRecord
		Pages   int
		Partial bool
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when all recording downloads complete.
	DownloadDoneMsg struct {
		Downloaded int32
		Failed     int32
		Skipped    int32
		Err        error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateFetching || m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab", "down", "up":
			if m.state == StateInput {
				if msg.String() == "shift+tab" || msg.String() == "up" {
					m.focused = (m.focused + fieldCount - 1) % fieldCount
				} else {
					m.focused = (m.focused + 1) % fieldCount
				}
				for i := range m.inputs {
					if i == m.focused {
						m.inputs[i].Focus()
					} else {
						m.inputs[i].Blur()
					}
				}
				return m, nil
			}

		case "enter":
			if m.state == StateInput && m.inputs[fieldAPIKey].Value() != "" && m.inputs[fieldAccountID].Value() != "" {
				m.state = StateFetching
				return m, tea.Batch(m.startFetch(), m.spinner.Tick)
			}

		// The toggle uses a ctrl chord so typing credentials never trips it.
		case "ctrl+t":
			if m.state == StateInput {
				m.tagging = !m.tagging
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new export
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.calls = nil
				m.pageCount = 0
				m.partial = false
				m.downloaded = 0
				m.failed = 0
				m.skipped = 0
				m.totalRecordings = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.focused = fieldAPIKey
				m.inputs[fieldAPIKey].Focus()
				m.inputs[fieldAccountID].Blur()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case FetchDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.calls = msg.Calls
			m.pageCount = msg.Pages
			m.partial = msg.Partial
			m.manager = msg.Manager
			if m.partial {
				m.logs = append(m.logs, LogEntry{
					Message: "provider error stopped the fetch; exporting the calls received so far",
					Level:   download.LevelWarning,
				})
			}
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.downloaded = msg.Downloaded
		m.failed = msg.Failed
		m.skipped = msg.Skipped
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			downloaded, failed, processed, total := m.manager.GetProgress()
			m.downloaded = downloaded
			m.failed = failed
			m.totalRecordings = total

			var percent float64
			if total > 0 {
				percent = float64(processed) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update the focused text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📞 CallRail Exporter"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Export call logs and recordings"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter API credentials:"))
	b.WriteString("\n\n")
	b.WriteString(m.inputs[fieldAPIKey].View())
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldAccountID].View())
	b.WriteString("\n\n")

	// Options
	taggingCheck := "[ ]"
	if m.tagging {
		taggingCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Tag recordings with call metadata (ctrl+t)\n", taggingCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Calls file: %s", m.settings.CallsPath)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Recordings: %s", m.settings.RecordingsDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching call metadata..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Fetched %d calls across %d page(s)", len(m.calls), m.pageCount)))
	b.WriteString("\n")
	b.WriteString(pageStyle.Render(fmt.Sprintf("  ♪ %d with recordings", m.totalRecordings)))
	b.WriteString("\n\n")

	// Progress bar
	var percent float64
	if m.totalRecordings > 0 {
		percent = float64(m.downloaded+m.failed+m.skipped) / float64(m.totalRecordings)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Recordings: %d/%d | Failed: %d",
		m.downloaded,
		m.totalRecordings,
		m.failed,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Export Complete!\n\n"+
			"Calls: %d\n"+
			"Recordings: %d\n"+
			"Already present: %d\n"+
			"Failed: %d",
		len(m.calls),
		m.downloaded,
		m.skipped,
		m.failed,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: next field • ctrl+t: tagging • esc: quit"
	case StateFetching, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new export • q: quit"
	}
	return ""
}

// startFetch fetches call metadata, saves it, and creates the manager.
func (m *Model) startFetch() tea.Cmd {
	apiKey := m.inputs[fieldAPIKey].Value()
	accountID := m.inputs[fieldAccountID].Value()

	settings := *m.settings
	settings.TagRecordings = m.tagging

	ctx := m.ctx

	return func() tea.Msg {
		client := callrail.NewClient(apiKey, accountID,
			callrail.WithBaseURL(settings.BaseURL),
			callrail.WithPerPage(settings.PerPage),
			callrail.WithTimeout(settings.RequestTimeout),
		)

		result, err := client.FetchCalls(ctx, callrail.Filters{})
		if err != nil {
			return FetchDoneMsg{Err: err}
		}

		if err := store.Save(settings.CallsPath, result.Calls); err != nil {
			return FetchDoneMsg{Err: err}
		}

		// Progress events are collected by the manager's counters; the
		// TUI polls them via TickMsg instead of receiving each event.
		manager := download.NewManager(&settings, client, nil, nil)

		return FetchDoneMsg{
			Calls:   result.Calls,
			Pages:   result.Pages,
			Partial: !result.Complete,
			Manager: manager,
		}
	}
}

// startDownload starts the recording downloads in the background.
func (m *Model) startDownload() tea.Cmd {
	manager := m.manager
	calls := m.calls
	ctx := m.ctx
	destDir := m.settings.RecordingsDir

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		report, err := manager.Download(ctx, calls, destDir)
		if err != nil {
			return DownloadDoneMsg{Err: err}
		}

		var skipped int32
		for _, outcome := range report.Outcomes {
			if outcome.Status == download.StatusAlreadyPresent {
				skipped++
			}
		}

		return DownloadDoneMsg{
			Downloaded: int32(report.Downloaded),
			Failed:     int32(report.Failed),
			Skipped:    skipped,
		}
	}
}

// Run starts the TUI application.
func Run() error {
	settings, err := config.Load("")
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
