package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ravenholt/encounter-engine/internal/handlers"
	"github.com/ravenholt/encounter-engine/internal/storage"
	"github.com/ravenholt/encounter-engine/pkg/checks"
	"github.com/ravenholt/encounter-engine/pkg/loot"
)

const PlaceHolderText = "Paste or type narrative text here..."

// logEntry is one rendered line group in the narrative log.
type logEntry struct {
	kind string // "user", "engine", "error", "info"
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *storage.SessionRecord
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	log          []logEntry
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Character selection state
	showPartyModal    bool
	characters        []CharacterSummary
	selected          map[int]bool
	cursor            int
	loadingCharacters bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type narrativeResponseMsg struct {
	response *handlers.NarrativeResponse
	err      error
}

type sessionMsg struct {
	session *storage.SessionRecord
	err     error
}

type charactersLoadedMsg struct {
	characters []CharacterSummary
	err        error
}

type sessionCreatedMsg struct {
	session *storage.SessionRecord
	err     error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	combatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	engineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Strikethrough(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:            cfg,
		client:            client,
		textarea:          ta,
		logViewport:       logVp,
		metaViewport:      metaVp,
		ready:             false,
		showPartyModal:    true,
		loadingCharacters: true,
		selected:          make(map[int]bool),
	}
}

func writeInitialContent(logWidth int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ENCOUNTER ENGINE") + "\n\n")
	content.WriteString("Feed narrative text below. Combat cues, skill checks and\n")
	content.WriteString("loot are detected and tracked automatically.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth-6)) + "\n\n")
	return content.String()
}

func writeMetadata(rec *storage.SessionRecord) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ENCOUNTER") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(rec.ID.String()[:8] + "...\n\n")

	if rec.Combat != nil && rec.Combat.InCombat {
		content.WriteString(combatStyle.Render("IN COMBAT") + "\n")
		content.WriteString(fmt.Sprintf("Round %d\n\n", rec.Combat.Round))

		content.WriteString("Turn order:\n")
		for _, p := range rec.Combat.Participants {
			line := fmt.Sprintf("%s (%d/%d)", p.Name, p.HP, p.MaxHP)
			switch {
			case p.HP <= 0:
				line = downStyle.Render(line)
			case p.Active:
				line = activeStyle.Render("▶ " + line)
			default:
				line = "  " + line
			}
			content.WriteString(line + "\n")
			for _, c := range p.Conditions {
				content.WriteString(promptStyle.Render("    "+c) + "\n")
			}
		}
		content.WriteString("\n")
	} else {
		content.WriteString("No active combat\n\n")
	}

	if rec.Combat != nil && len(rec.Combat.AccumulatedLoot) > 0 {
		content.WriteString("Loot:\n")
		for _, item := range rec.Combat.AccumulatedLoot {
			content.WriteString(fmt.Sprintf("• %s\n", formatLootItem(item)))
		}
		content.WriteString("\n")
	}

	content.WriteString("Party:\n")
	for _, sheet := range rec.Party {
		content.WriteString(fmt.Sprintf("• %s (Lv%d %s)\n", sheet.Name, sheet.Level, sheet.Class))
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /turn: Next turn\n")
	content.WriteString("• /copy: Copy loot\n")

	return content.String()
}

func formatLootItem(item loot.Item) string {
	if item.Quantity > 1 {
		return fmt.Sprintf("%s x%d", item.Name, item.Quantity)
	}
	return item.Name
}

func formatCheckResult(result checks.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s check: %d + %d = %d",
		result.SkillOrAbility, result.Roll, result.Modifier, result.Total))
	if result.Prompt.DifficultyClass != nil {
		sb.WriteString(fmt.Sprintf(" vs DC %d", *result.Prompt.DifficultyClass))
		if result.Success != nil && *result.Success {
			sb.WriteString(" — success")
		} else {
			sb.WriteString(" — failure")
		}
	}
	return sb.String()
}

// formatFragmentResult renders one processed fragment as log text.
func formatFragmentResult(resp *handlers.NarrativeResponse) string {
	var sb strings.Builder

	result := resp.Result
	if result.StartedCombat {
		sb.WriteString(combatStyle.Render("⚔ Combat begins!") + "\n")
		for _, t := range result.Threats {
			sb.WriteString(fmt.Sprintf("%s — HP %d, AC %d, initiative %d\n",
				t.Name, t.HP, t.ArmorClass, t.Initiative))
		}
	}

	for _, p := range result.Prompts {
		line := "Skill check called: " + p.SkillOrAbility
		if p.DifficultyClass != nil {
			line += fmt.Sprintf(" (DC %d)", *p.DifficultyClass)
		}
		sb.WriteString(line + "\n")
	}

	for _, c := range result.Checks {
		sb.WriteString(formatCheckResult(c) + "\n")
	}

	if result.EndedCombat {
		sb.WriteString(combatStyle.Render("Combat ends.") + "\n")
		for _, item := range result.Loot {
			sb.WriteString("• " + formatLootItem(item) + "\n")
		}
	}

	if sb.Len() == 0 {
		sb.WriteString("Nothing detected.\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// writeLogContent builds the narrative log from entries for the
// current viewport width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(writeInitialContent(logWidth))

	for _, entry := range m.log {
		switch entry.kind {
		case "user":
			content.WriteString(userStyle.Render("Narrative: ") + wordwrap.String(entry.text, logWidth-6) + "\n\n")
		case "engine":
			content.WriteString(engineStyle.Render(wordwrap.String(entry.text, logWidth)) + "\n\n")
		case "error":
			content.WriteString(errorStyle.Render("Error: "+entry.text) + "\n\n")
		case "info":
			content.WriteString(wordwrap.String(entry.text, logWidth) + "\n\n")
		}
	}

	// If currently loading, add the progress bar
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showPartyModal {
		return m.loadCharacters()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle party modal first
	if m.showPartyModal {
		return m.updatePartyModal(msg)
	}

	// Handle quit modal second
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// Pass mouse events to all components; each ignores
		// events outside its bounds.
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.showPartyModal {
			logWidth := int(float64(m.width)*0.75) - 4
			metaWidth := m.width - logWidth - 6

			m.logViewport.Width = logWidth - 2
			m.logViewport.Height = m.height - 7
			m.metaViewport.Width = metaWidth - 2
			m.metaViewport.Height = m.height - 4
			m.textarea.SetWidth(logWidth - 4)

			m.ready = true
			// Reformat all content for the new width
			m.writeLogContent()

			if m.session != nil {
				m.metaViewport.SetContent(writeMetadata(m.session))
			}
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0 // Reset progress animation

			m.log = append(m.log, logEntry{kind: "user", text: input})
			m.writeLogContent()

			return m, tea.Batch(m.sendFragment(input), progressTick())
		}

	case narrativeResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.log = append(m.log, logEntry{kind: "error", text: msg.err.Error()})
		} else {
			m.session = msg.response.Session
			m.log = append(m.log, logEntry{kind: "engine", text: formatFragmentResult(msg.response)})
			m.metaViewport.SetContent(writeMetadata(m.session))
		}
		m.writeLogContent()
		return m, nil

	case sessionMsg:
		if msg.err != nil {
			m.log = append(m.log, logEntry{kind: "error", text: msg.err.Error()})
			m.writeLogContent()
		} else if msg.session != nil {
			m.session = msg.session
			m.metaViewport.SetContent(writeMetadata(m.session))
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()      // Refresh to update the progress bar
			return m, progressTick() // Continue the animation
		}
	}

	// Update components for non-mouse events
	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `Commands:
• /help - Show this help
• /turn - Advance the combat turn
• /copy - Copy accumulated loot to clipboard
• /refresh - Reload session state from the server
• Ctrl+C - Quit

How to use:
• Paste narrative text and press Enter
• Combat cues start and end encounters
• Skill check mentions are rolled automatically`
		m.log = append(m.log, logEntry{kind: "info", text: helpText})
		m.writeLogContent()

	case "/turn":
		if m.session == nil || m.session.Combat == nil || !m.session.Combat.InCombat {
			m.log = append(m.log, logEntry{kind: "error", text: "no active combat"})
			m.writeLogContent()
			return m, nil
		}
		return m, m.advanceTurn()

	case "/refresh":
		// Pick up changes made by the worker path
		return m, m.refreshSession()

	case "/copy":
		if m.session == nil || m.session.Combat == nil || len(m.session.Combat.AccumulatedLoot) == 0 {
			m.log = append(m.log, logEntry{kind: "error", text: "no loot to copy"})
			m.writeLogContent()
			return m, nil
		}
		var lines []string
		for _, item := range m.session.Combat.AccumulatedLoot {
			lines = append(lines, formatLootItem(item))
		}
		if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
			m.log = append(m.log, logEntry{kind: "error", text: "clipboard: " + err.Error()})
		} else {
			m.log = append(m.log, logEntry{kind: "info", text: fmt.Sprintf("Copied %d loot items to clipboard.", len(lines))})
		}
		m.writeLogContent()

	default:
		m.log = append(m.log, logEntry{kind: "error", text: "unknown command: " + cmd})
		m.writeLogContent()
	}

	return m, nil
}

func (m ConsoleUI) sendFragment(text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendNarrative(m.client, m.config.APIBaseURL, m.session.ID, text)
		return narrativeResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		rec, err := getSession(m.client, m.config.APIBaseURL, m.session.ID)
		return sessionMsg{rec, err}
	}
}

func (m ConsoleUI) advanceTurn() tea.Cmd {
	return func() tea.Msg {
		rec, err := advanceTurn(m.client, m.config.APIBaseURL, m.session.ID)
		return sessionMsg{rec, err}
	}
}

func (m ConsoleUI) loadCharacters() tea.Cmd {
	return func() tea.Msg {
		characters, err := listCharacters(m.client, m.config.APIBaseURL)
		return charactersLoadedMsg{characters, err}
	}
}

func (m ConsoleUI) createSessionFromSelection() tea.Cmd {
	var ids []string
	for i, picked := range m.selected {
		if picked {
			ids = append(ids, m.characters[i].ID)
		}
	}
	return func() tea.Msg {
		rec, err := createSession(m.client, m.config.APIBaseURL, ids)
		return sessionCreatedMsg{rec, err}
	}
}

func (m ConsoleUI) updatePartyModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case charactersLoadedMsg:
		m.loadingCharacters = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.characters = msg.characters
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.session = msg.session
			m.showPartyModal = false
			// Set up viewport dimensions now that we have a session
			if m.width > 0 && m.height > 0 {
				logWidth := int(float64(m.width)*0.75) - 4
				metaWidth := m.width - logWidth - 6
				m.logViewport.Width = logWidth - 2
				m.logViewport.Height = m.height - 7
				m.metaViewport.Width = metaWidth - 2
				m.metaViewport.Height = m.height - 4
				m.textarea.SetWidth(logWidth - 4)
			}
			m.writeLogContent()
			m.metaViewport.SetContent(writeMetadata(m.session))
			m.textarea.Focus() // Ensure textarea gets focus when modal closes
			m.ready = true
		}
		return m, textarea.Blink // Return focus command

	case tea.KeyMsg:
		if m.loadingCharacters {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				m.showQuitModal = true
				return m, nil
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(m.characters)-1 {
				m.cursor++
			}
		case tea.KeySpace:
			m.selected[m.cursor] = !m.selected[m.cursor]
		case tea.KeyEnter:
			picked := 0
			for _, v := range m.selected {
				if v {
					picked++
				}
			}
			if picked > 0 {
				m.loading = true
				return m, m.createSessionFromSelection()
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showPartyModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit this session?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderPartyModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingCharacters {
		content.WriteString(modalTitleStyle.Render("Loading Characters..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available characters..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load characters: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Creating Session..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting up your encounter session..."))
	} else if len(m.characters) == 0 {
		content.WriteString(modalTitleStyle.Render("No Characters"))
		content.WriteString("\n\n")
		content.WriteString("No character sheets found in the data directory.")
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else {
		content.WriteString(modalTitleStyle.Render("Select Party Members"))
		content.WriteString("\n\n")

		for i, c := range m.characters {
			check := "[ ]"
			if m.selected[i] {
				check = "[x]"
			}
			line := fmt.Sprintf("%s %s (Level %d %s)", check, c.Name, c.Level, c.Class)
			if i == m.cursor {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
			} else {
				content.WriteString(modalItemStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("↑/↓ to navigate, Space to toggle, Enter to start, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showPartyModal {
		return m.renderPartyModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"", // Add empty line for spacing
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
