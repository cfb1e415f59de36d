// Package ui is the terminal chat shell.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"smartchat/model"
	"smartchat/session"
)

// Options configure the shell.
type Options struct {
	ChartsDir string
	Version   string
	Model     string
	Logger    zerolog.Logger
}

type AppView struct {
	sess      *session.Session
	chartsDir string
	version   string
	modelName string
	log       zerolog.Logger

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Last snapshot of the conversation. Session methods block while a turn
	// runs, so View never reads the session directly.
	turns   []model.Turn
	saved   map[int]string
	pending string

	busy     bool
	cancel   context.CancelFunc
	status   string
	errMsg   string
	showHelp bool
}

func NewAppView(sess *session.Session, opts Options) AppView {
	ta := textarea.New()
	ta.Placeholder = "Enter your question, or /help for commands..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter sends
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		sess:      sess,
		chartsDir: opts.ChartsDir,
		version:   opts.Version,
		modelName: opts.Model,
		log:       opts.Logger,
		viewport:  viewport.New(0, 0),
		textarea:  ta,
		spinner:   sp,
		turns:     sess.Turns(),
		saved:     map[int]string{},
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title, separator, textarea (3 lines) and status bar
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-6, 1)
		a.textarea.SetWidth(a.width)
		a.ready = true
		a.refresh(true)
		return a, nil

	case sessionUpdatedMsg:
		a.busy = false
		a.pending = ""
		if a.cancel != nil {
			a.cancel()
			a.cancel = nil
		}
		a.turns = msg.turns
		a.saved = msg.saved
		a.status = msg.status
		a.errMsg = ""
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			a.log.Warn().Err(msg.err).Msg("session operation failed")
		}
		a.refresh(true)
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refresh(false)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if a.cancel != nil {
				a.cancel()
			}
			return a, tea.Quit
		case "esc":
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			if a.busy && a.cancel != nil {
				a.cancel()
				a.status = "Cancelling..."
			}
			return a, nil
		case "enter":
			return a.handleInput()
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleInput() (tea.Model, tea.Cmd) {
	if a.busy {
		a.status = "Wait for the current operation, or press Esc to cancel"
		return a, nil
	}

	input := a.textarea.Value()
	cmd, err := parseCommand(input)
	if errors.Is(err, errNoInput) {
		// A pending image may still be sent without text.
		if a.hasPendingImage() {
			cmd, err = command{kind: cmdMessage}, nil
		} else {
			return a, nil
		}
	}
	if err != nil {
		a.errMsg = err.Error()
		return a, nil
	}
	a.textarea.Reset()
	a.errMsg = ""
	a.status = ""
	a.showHelp = false

	switch cmd.kind {
	case cmdQuit:
		return a, tea.Quit
	case cmdHelp:
		a.showHelp = true
		return a, nil
	case cmdCopy:
		text, ok := lastReply(a.turns)
		if !ok {
			a.errMsg = "Nothing to copy yet"
			return a, nil
		}
		if err := clipboard.WriteAll(text); err != nil {
			a.errMsg = fmt.Sprintf("Copy failed: %v", err)
			return a, nil
		}
		a.status = "Copied last response to clipboard"
		return a, nil
	case cmdClear:
		return a.start(a.resetCmd(), "")
	case cmdDropCSV:
		return a.start(a.clearDatasetCmd(), "")
	case cmdImage:
		return a.start(a.attachImageCmd(cmd.arg), "")
	case cmdCSV:
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		return a.start(a.loadDatasetCmd(ctx, cmd.arg), "")
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	return a.start(a.submitCmd(ctx, cmd.arg), cmd.arg)
}

// start marks the view busy and runs op in the background.
func (a AppView) start(op tea.Cmd, pending string) (tea.Model, tea.Cmd) {
	a.busy = true
	a.pending = pending
	a.refresh(true)
	return a, tea.Batch(op, a.spinner.Tick)
}

// hasPendingImage is only called when no operation is running.
func (a AppView) hasPendingImage() bool {
	return a.sess.PendingImage() != nil
}

func (a *AppView) refresh(gotoBottom bool) {
	content := renderTurns(a.turns, a.saved, a.width)
	if a.busy && a.pending != "" {
		content += formatUserMessage(UserStyle.Render("You"), a.pending)
	}
	if a.busy {
		content += a.spinner.View() + " " + DimStyle.Render("Waiting for response...")
	}
	a.viewport.SetContent(content)
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading smartchat..."
	}

	title := TitleStyle.Render("Multi-Purpose Chat App")
	if a.modelName != "" {
		title += DimStyle.Render(" · " + a.modelName)
	}
	if a.version != "" {
		title += DimStyle.Render(" · v" + a.version)
	}
	separator := BorderStyle.Render(strings.Repeat("─", max(a.width, 1)))

	body := a.viewport.View()
	if a.showHelp {
		body = lipgloss.Place(a.width, a.viewport.Height, lipgloss.Center, lipgloss.Center, helpText())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		separator,
		a.textarea.View(),
		a.statusLine(),
	)
}

func (a AppView) statusLine() string {
	if a.errMsg != "" {
		return ErrorStyle.Render(a.errMsg)
	}
	if a.status != "" {
		return StatusStyle.Render(a.status)
	}
	if a.busy {
		return FormatFooter("Esc", "Cancel", "PgUp/PgDn", "Scroll")
	}
	return FormatFooter("Enter", "Send", "Alt+Enter", "Newline", "/help", "Commands", "Ctrl+C", "Quit")
}

func helpText() string {
	green := lipgloss.NewStyle().Bold(true).Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			green.Render("smartchat - Commands"),
			"",
			blue.Render("## Attachments"),
			"• /image <path>     Attach an image to your next message",
			"• /csv <path|url>   Load a CSV dataset",
			"• /csv drop         Delete the loaded dataset",
			"",
			blue.Render("## Conversation"),
			"• /clear            Start a new conversation",
			"• /copy             Copy the last response",
			"• /quit             Quit",
			"",
			blue.Render("## Tips"),
			"• Ask for a histogram or bar chart of a CSV column.",
			"• Charts are saved as PNG files.",
			"• Start a message with // to send a leading slash.",
			"",
			HelpStyle.Render("Esc to close"),
		))
}

// Run starts the shell on the alternate screen and blocks until it exits.
func Run(sess *session.Session, opts Options) error {
	p := tea.NewProgram(NewAppView(sess, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
