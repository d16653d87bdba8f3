package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kryptkit/krypt"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	senderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	selfStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lockedStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("203"))
	expiringSoon = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// expiringThreshold is the remaining time, in seconds, below which a
// countdown is highlighted.
const expiringThreshold = 10

type roomOptions struct {
	id     string
	sender string
	ttl    time.Duration
	secure bool
	key    string
}

func newRoomCmd(a *app) *cobra.Command {
	var opts roomOptions
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Open an ephemeral local message room",
		Long: `Opens an interactive room. Each message counts down from the room TTL
and disappears when it reaches zero. With --secure, messages are held
sealed with the Secure key and shown only if they open with it.

Keys: enter sends, ctrl+p pauses or resumes the countdown, esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := a.startRoom(cmd, opts)
			if err != nil {
				return err
			}
			return a.runRoom(a, room)
		},
	}
	cmd.Flags().StringVar(&opts.id, "id", "", "room identifier (default random)")
	cmd.Flags().StringVar(&opts.sender, "sender", "", "sender identifier (default local-<random>)")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 60*time.Second, "message lifetime")
	cmd.Flags().BoolVar(&opts.secure, "secure", false, "seal messages with the Secure key")
	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "Secure key for --secure")
	return cmd
}

func (a *app) startRoom(cmd *cobra.Command, opts roomOptions) (*krypt.Room, error) {
	ropts := []krypt.RoomOption{
		krypt.WithRoomID(opts.id),
		krypt.WithRoomSender(opts.sender),
		krypt.WithRoomTTL(opts.ttl),
		krypt.WithRoomLogger(a.logger),
	}
	if opts.secure {
		key, err := a.resolveKey(krypt.ModeSecure, opts.key)
		if err != nil {
			return nil, err
		}
		box, err := krypt.NewBox(key)
		if err != nil {
			return nil, err
		}
		ropts = append(ropts, krypt.WithRoomBox(box))
	}

	engine, err := a.engineFor(cmd.Context())
	if err != nil {
		return nil, err
	}
	return engine.StartRoom(ropts...)
}

func runRoomTUI(a *app, room *krypt.Room) error {
	changes, unsubscribe := watchRoom(room)
	defer unsubscribe()

	m := newRoomModel(room, a.settings.AutoClearAfterEncrypt)
	m.changes = changes

	p := tea.NewProgram(m, tea.WithInput(a.stdin), tea.WithOutput(a.stdout))
	_, err := p.Run()
	return err
}

// watchRoom subscribes to room changes without ever blocking the room: the
// callback runs on the update loop itself when a message is sent from
// Update. Only the newest snapshot is kept when the reader falls behind.
func watchRoom(room *krypt.Room) (<-chan []krypt.Message, func()) {
	changes := make(chan []krypt.Message, 1)
	unsubscribe := room.OnChange(func(msgs []krypt.Message) {
		for {
			select {
			case changes <- msgs:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})
	return changes, unsubscribe
}

// waitForChange delivers the next snapshot from changes as a roomChangedMsg.
func waitForChange(changes <-chan []krypt.Message) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		return roomChangedMsg(<-changes)
	}
}

// roomChangedMsg carries a room snapshot into the update loop.
type roomChangedMsg []krypt.Message

type roomModel struct {
	room        *krypt.Room
	changes     <-chan []krypt.Message
	input       textinput.Model
	messages    []krypt.Message
	clearOnSend bool
	err         error
}

func newRoomModel(room *krypt.Room, clearOnSend bool) roomModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	return roomModel{
		room:        room,
		input:       ti,
		messages:    room.Snapshot(),
		clearOnSend: clearOnSend,
	}
}

func (m roomModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

func (m roomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roomChangedMsg:
		m.messages = msg
		return m, waitForChange(m.changes)

	case tea.WindowSizeMsg:
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+p":
			if m.room.Listening() {
				m.room.Stop()
			} else {
				m.err = m.room.Listen()
			}
			return m, nil

		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			if _, err := m.room.Send(text); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			if m.clearOnSend {
				m.input.SetValue("")
			}
			m.messages = m.room.Snapshot()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m roomModel) View() string {
	var b strings.Builder

	status := "live"
	if !m.room.Listening() {
		status = "paused"
	}
	b.WriteString(titleStyle.Render("krypt room " + m.room.ID()))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("you are %s · ttl %s · %s", m.room.SenderID(), m.room.TTL(), status)))
	b.WriteString("\n\n")

	if len(m.messages) == 0 {
		b.WriteString(metaStyle.Render("No messages."))
		b.WriteString("\n")
	}
	for _, msg := range m.messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(krypt.UserMessage(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(metaStyle.Render("enter: send · ctrl+p: pause/resume · esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m roomModel) renderMessage(msg krypt.Message) string {
	countdown := fmt.Sprintf("[%3ds]", msg.Remaining)
	if msg.Remaining <= expiringThreshold {
		countdown = expiringSoon.Render(countdown)
	} else {
		countdown = metaStyle.Render(countdown)
	}

	sender := senderStyle.Render(msg.SenderID)
	if msg.SenderID == m.room.SenderID() {
		sender = selfStyle.Render(msg.SenderID)
	}

	text := msg.DisplayText()
	if msg.Text == nil {
		text = lockedStyle.Render(text)
	}
	return fmt.Sprintf("%s %s: %s", countdown, sender, text)
}
