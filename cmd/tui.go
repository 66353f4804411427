// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Cedric Gatay

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tuiAutoACK bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive full-screen frame monitor",
	Long: `Display live Serial API traffic in a full-screen terminal UI with a
scrollable frame log and link statistics.

With --ack, data frames are acknowledged at the link layer like
'monitor --ack' does.

Keys: up/down/pgup/pgdn scroll the log, 'c' clears it, 'q' quits.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiAutoACK, "ack", false, "Acknowledge received data frames at the link layer")
	rootCmd.AddCommand(tuiCmd)
}

// Log entry shown in the frame viewport
type frameLogEntry struct {
	timestamp time.Time
	text      string
	isError   bool
}

// TUI model
type tuiModel struct {
	connInfo      string
	conn          Connection
	stats         *serialapi.Statistics
	log           []frameLogEntry
	maxLogEntries int
	viewport      viewport.Model
	ready         bool
	width         int
	height        int
	quitting      bool
	lastFrame     *serialapi.Frame
	readErr       error
}

// Messages
type tuiTickMsg time.Time
type tuiFrameMsg struct {
	frame     *serialapi.Frame
	decodeErr error
}
type tuiReadErrMsg struct {
	err error
}

func initialTUIModel(conn Connection, connInfo string) tuiModel {
	return tuiModel{
		connInfo:      connInfo,
		conn:          conn,
		stats:         serialapi.NewStatistics(),
		log:           make([]frameLogEntry, 0),
		maxLogEntries: 500,
		width:         80,
		height:        24,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		tuiTickCmd(),
		tea.EnterAltScreen,
	)
}

func tuiTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tuiTickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.log = m.log[:0]
			m.refreshViewport()
		}
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - 10
		if logHeight < 5 {
			logHeight = 5
		}
		if !m.ready {
			m.viewport = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width - 4
			m.viewport.Height = logHeight
		}
		m.refreshViewport()

	case tuiTickMsg:
		m.stats.CalculateRates()
		return m, tuiTickCmd()

	case tuiReadErrMsg:
		m.readErr = msg.err
		m.addLogEntry(fmt.Sprintf("CONNECTION: %v", msg.err), true)

	case tuiFrameMsg:
		m.stats.Update(msg.frame, msg.decodeErr)
		if msg.decodeErr != nil {
			m.addLogEntry(fmt.Sprintf("DECODE ERROR: %v", msg.decodeErr), true)
		} else if msg.frame != nil {
			m.lastFrame = msg.frame
			m.addLogEntry(strings.TrimRight(serialapi.FormatFrame(msg.frame), "\n"), false)
		}
	}

	return m, nil
}

func (m *tuiModel) addLogEntry(text string, isError bool) {
	m.log = append(m.log, frameLogEntry{
		timestamp: time.Now(),
		text:      text,
		isError:   isError,
	})

	// Keep only last N entries
	if len(m.log) > m.maxLogEntries {
		m.log = m.log[len(m.log)-m.maxLogEntries:]
	}
	m.refreshViewport()
}

func (m *tuiModel) refreshViewport() {
	if !m.ready {
		return
	}

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	var content strings.Builder
	if len(m.log) == 0 {
		content.WriteString("  (no frames yet)")
	}
	for _, entry := range m.log {
		if entry.isError {
			content.WriteString(errorStyle.Render(entry.text))
		} else {
			content.WriteString(entry.text)
		}
		content.WriteString("\n")
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(content.String())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if !m.ready {
		return "Initializing...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("ZWAVECTL - LIVE FRAME MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Connection: %s | Press 'q' to quit, 'c' to clear",
		m.connInfo)))
	s.WriteString("\n\n")

	// Statistics
	errorCount := m.stats.ChecksumErrors + m.stats.DecodeErrors
	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Frames:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		statsLabelStyle.Render("Data:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.DataFrames)),
		statsLabelStyle.Render("ACK:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.ACKFrames)),
		statsLabelStyle.Render("NAK/CAN:"), statsValueStyle.Render(fmt.Sprintf("%d/%d", m.stats.NAKFrames, m.stats.CANFrames)),
		statsLabelStyle.Render("Errors:"), func() string {
			if errorCount > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", errorCount))
			}
			return statsValueStyle.Render("0")
		}(),
	))
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Frame Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		statsLabelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return statsValueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Frame log
	s.WriteString(statsLabelStyle.Render("Frames:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(m.width - 4).Render(m.viewport.View()))

	if m.readErr != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("Connection lost: %v", m.readErr)))
	}

	return s.String()
}

func runTUI(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := tea.NewProgram(initialTUIModel(conn, connInfo))

	// Feed decoded frames to the UI. The goroutine ends when the
	// connection is closed, which the deferred Close above triggers
	// once the program exits.
	go func() {
		decoder := serialapi.NewDecoder()
		buf := make([]byte, 256)

		for {
			n, err := conn.Read(buf)
			if err != nil {
				p.Send(tuiReadErrMsg{err: err})
				if err == ErrConnectionClosed {
					return
				}
				continue
			}

			for i := 0; i < n; i++ {
				frame, err := decoder.DecodeByte(buf[i])
				if err != nil {
					p.Send(tuiFrameMsg{decodeErr: err})
					continue
				}
				if frame == nil {
					continue
				}
				p.Send(tuiFrameMsg{frame: frame})

				if tuiAutoACK && frame.Kind == serialapi.FrameData {
					if _, err := conn.Write([]byte{serialapi.ACK}); err != nil {
						p.Send(tuiReadErrMsg{err: err})
					}
				}
			}
		}
	}()

	_, err = p.Run()
	return err
}
