package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the control loop with a live terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			session, err := openSession(cfg, flagMock)
			if err != nil {
				return err
			}
			defer session.Close()

			// Log lines would tear the alt screen
			log.SetOutput(io.Discard)

			p := tea.NewProgram(newWatchModel(session.loop.Mapper(), session.describe(cfg, flagMock)), tea.WithAltScreen())
			session.loop.OnUpdate(func(r control.Reading) {
				p.Send(readingMsg(r))
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			done := make(chan struct{})
			go func() {
				defer close(done)
				session.loop.Run(ctx)
			}()

			_, err = p.Run()
			cancel()
			<-done
			return err
		},
	}
}

// readingMsg delivers a loop reading to the model.
type readingMsg control.Reading

// watchModel is the Bubble Tea model of trimctl watch.
type watchModel struct {
	width    int
	title    string
	mapper   *trim.Mapper
	last     control.Reading
	have     bool
	count    int
	timeouts int
}

func newWatchModel(m *trim.Mapper, title string) watchModel {
	return watchModel{width: 80, title: title, mapper: m}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case readingMsg:
		r := control.Reading(msg)
		m.count++
		if r.Fallback {
			m.timeouts++
		}
		m.last = r
		m.have = true
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n\n")

	if !m.have {
		b.WriteString(StyleDim.Render("waiting for the vane..."))
		b.WriteString("\n")
		return StylePanel.Render(b.String())
	}

	r := m.last
	barWidth := m.width - 8
	if barWidth < 16 {
		barWidth = 16
	}

	if r.Fallback {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("vane timeout, pulse %d", r.Pulse)))
		if !r.Written {
			b.WriteString(StyleWarning.Render(" (not written)"))
		}
	} else {
		b.WriteString(windBar(m.mapper, r.Wind, barWidth))
		b.WriteString("\n")
		b.WriteString(regimeStyle(r.Regime, r.Downwind).Render(regimeName(r.Regime, r.Downwind)))
		b.WriteString(fmt.Sprintf("  raw %d  wind %#03x (%.1f deg)  pulse %d", r.Raw, uint16(r.Wind), r.Wind.Degrees(), r.Pulse))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d readings, %d timeouts  q to quit", m.count, m.timeouts)))

	return StylePanel.Render(b.String())
}

// windBar draws the wind range as coloured regime cells with a marker at w.
func windBar(m *trim.Mapper, w trim.Wind, width int) string {
	var b strings.Builder
	marker := int(w) * width / trim.Codes
	for i := 0; i < width; i++ {
		code := trim.Wind(i * trim.Codes / width)
		d := m.Decide(code)
		cell := "─"
		if i == marker {
			cell = "█"
		}
		b.WriteString(regimeStyle(d.Regime, d.Downwind).Render(cell))
	}
	return b.String()
}
