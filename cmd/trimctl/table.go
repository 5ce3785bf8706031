package main

import (
	"fmt"
	"strings"

	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	var gybe string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the regime table of the configured calibration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if gybe != "" {
				cfg.Trim.Gybe = gybe
			}
			params, err := cfg.Params()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(trim.New(params), cfg.Timing()))
			return nil
		},
	}

	cmd.Flags().StringVar(&gybe, "gybe", "", "Gybe sweep override (literal, offset)")
	return cmd
}

// renderTable lists every regime segment with its wind and pulse range.
func renderTable(m *trim.Mapper, t servo.Timing) string {
	const row = "%-16s %-13s %-17s %s"

	var b strings.Builder
	p := m.Params()
	b.WriteString(StyleTitle.Render(fmt.Sprintf("centre %d ticks, gybe %s, wrap %d, wind offset %d",
		m.ApparentCentre(), p.Gybe, p.WrapModulus, p.WindOffset)))
	b.WriteString("\n")
	b.WriteString(StyleHeader.Render(fmt.Sprintf(row, "regime", "wind", "degrees", "pulse (ticks / us)")))
	b.WriteString("\n")

	period := t.Period()
	for _, seg := range m.Segments() {
		line := fmt.Sprintf(row,
			regimeName(seg.Regime, seg.Downwind),
			fmt.Sprintf("%#03x-%#03x", uint16(seg.From), uint16(seg.To)),
			fmt.Sprintf("%5.1f-%5.1f", seg.From.Degrees(), seg.To.Degrees()),
			formatPulseRange(seg.PulseFrom, seg.PulseTo, t),
		)
		b.WriteString(regimeStyle(seg.Regime, seg.Downwind).Render(line))
		if seg.PulseFrom >= period || seg.PulseTo >= period {
			b.WriteString(StyleWarning.Render("  exceeds PWM period"))
		}
		b.WriteString("\n")
	}

	port, stbd, gybe := m.Multipliers()
	b.WriteString(StyleDim.Render(fmt.Sprintf("multipliers: port %.3f, starboard %.3f, gybe %.3f ticks/code", port, stbd, gybe)))
	b.WriteString("\n")

	return b.String()
}

func formatPulseRange(from, to trim.Pulse, t servo.Timing) string {
	if from == to {
		return fmt.Sprintf("%d / %.0f", from, t.Microseconds(from))
	}
	return fmt.Sprintf("%d-%d / %.0f-%.0f", from, to, t.Microseconds(from), t.Microseconds(to))
}
