package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/stakestar/nodechecker/audit"
	"go.uber.org/zap"
)

// Reporter writes findings as "[OK] ..." / "[FAIL] ..." lines.
type Reporter struct {
	out    io.Writer
	logger *zap.Logger
	styles map[audit.Severity]lipgloss.Style
}

// New creates a Reporter writing to out. With colorize set the severity tag is
// styled, but only when out is a terminal that supports it.
func New(out io.Writer, logger *zap.Logger, colorize bool) *Reporter {
	r := &Reporter{
		out:    out,
		logger: logger.With(zap.String("who", "Reporter")),
	}
	if colorize {
		renderer := lipgloss.NewRenderer(out)
		r.styles = map[audit.Severity]lipgloss.Style{
			audit.SeverityOK:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
			audit.SeverityFail: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		}
	}
	return r
}

// Report writes one line per finding, in order.
func (r *Reporter) Report(findings []audit.Finding) {
	for _, f := range findings {
		if _, err := fmt.Fprintln(r.out, r.line(f)); err != nil {
			r.logger.Warn("could not write finding", zap.String("finding", f.Message), zap.Error(err))
		}
	}
}

func (r *Reporter) line(f audit.Finding) string {
	style, ok := r.styles[f.Severity]
	if !ok {
		return f.String()
	}
	return style.Render("["+f.Severity.String()+"]") + " " + f.Message
}
