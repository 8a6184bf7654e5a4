package adapters

import (
	"fmt"
	"io"
	"os"

	"sbom-age/internal/ports"
	"sbom-age/internal/types"
)

// ConsoleReportAdapter prints the analysis outcome line by line, keeping
// the output grep-friendly: one ALARM or IGNORED line per component.
type ConsoleReportAdapter struct {
	Out io.Writer
}

func NewConsoleReportAdapter() *ConsoleReportAdapter {
	return &ConsoleReportAdapter{Out: os.Stdout}
}

func (a *ConsoleReportAdapter) Alarm(record types.AlarmRecord, limitDays int) {
	line := fmt.Sprintf("ALARM: %s | released: %s | age: %d days (limit: %d days)",
		record.Coordinate.PURL,
		record.ReleaseDate.Format("2006-01-02"),
		record.AgeDays,
		limitDays,
	)
	if record.UpdateAvailable() {
		line += fmt.Sprintf(" | UPDATE_AVAILABLE: %s (source: %s)", record.Latest.Version, record.Latest.Source)
	}
	fmt.Fprintln(a.Out, line)
}

func (a *ConsoleReportAdapter) Ignored(component types.IgnoredComponent) {
	reason := component.Reason
	if reason == "" {
		reason = "listed in ignore file"
	}
	fmt.Fprintf(a.Out, "IGNORED: %s (%s)\n", component.PURL, reason)
}

func (a *ConsoleReportAdapter) Summary(alarms int, limitDays int) {
	if alarms == 0 {
		fmt.Fprintf(a.Out, "No components older than %d days found.\n", limitDays)
		return
	}
	fmt.Fprintf(a.Out, "%d component(s) older than %d days.\n", alarms, limitDays)
}

var _ ports.ReportPort = (*ConsoleReportAdapter)(nil)
