package ports

import "sbom-age/internal/types"

// ReportPort renders the human-readable analysis outcome.
type ReportPort interface {
	Alarm(record types.AlarmRecord, limitDays int)
	Ignored(component types.IgnoredComponent)
	Summary(alarms int, limitDays int)
}
