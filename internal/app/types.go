package app

type CheckRequest struct {
	SBOMPath         string
	MaxAgeDays       int
	CheckUpdates     bool
	CacheFile        string
	IgnoreFile       string
	ManifestPath     string
	Workers          int
	ShowIgnored      bool
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type CheckResult struct {
	Components int
	Skipped    int
	Ignored    int
	Filtered   int
	Resolved   int
	Unresolved int
	Alarms     int
	Updates    int
}
