package middleware

import "time"

// debugInfo is attached as response headers (not the body) when the process
// is running in gin's debug mode, giving local development visibility into
// timing without disturbing the wire shape a client parses.
type debugInfo struct {
	Version   string
	StartTime time.Time
	EndTime   time.Time
	RuntimeMs int64
}
