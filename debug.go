package veneer

import "time"

// debugStats holds per-frame timing and commit counts.
// Only populated when SceneConfig.Debug is true.
type debugStats struct {
	resolveTime  time.Duration
	commitTime   time.Duration
	committed    int
	hidden       int
	recycled     int
	liveElements int
}

// debugLog writes the frame's stats to the package logger at debug level.
func (s *Scene) debugLog(stats debugStats) {
	logger.Debug("veneer: frame",
		"resolve", stats.resolveTime,
		"commit", stats.commitTime,
		"total", stats.resolveTime+stats.commitTime,
		"committed", stats.committed,
		"hidden", stats.hidden,
		"recycled", stats.recycled,
		"live", stats.liveElements,
	)
}

// SetDebugMode enables or disables per-frame stats logging.
func (s *Scene) SetDebugMode(enabled bool) {
	s.cfg.Debug = enabled
}
