package engine

// #region imports
import "fmt"

// #endregion imports

// #region config-error

// ConfigError reports a rejected configuration field. Configure returns it
// synchronously and keeps the previous configuration in force.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// #endregion config-error

// #region stats

// Stats counts the failure modes the pipeline absorbs instead of
// propagating. All counters are cumulative for the session.
type Stats struct {
	DroppedInputs      int  // malformed payloads rejected at ingest
	QueueOverflows     int  // oldest queued samples displaced by new ones
	ExtractorFailures  int  // per-sample extraction errors swallowed
	CorrelatorOverruns int  // fusion time-budget overruns
	Degraded           bool // correlator currently in degraded mode
}

// #endregion stats
