package energy

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region config

// Config holds depletion/recovery rates (per minute) and alert thresholds.
type Config struct {
	DepletionRate     float64 // energy lost per minute at masking 1.0
	RecoveryRate      float64 // energy gained per minute at safety 1.0
	WarningThreshold  float64
	CriticalThreshold float64
}

// DefaultConfig returns the standard energy model tuning.
func DefaultConfig() Config {
	return Config{
		DepletionRate:     0.02,
		RecoveryRate:      0.01,
		WarningThreshold:  0.3,
		CriticalThreshold: 0.1,
	}
}

// #endregion config

// #region crossing

// Crossing is an edge-triggered threshold event.
type Crossing string

const (
	CrossWarning  Crossing = "warning"
	CrossCritical Crossing = "critical"
)

// #endregion crossing

// #region budget

// Budget models the energy reserve: depleted by sustained masking,
// replenished by time in safe contexts. Threshold crossings are
// edge-triggered; a fired threshold re-arms only after energy recovers
// above it.
type Budget struct {
	config     Config
	current    float64
	dailySpent float64
	lastUpdate time.Time
	day        int // year*1000 + yday, for daily reset

	warningArmed  bool
	criticalArmed bool
}

// NewBudget creates a full budget anchored at now.
func NewBudget(config Config, now time.Time) *Budget {
	return &Budget{
		config:        config,
		current:       1.0,
		lastUpdate:    now,
		day:           dayKey(now),
		warningArmed:  true,
		criticalArmed: true,
	}
}

// Current returns the energy level in [0, 1].
func (b *Budget) Current() float64 {
	return b.current
}

// DailySpent returns the cost accumulated since the last daily reset.
func (b *Budget) DailySpent() float64 {
	return b.dailySpent
}

// SetConfig swaps rates and thresholds. The current level and arming
// state carry over unchanged.
func (b *Budget) SetConfig(config Config) {
	b.config = config
}

// #endregion budget

// #region tick

// Tick advances the model to now under the given masking and safety levels,
// returning any threshold crossings in severity order.
func (b *Budget) Tick(masking, safety float64, now time.Time) []Crossing {
	minutes := now.Sub(b.lastUpdate).Minutes()
	b.lastUpdate = now
	if minutes <= 0 {
		return nil
	}

	if key := dayKey(now); key != b.day {
		b.day = key
		b.dailySpent = 0
	}

	cost := signal.Clip01(masking) * b.config.DepletionRate * minutes
	gain := signal.Clip01(safety) * b.config.RecoveryRate * minutes

	b.current = signal.Clip01(b.current - cost + gain)
	b.dailySpent += cost

	var crossings []Crossing
	if b.warningArmed && b.current <= b.config.WarningThreshold {
		b.warningArmed = false
		crossings = append(crossings, CrossWarning)
	}
	if b.criticalArmed && b.current <= b.config.CriticalThreshold {
		b.criticalArmed = false
		crossings = append(crossings, CrossCritical)
	}

	// Re-arm only once energy recovers above the threshold.
	if !b.warningArmed && b.current > b.config.WarningThreshold {
		b.warningArmed = true
	}
	if !b.criticalArmed && b.current > b.config.CriticalThreshold {
		b.criticalArmed = true
	}

	return crossings
}

func dayKey(t time.Time) int {
	return t.Year()*1000 + t.YearDay()
}

// #endregion tick
