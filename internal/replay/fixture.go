package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/extract"
)

// #endregion imports

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded-session fixture.
type Fixture struct {
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_at"`
	Seed        int64     `json:"seed"`
	Steps       []Step    `json:"steps"`
	Expect      Expect    `json:"expect"`
}

// Step is one timed action: an ingested sample or a slow-tick reassessment.
// AtMs is the offset from StartAt.
type Step struct {
	AtMs int64  `json:"at_ms"`
	Kind string `json:"kind"` // "text" | "audio" | "context" | "reassess"

	Text  string                 `json:"text,omitempty"`
	App   string                 `json:"app,omitempty"`
	Audio *extract.AudioFeatures `json:"audio,omitempty"`
}

// Expect captures the assertions for a fixture run. Transition types and
// delivered prompt categories are compared in order; the optional bounds
// check the final snapshot.
type Expect struct {
	Transitions []string `json:"transitions"`
	Prompts     []string `json:"prompts"`

	MaskingMin *float64 `json:"masking_min,omitempty"`
	MaskingMax *float64 `json:"masking_max,omitempty"`
	EnergyMax  *float64 `json:"energy_max,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	if f.StartAt.IsZero() {
		return fmt.Errorf("start_at is required")
	}
	for i, s := range f.Steps {
		if s.AtMs < 0 {
			return fmt.Errorf("step %d: negative at_ms", i)
		}
		switch s.Kind {
		case "text":
			if s.Text == "" {
				return fmt.Errorf("step %d: text step without text", i)
			}
		case "audio":
			if s.Audio == nil {
				return fmt.Errorf("step %d: audio step without features", i)
			}
		case "context":
			if s.App == "" {
				return fmt.Errorf("step %d: context step without app", i)
			}
		case "reassess":
		default:
			return fmt.Errorf("step %d: unknown kind %q", i, s.Kind)
		}
	}
	return nil
}

// At resolves the step's absolute timestamp.
func (s *Step) At(start time.Time) time.Time {
	return start.Add(time.Duration(s.AtMs) * time.Millisecond)
}

// #endregion fixture-loader
