package extract

// #region imports
import (
	"strings"
	"time"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region app-lists

var professionalApps = []string{
	"slack", "teams", "outlook", "zoom", "jira", "confluence",
	"excel", "word", "powerpoint", "gmail", "calendar",
	"vscode", "intellij", "terminal", "linear", "salesforce",
}

var personalApps = []string{
	"discord", "whatsapp", "messages", "imessage", "instagram",
	"spotify", "netflix", "steam", "reddit", "youtube", "tiktok",
}

var creativeApps = []string{
	"photoshop", "procreate", "blender", "figma", "ableton",
	"garageband", "obsidian", "scrivener", "krita",
}

// #endregion app-lists

// #region classifier

const (
	knownAppConfidence   = 0.9
	unknownAppConfidence = 0.3
	// below this the environment falls back to the time-of-day heuristic
	envConfidenceFloor = 0.5
)

// classEnvironment maps an app class to its default environment.
var classEnvironment = map[AppClass]signal.Environment{
	ClassProfessional: signal.EnvWork,
	ClassPersonal:     signal.EnvSocial,
	ClassCreative:     signal.EnvHome,
	ClassUnknown:      signal.EnvUnknown,
}

// AppClassifier classifies foreground applications into environments via
// small curated lists. The lists are data; swapping them never changes logic.
type AppClassifier struct{}

// NewAppClassifier returns the default list-backed classifier.
func NewAppClassifier() *AppClassifier {
	return &AppClassifier{}
}

// Classify maps an application name to a class, confidence, and environment.
// Low-confidence results fall back to a time-of-day environment guess.
func (c *AppClassifier) Classify(appName string, now time.Time) ContextResult {
	lower := strings.ToLower(strings.TrimSpace(appName))

	class := ClassUnknown
	confidence := unknownAppConfidence
	switch {
	case matchesAny(lower, professionalApps):
		class = ClassProfessional
		confidence = knownAppConfidence
	case matchesAny(lower, personalApps):
		class = ClassPersonal
		confidence = knownAppConfidence
	case matchesAny(lower, creativeApps):
		class = ClassCreative
		confidence = knownAppConfidence
	}

	env := classEnvironment[class]
	if confidence < envConfidenceFloor || env == signal.EnvUnknown {
		env = timeOfDayEnvironment(now)
	}

	return ContextResult{Class: class, Confidence: confidence, Environment: env}
}

// timeOfDayEnvironment guesses work during 09:00-17:00, home otherwise.
func timeOfDayEnvironment(now time.Time) signal.Environment {
	h := now.Hour()
	if h >= 9 && h < 17 {
		return signal.EnvWork
	}
	return signal.EnvHome
}

func matchesAny(lower string, apps []string) bool {
	if lower == "" {
		return false
	}
	for _, a := range apps {
		if strings.Contains(lower, a) {
			return true
		}
	}
	return false
}

// #endregion classifier
