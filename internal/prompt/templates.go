package prompt

// #region imports
import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// #endregion imports

// #region template

// Template is one candidate prompt text with a selection weight.
// Placeholders like {environment} are substituted from the schedule context.
type Template struct {
	Text   string  `yaml:"text"`
	Weight float64 `yaml:"weight"`
}

// Pool holds the per-category template sets. Templates are data, not
// logic: the pool is fully substitutable via YAML.
type Pool struct {
	templates map[Category][]Template
}

// #endregion template

// #region default-pool

// DefaultPool returns the built-in template sets.
func DefaultPool() *Pool {
	return &Pool{templates: map[Category][]Template{
		CategoryUnmaskingSupport: {
			{Text: "You've been holding a lot today. There's no one to perform for right now.", Weight: 2},
			{Text: "Noticing some effort in how you're coming across. It's okay to let that drop.", Weight: 1},
			{Text: "If it helps: nobody here needs the polished version of you.", Weight: 1},
		},
		CategoryEnergyWarning: {
			{Text: "Your energy reserve is running low. A short break could help before it gets heavy.", Weight: 2},
			{Text: "You've spent a lot of energy masking today. Maybe something gentle next?", Weight: 1},
		},
		CategoryEnergyCritical: {
			{Text: "You're running on empty. Whatever can wait, let it wait.", Weight: 1},
		},
		CategorySafeSpace: {
			{Text: "You're somewhere safer now. Take a moment to arrive before doing anything else.", Weight: 2},
			{Text: "Looks like you've landed in a {environment} space. The mask can come off here.", Weight: 1},
		},
		CategoryCheckIn: {
			{Text: "Quick check-in: how are you actually doing, underneath it all?", Weight: 1},
		},
	}}
}

// #endregion default-pool

// #region yaml

// LoadPoolFile reads a YAML template pool, shaped as category → templates.
func LoadPoolFile(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}
	return ParsePool(data)
}

// ParsePool parses a YAML template pool.
func ParsePool(data []byte) (*Pool, error) {
	raw := map[string][]Template{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse pool: %w", err)
	}
	templates := make(map[Category][]Template, len(raw))
	for cat, ts := range raw {
		for i, t := range ts {
			if strings.TrimSpace(t.Text) == "" {
				return nil, fmt.Errorf("parse pool: empty text in %s[%d]", cat, i)
			}
			if t.Weight <= 0 {
				ts[i].Weight = 1
			}
		}
		templates[Category(cat)] = ts
	}
	return &Pool{templates: templates}, nil
}

// #endregion yaml

// #region pick

// Pick chooses a template text for the category by weighted random pick
// and substitutes context placeholders.
func (p *Pool) Pick(cat Category, ctx map[string]string, rng *rand.Rand) string {
	ts := p.templates[cat]
	if len(ts) == 0 {
		return render("Take a breath. This is just a check-in.", ctx)
	}

	var total float64
	for _, t := range ts {
		w := t.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}
	target := rng.Float64() * total
	for _, t := range ts {
		w := t.Weight
		if w <= 0 {
			w = 1
		}
		target -= w
		if target < 0 {
			return render(t.Text, ctx)
		}
	}
	return render(ts[len(ts)-1].Text, ctx)
}

// render substitutes {key} placeholders from ctx.
func render(text string, ctx map[string]string) string {
	for k, v := range ctx {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

// #endregion pick
