package enginesim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/augurlabs/augur/internal/logger"
)

// Scenario describes the synthetic dataset and timing the simulated engine
// serves. Scenarios are optional; the zero path falls back to the built-in
// default.
type Scenario struct {
	Name   string `yaml:"name"`
	Cancel bool   `yaml:"cancel"` // simulate a dismissed file chooser on load
	Seed   int64  `yaml:"seed"`

	EndX        int `yaml:"endX"`        // training epochs
	TrainTickMS int `yaml:"trainTickMs"` // delay between confidence points
	EvalSteps   int `yaml:"evalSteps"`   // progress steps while evaluating
	EvalTickMS  int `yaml:"evalTickMs"`  // delay between progress steps

	Sheets []SheetScenario `yaml:"sheets"`
}

// SheetScenario parameterizes one generated sheet.
type SheetScenario struct {
	Tab    string  `yaml:"tab"`
	Rows   int     `yaml:"rows"`
	Base   float64 `yaml:"base"`
	Trend  float64 `yaml:"trend"`
	Season float64 `yaml:"season"` // seasonal amplitude
	Noise  float64 `yaml:"noise"`
}

// DefaultScenario is the dataset served when no scenario file is given: a
// two-sheet workbook with enough rows to make the wizard worth watching.
func DefaultScenario() Scenario {
	return Scenario{
		Name: "demand-history",
		Seed: 17,

		EndX:        120,
		TrainTickMS: 60,
		EvalSteps:   25,
		EvalTickMS:  80,

		Sheets: []SheetScenario{
			{Tab: "North", Rows: 96, Base: 120, Trend: 0.9, Season: 14, Noise: 6},
			{Tab: "South", Rows: 96, Base: 80, Trend: 1.4, Season: 9, Noise: 4},
		},
	}
}

// LoadScenario reads a scenario file. An empty path returns the default.
// Missing fields fall back to the default's values so partial files stay
// usable.
func LoadScenario(path string) (Scenario, error) {
	if path == "" {
		return DefaultScenario(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}

	sc := Scenario{}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	sc.applyDefaults()
	logger.Debug("Loaded scenario from %s: name=%s sheets=%d", path, sc.Name, len(sc.Sheets))
	return sc, nil
}

func (sc *Scenario) applyDefaults() {
	def := DefaultScenario()
	if sc.Name == "" {
		sc.Name = def.Name
	}
	if sc.EndX <= 0 {
		sc.EndX = def.EndX
	}
	if sc.TrainTickMS <= 0 {
		sc.TrainTickMS = def.TrainTickMS
	}
	if sc.EvalSteps <= 0 {
		sc.EvalSteps = def.EvalSteps
	}
	if sc.EvalTickMS <= 0 {
		sc.EvalTickMS = def.EvalTickMS
	}
	if len(sc.Sheets) == 0 {
		sc.Sheets = def.Sheets
	}
	for i := range sc.Sheets {
		if sc.Sheets[i].Tab == "" {
			sc.Sheets[i].Tab = fmt.Sprintf("Sheet%d", i+1)
		}
		if sc.Sheets[i].Rows <= 0 {
			sc.Sheets[i].Rows = 96
		}
	}
}

// TrainTick returns the delay between emitted confidence points.
func (sc Scenario) TrainTick() time.Duration {
	return time.Duration(sc.TrainTickMS) * time.Millisecond
}

// EvalTick returns the delay between emitted evaluation progress steps.
func (sc Scenario) EvalTick() time.Duration {
	return time.Duration(sc.EvalTickMS) * time.Millisecond
}
