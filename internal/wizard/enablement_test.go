package wizard

import "testing"

func TestEnablementFor(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  Enablement
	}{
		{"data step", StepData, Enablement{true, false, false, false}},
		{"preprocess step", StepPreprocess, Enablement{false, true, false, false}},
		{"train step", StepTrain, Enablement{false, false, true, false}},
		{"evaluate step", StepEvaluate, Enablement{false, false, false, true}},
		{"negative index disables all", -1, Enablement{}},
		{"index past last step disables all", 4, Enablement{}},
		{"wildly out of range disables all", 99, Enablement{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnablementFor(tt.index)
			if got != tt.want {
				t.Errorf("EnablementFor(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestEnablement_EnabledBounds(t *testing.T) {
	e := EnablementFor(StepTrain)
	if !e.Enabled(StepTrain) {
		t.Error("train should be enabled")
	}
	if e.Enabled(StepData) {
		t.Error("data should be disabled")
	}
	if e.Enabled(-1) || e.Enabled(StepCount) {
		t.Error("out-of-range steps are never enabled")
	}
}

func TestStepName(t *testing.T) {
	names := map[int]string{
		StepData:       "Data",
		StepPreprocess: "Preprocess",
		StepTrain:      "Train",
		StepEvaluate:   "Evaluate",
		7:              "?",
	}
	for step, want := range names {
		if got := StepName(step); got != want {
			t.Errorf("StepName(%d) = %q, want %q", step, got, want)
		}
	}
}
