package wizard

// Step indices of the four wizard stages, in engine page order.
const (
	StepData       = 0
	StepPreprocess = 1
	StepTrain      = 2
	StepEvaluate   = 3

	// StepCount is the number of wizard steps.
	StepCount = 4
)

// StepName returns the display name for a step index.
func StepName(step int) string {
	switch step {
	case StepData:
		return "Data"
	case StepPreprocess:
		return "Preprocess"
	case StepTrain:
		return "Train"
	case StepEvaluate:
		return "Evaluate"
	default:
		return "?"
	}
}

// Enablement holds the per-step active flag derived from the current index.
type Enablement [StepCount]bool

// EnablementFor maps a step index to per-step flags. Exactly the step at
// the index is active. The engine sends indices unvalidated, so an
// out-of-range index leaves every step inactive.
func EnablementFor(index int) Enablement {
	var e Enablement
	if index >= 0 && index < StepCount {
		e[index] = true
	}
	return e
}

// Enabled reports whether the given step is the active one.
func (e Enablement) Enabled(step int) bool {
	if step < 0 || step >= StepCount {
		return false
	}
	return e[step]
}
