package engine

// Step identifies one stage of the fixed linear wizard sequence.
type Step int

const (
	StepProperty Step = iota + 1
	StepParties
	StepTerms
	StepSpecialTerms
	StepConfirmation
	StepPreview
)

// Valid reports whether s is within the wizard range.
func (s Step) Valid() bool {
	return s >= StepProperty && s <= StepPreview
}

func (s Step) String() string {
	switch s {
	case StepProperty:
		return "property"
	case StepParties:
		return "parties"
	case StepTerms:
		return "terms"
	case StepSpecialTerms:
		return "special_terms"
	case StepConfirmation:
		return "confirmation"
	case StepPreview:
		return "preview"
	}
	return "unknown"
}

// Stepper tracks the current wizard step. Navigation past either boundary is
// a no-op, and jumps to out-of-range steps are silently ignored so stale
// step indices from the UI cannot corrupt the position.
type Stepper struct {
	current Step
}

// NewStepper returns a stepper positioned at the first step.
func NewStepper() Stepper {
	return Stepper{current: StepProperty}
}

func (s *Stepper) Current() Step {
	return s.current
}

func (s *Stepper) Next() {
	if s.current < StepPreview {
		s.current++
	}
}

func (s *Stepper) Prev() {
	if s.current > StepProperty {
		s.current--
	}
}

func (s *Stepper) GoTo(step Step) {
	if step.Valid() {
		s.current = step
	}
}

func (s *Stepper) Reset() {
	s.current = StepProperty
}
