package pwm

import "strconv"

// Step is a signed amount added to a Duty. It is always in [-4095, 4095].
type Step struct {
	amount int16
}

// NewStep clamps v into [-4095, 4095].
func NewStep(v int) Step {
	switch {
	case v > maxStep:
		return Step{amount: maxStep}
	case v < minStep:
		return Step{amount: minStep}
	default:
		return Step{amount: int16(v)}
	}
}

// CheckedStep is NewStep without the clamp: out of range values are reported
// as Underflow or Overflow.
func CheckedStep(v int) (Step, error) {
	switch {
	case v < minStep:
		return Step{}, Underflow
	case v > maxStep:
		return Step{}, Overflow
	default:
		return Step{amount: int16(v)}, nil
	}
}

// DefaultStep is the unit step.
func DefaultStep() Step { return Step{amount: 1} }

// Amount returns the signed magnitude.
func (s Step) Amount() int { return int(s.amount) }

// Reverse keeps the magnitude and flips the direction.
func (s Step) Reverse() Step { return Step{amount: -s.amount} }

func (s Step) Add(o Step) (Step, error) {
	return CheckedStep(int(s.amount) + int(o.amount))
}

func (s Step) Sub(o Step) (Step, error) {
	return CheckedStep(int(s.amount) - int(o.amount))
}

// Double returns twice the step, or Overflow/Underflow past ±4095.
func (s Step) Double() (Step, error) {
	return CheckedStep(int(s.amount) << 1)
}

// The fractional steps truncate toward zero and cannot leave the range.

func (s Step) Half() Step      { return Step{amount: s.amount / 2} }
func (s Step) Quarter() Step   { return Step{amount: s.amount / 4} }
func (s Step) Eighth() Step    { return Step{amount: s.amount / 8} }
func (s Step) Sixteenth() Step { return Step{amount: s.amount / 16} }

func (s Step) String() string {
	return strconv.Itoa(int(s.amount))
}
