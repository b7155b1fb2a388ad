package registration

import (
	"time"

	"workbuddy-store/pkg/common/i18n"
)

// Step is a stage of the registration flow.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepContactInfo
	StepVerification
	// StepVerified is terminal; the wizard has navigated away.
	StepVerified
)

// TotalSteps is the number of user-visible steps.
const TotalSteps = 3

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepContactInfo:
		return "contact_info"
	case StepVerification:
		return "verification"
	case StepVerified:
		return "verified"
	}
	return "unknown"
}

// Event drives a step transition.
type Event int

const (
	// EventAdvance asks to leave the current step forward.
	EventAdvance Event = iota + 1
	// EventRetreat asks to go one step back.
	EventRetreat
	// EventRemoteSucceeded reports that the remote call requested by the
	// previous transition completed.
	EventRemoteSucceeded
)

// RemoteCall names the collaborator operation a transition requires.
type RemoteCall int

const (
	RemoteNone RemoteCall = iota
	RemoteRegister
	RemoteVerify
)

// Transition is the outcome of Next.
type Transition struct {
	From   Step
	To     Step
	Errors FieldErrors
	Remote RemoteCall
}

// Moved reports whether the transition changes the step.
func (t Transition) Moved() bool {
	return t.From != t.To
}

// Next computes the transition for event on step. It is pure: the caller
// performs any requested remote call and feeds EventRemoteSucceeded back.
//
// Forward motion always validates the step being left. Steps 2 and 3 only
// move forward after a remote success; backward motion is unconditional.
func Next(step Step, event Event, d Draft, now time.Time) Transition {
	return next(step, event, d, now, i18n.Default)
}

func next(step Step, event Event, d Draft, now time.Time, p *i18n.Printer) Transition {
	t := Transition{From: step, To: step}

	switch event {
	case EventRetreat:
		if step == StepContactInfo || step == StepVerification {
			t.To = step - 1
		}

	case EventAdvance:
		switch step {
		case StepBasicInfo:
			t.Errors = validateStep1(d, p)
			if t.Errors.Valid() {
				t.To = StepContactInfo
			}
		case StepContactInfo:
			t.Errors = validateStep2(d, now, p)
			if t.Errors.Valid() {
				t.Remote = RemoteRegister
			}
		case StepVerification:
			t.Errors = validateStep3(d, p)
			if t.Errors.Valid() {
				t.Remote = RemoteVerify
			}
		}

	case EventRemoteSucceeded:
		switch step {
		case StepContactInfo:
			t.To = StepVerification
		case StepVerification:
			t.To = StepVerified
		}
	}

	return t
}
